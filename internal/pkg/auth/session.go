package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName     = "dream-homes.session"
	sessionTokenKey = "token"
)

type SessionStore struct {
	store *sessions.CookieStore
}

func NewSessionStore(key string) *SessionStore {
	if key == "" {
		key = string(jwtKey)
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// SaveToken remembers the issued token in the session cookie.
func (s *SessionStore) SaveToken(w http.ResponseWriter, r *http.Request, token string) error {
	session, _ := s.store.Get(r, SessionName)
	session.Values[sessionTokenKey] = token
	return session.Save(r, w)
}

// Token returns the session token, or false when the request carries none.
func (s *SessionStore) Token(r *http.Request) (string, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return "", false
	}

	token, ok := session.Values[sessionTokenKey].(string)
	return token, ok && token != ""
}

func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, sessionTokenKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// CurrentUser resolves the caller from the bearer header, falling back to
// the session cookie.
func (s *SessionStore) CurrentUser(r *http.Request) (*Claims, error) {
	token, ok := BearerToken(r)
	if !ok {
		token, ok = s.Token(r)
	}
	if !ok {
		return nil, http.ErrNoCookie
	}

	return ValidateToken(token)
}
