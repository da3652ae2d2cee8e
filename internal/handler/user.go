package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tush00nka/dream_homes/internal/middleware"
	"tush00nka/dream_homes/internal/model"
	"tush00nka/dream_homes/internal/pkg/auth"
	"tush00nka/dream_homes/internal/pkg/httputils"
	"tush00nka/dream_homes/internal/service"
)

type UserHandler struct {
	userService service.UserService
	sessions    *auth.SessionStore
}

func NewUserHandler(userService service.UserService, sessions *auth.SessionStore) *UserHandler {
	return &UserHandler{userService: userService, sessions: sessions}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router, requireAuth mux.MiddlewareFunc) {
	router.HandleFunc("/register", h.registerUser).Methods("POST", "OPTIONS")
	router.HandleFunc("/login", h.loginUser).Methods("POST", "OPTIONS")
	router.HandleFunc("/logout", h.logoutUser).Methods("POST", "OPTIONS")
	router.Handle("/user/{id}", requireAuth(http.HandlerFunc(h.getUser))).Methods("GET", "OPTIONS")
	router.Handle("/properties/{id}/save", requireAuth(http.HandlerFunc(h.toggleSaved))).Methods("POST", "OPTIONS")
}

type TokenResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) issueToken(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := h.sessions.SaveToken(w, r, token); err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	httputils.ResponseJSON(w, status, TokenResponse{Token: token, User: user})
}

// @Summary Register
// @Description Register an account
// @ID register
// @Accept json
// @Produce json
// @Param registerData body RegisterRequest true "Register data"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /register [post]
func (h *UserHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	var request RegisterRequest
	if err := httputils.DecodeJSON(w, r, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if request.Email == "" || request.Password == "" {
		httputils.ResponseError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if request.Password != request.ConfirmPassword {
		httputils.ResponseError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	user, err := h.userService.Register(r.Context(), request.Name, request.Email, request.Password)
	if errors.Is(err, service.ErrEmailTaken) {
		httputils.ResponseError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.issueToken(w, r, http.StatusCreated, user)
}

// @Summary Login
// @Description Log into an account
// @ID login
// @Accept json
// @Produce json
// @Param loginData body LoginRequest true "Login data"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /login [post]
func (h *UserHandler) loginUser(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if err := httputils.DecodeJSON(w, r, &request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), request.Email, request.Password)
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, err.Error())
		return
	}

	h.issueToken(w, r, http.StatusOK, user)
}

// @Summary Logout
// @ID logout
// @Produce json
// @Success 200 {object} response.StatusResponse
// @Router /logout [post]
func (h *UserHandler) logoutUser(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to clear session")
		return
	}
	httputils.ResponseStatus(w, http.StatusOK, "Logged out")
}

// @Summary Get user
// @Description Get the caller with saved properties and received messages
// @ID get-user
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /user/{id} [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.Claims(r.Context())

	userID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		httputils.ResponseError(w, http.StatusNotFound, "No such user")
		return
	}

	if claims == nil || claims.UserID != uint(userID) {
		httputils.ResponseError(w, http.StatusForbidden, "Cannot view another user's account")
		return
	}

	user := h.userService.GetUser(r.Context(), uint(userID))
	if user == nil {
		httputils.ResponseError(w, http.StatusNotFound, "No such user")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, user)
}

// @Summary Save or unsave property
// @ID toggle-saved
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Property ID"
// @Success 200 {object} service.SaveResult
// @Failure 400 {object} response.ErrorResponse
// @Router /properties/{id}/save [post]
func (h *UserHandler) toggleSaved(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.Claims(r.Context())

	propertyID := service.PropertyIDFromString(mux.Vars(r)["id"])
	if propertyID == 0 || claims == nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Error saving property")
		return
	}

	result := h.userService.ToggleSaved(r.Context(), propertyID, claims.Email)
	if result == nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Error saving property")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, result)
}
