package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"tush00nka/dream_homes/internal/handler"
	"tush00nka/dream_homes/internal/middleware"
	"tush00nka/dream_homes/internal/pkg/auth"
)

// RouteRegistrar is implemented by every handler group.
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router, requireAuth mux.MiddlewareFunc)
}

type ServerOptions struct {
	Sessions       *auth.SessionStore
	AllowedOrigins []string
	Health         http.HandlerFunc
}

type Server struct {
	router  *mux.Router
	handler http.Handler
}

func NewServer(opts ServerOptions, registrars ...RouteRegistrar) *Server {
	router := mux.NewRouter()

	// Страницы, требующие входа, перенаправляют на главную
	router.Use(middleware.ProtectedRoutes(opts.Sessions, "/properties/add"))

	requireAuth := mux.MiddlewareFunc(middleware.RequireAuth(opts.Sessions))
	for _, r := range registrars {
		r.RegisterRoutes(router, requireAuth)
	}

	router.HandleFunc("/ping", handler.Ping).Methods("GET")
	if opts.Health != nil {
		router.HandleFunc("/health", opts.Health).Methods("GET")
	}

	// Настройка Swagger
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
		handlers.AllowCredentials(),
	)

	return &Server{
		router:  router,
		handler: handlers.CombinedLoggingHandler(os.Stdout, cors(router)),
	}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests.
func (s *Server) Run(port string) error {
	srv := &http.Server{
		Handler:        s.handler,
		Addr:           ":" + port,
		WriteTimeout:   15 * time.Second,
		ReadTimeout:    15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-sigCh:
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Println("Server gracefully stopped")
	return nil
}
