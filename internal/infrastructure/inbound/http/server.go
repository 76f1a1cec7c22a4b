package http_server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	content_service "content-service/internal/domain/ports/input/content"
	ports "content-service/internal/domain/ports/output"
	content_http "content-service/internal/infrastructure/inbound/http/content"
)

type Server struct {
	server  *http.Server
	address string
	port    int
	log     ports.Logger
}

func NewRouter(
	service content_service.Service,
	validate *validator.Validate,
	log ports.Logger,
	metrics ports.MetricsProvider,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(LoggerMiddleware(log))
	r.Use(MetricsMiddleware(metrics))
	r.Use(middleware.Recoverer)

	r.Method(http.MethodPost, "/users", content_http.NewCreateUserHandler(service, validate, log))
	r.Method(http.MethodPost, "/posts", content_http.NewCreatePostHandler(service, validate, log))
	r.Method(http.MethodGet, "/posts", content_http.NewListPostsHandler(service, log))

	return r
}

func NewServer(handler http.Handler, address string, port int, readTimeout, writeTimeout time.Duration, log ports.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", address, port),
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		address: address,
		port:    port,
		log:     log,
	}
}

func (s *Server) Run() error {
	s.log.Info("Starting HTTP server", slog.Int("port", s.port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
