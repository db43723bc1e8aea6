package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m-mizutani/pdfsaver/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr    string
	maxBody int64
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithMaxBody limits the size of request bodies
func WithMaxBody(n int64) Option {
	return func(c *config) {
		c.maxBody = n
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates the HTTP server exposing the save API
func NewServer(
	ctx context.Context,
	saverUC interfaces.SaverUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr:    "localhost:8080",
		maxBody: 64 * 1024,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)

	saveHandler := NewSaveHandler(saverUC, cfg.maxBody)
	router.Route("/api", func(r chi.Router) {
		// plain form and text bodies can be posted cross-origin without preflight
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/save", saveHandler.Handle)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
