package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kids-learning/auth-service/internal/logging"
	"github.com/kids-learning/auth-service/internal/server/auth"
	"github.com/kids-learning/auth-service/internal/server/models"
)

const shutdownTimeout = 5 * time.Second

// Server serves the auth HTTP API.
type Server struct {
	address string
	logger  logging.Logger
	handler *Handler
	tokens  *auth.Manager
}

func NewServer(address string, logger logging.Logger, handler *Handler, tokens *auth.Manager) *Server {
	return &Server{
		address: address,
		logger:  logger.With("module", "http_server"),
		handler: handler,
		tokens:  tokens,
	}
}

// Routes declares the full route table, including each route's permitted
// roles. Routes without a Guard wrapper are public.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register-guardian", s.handler.RegisterGuardian)
	mux.HandleFunc("POST /auth/register-dependent", s.handler.RegisterDependent)
	mux.HandleFunc("POST /auth/login", s.handler.Login)

	anyRole := s.handler.Guard(s.tokens)
	guardianOnly := s.handler.Guard(s.tokens, models.RoleGuardian)

	mux.Handle("GET /auth/me", anyRole(http.HandlerFunc(s.handler.Me)))
	mux.Handle("GET /auth/dependents", guardianOnly(http.HandlerFunc(s.handler.Dependents)))

	mux.HandleFunc("GET /health", s.handler.Health)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
