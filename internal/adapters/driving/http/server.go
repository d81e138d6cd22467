package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/rs/cors"

	"github.com/custodia-labs/crmlink/internal/logger"
)

// Server runs the router behind CORS handling.
type Server struct {
	httpServer *nethttp.Server
	log        *logger.Logger
}

// CORS wraps h so the front-end at allowedOrigins may call the API with
// credentials. An empty list leaves h unwrapped.
func CORS(h nethttp.Handler, allowedOrigins []string) nethttp.Handler {
	if len(allowedOrigins) == 0 {
		return h
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{nethttp.MethodGet, nethttp.MethodDelete, nethttp.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(h)
}

// NewServer creates a server on addr.
func NewServer(addr string, h *Handler, allowedOrigins []string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewSilent()
	}
	return &Server{
		httpServer: &nethttp.Server{
			Addr:              addr,
			Handler:           CORS(NewRouter(h, log), allowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log.Component("http"),
	}
}

// Handler returns the root handler.
func (s *Server) Handler() nethttp.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	s.log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, nethttp.ErrServerClosed) {
		return nil
	}
	return err
}
