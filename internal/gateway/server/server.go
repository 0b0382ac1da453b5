package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"urbanplanner/internal/gateway/handler"
	"urbanplanner/internal/gateway/middleware"
)

type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// NewMux mounts the handler routes behind request-id and CORS middleware.
func NewMux(h *handler.Handler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return middleware.CORS(middleware.RequestID(logger)(mux))
}

func New(port string, handler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              port,
			Handler:           h2c.NewHandler(handler, &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: logger,
	}
}

func (s *Server) Start() error {
	s.log.Info("starting API server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve runs on an existing listener; used by tests to pick a free port.
func (s *Server) Serve(l net.Listener) error {
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
