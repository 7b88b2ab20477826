package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/trade_journal/config"
)

type Server struct {
	srv *http.Server
}

func NewServer(cfg *config.Config, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}}
}

func (s *Server) Start() {
	go func() {
		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped with error", slog.String("err", err.Error()))
			panic(err)
		}
	}()
	slog.Info("http server started", slog.String("addr", s.srv.Addr))
}

func (s *Server) Stop(ctx context.Context) {
	slog.Info("start stopping http server")
	if err := s.srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
	}
	slog.Info("http server stopped")
}
