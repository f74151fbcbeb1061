package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/ovenfresh/shopchat/internal/config"
	"github.com/ovenfresh/shopchat/internal/handler"
	"github.com/ovenfresh/shopchat/internal/hub"
	"github.com/ovenfresh/shopchat/internal/middleware"
	"github.com/ovenfresh/shopchat/internal/registry"
	"github.com/ovenfresh/shopchat/internal/store"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	s, err := newStore(cfg)
	if err != nil {
		logger.Error("store", slog.Any("error", err))
		os.Exit(1)
	}
	defer s.Close()

	reg := registry.New(logger)
	h := hub.New(reg, s, logger)

	r := mux.NewRouter()
	r.HandleFunc("/health", handler.Health()).Methods(http.MethodGet)
	r.HandleFunc("/api/chats/{shop_id}/{customer_id}/messages", handler.ChatHistory(s, cfg.HistoryLimit)).Methods(http.MethodGet)
	r.HandleFunc("/api/presence/shops", handler.OnlineShops(reg)).Methods(http.MethodGet)
	r.HandleFunc("/ws", handler.ServeWS(h, logger))
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("static")))

	wrapped := middleware.Logging(logger, middleware.CORS(cfg.AllowedOrigin, r))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: wrapped,
	}

	go func() {
		logger.Info("shopchat listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("shopchat stopped")
}

func newStore(cfg config.Config) (store.Store, error) {
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return store.NewPostgres(ctx, cfg.DatabaseURL)
	}
	return store.NewSQLite(cfg.DBPath)
}
