// Command fakeapi serves an in-memory wishlist REST service for running the
// console locally.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wishlist-Squad/Wishlist/internal/fakeapi"
	pkgconfig "github.com/Wishlist-Squad/Wishlist/pkg/config"
	"github.com/Wishlist-Squad/Wishlist/pkg/logger"
	"github.com/Wishlist-Squad/Wishlist/pkg/middleware"
)

type config struct {
	Port     int    `env:"FAKEAPI_HTTP_PORT" envDefault:"5000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	var cfg config
	if err := pkgconfig.Load(&cfg); err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("wishlist-fakeapi", cfg.LogLevel)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           middleware.RequestLogging(log)(fakeapi.New().Handler()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting fake wishlist service", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
