package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"aichat/internal/ai"
	"aichat/internal/auth"
	"aichat/internal/chat"
	"aichat/internal/clock"
	"aichat/internal/config"
	"aichat/internal/countries"
	"aichat/internal/httpapi"
	"aichat/internal/httpapi/handlers"
	"aichat/internal/kv"
	"aichat/internal/theme"
)

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler).With(slog.String("service", "chatd"))
	slog.SetDefault(logger)
	return logger
}

func openStorage(cfg config.Config, log *slog.Logger) kv.Store {
	switch strings.ToLower(cfg.StorageBackend) {
	case "redis":
		return kv.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "memory":
		return kv.NewMemory()
	default:
		store, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Error("open sqlite storage", "path", cfg.SQLitePath, "err", err)
			os.Exit(1)
		}
		return store
	}
}

func main() {
	cfg := config.Load()
	log := newLogger(cfg)
	clk := clock.New()

	storage := openStorage(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	authStore := auth.NewStore(ctx, storage, log)
	chatStore := chat.NewStore(ctx, storage, clk, log)
	themeStore := theme.NewStore(ctx, storage, log, func(dark bool) {
		log.Info("theme changed", "dark", dark)
	})

	reg := ai.NewRegistry()
	reg.Register("canned", func(ctx context.Context) (ai.Provider, error) {
		_ = ctx
		return ai.NewCannedProvider(clk, cfg.AIMinDelay, cfg.AIMaxDelay), nil
	})
	provider, err := reg.Get(ctx, cfg.AIProvider)
	if err != nil {
		log.Error("resolve ai provider", "provider", cfg.AIProvider, "err", err)
		os.Exit(1)
	}

	otp := auth.NewOTPClient(clk, log, cfg.OTPCode)
	flow := auth.NewFlow(authStore, otp, otp)
	exchange := chat.NewExchange(chatStore, provider, chat.LogNotifier{Log: log}, clk, log)
	history := chat.SeedSource{Now: clk.Now}
	countriesClient := countries.NewClient(cfg.CountriesBaseURL, log)

	h := handlers.NewHandler(cfg, authStore, flow, chatStore, exchange, history,
		countriesClient, themeStore, clk, log)
	router := httpapi.NewRouter(h)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.Info("chatd listening", "addr", cfg.HTTPAddr, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
