package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaot623/gogo/chatrelay/internal/adapter/llm"
	"github.com/xiaot623/gogo/chatrelay/internal/config"
	"github.com/xiaot623/gogo/chatrelay/internal/history"
	store "github.com/xiaot623/gogo/chatrelay/internal/repository"
	"github.com/xiaot623/gogo/chatrelay/internal/service"
	"github.com/xiaot623/gogo/chatrelay/internal/session"
	handler "github.com/xiaot623/gogo/chatrelay/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	slog.Info("starting chat relay",
		slog.Int("port", cfg.HTTPPort),
		slog.String("database", cfg.DatabaseURL),
		slog.String("provider", cfg.LLMProvider),
		slog.String("model", cfg.LLMModel),
	)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL, cfg.HistoryNamespace)
	if err != nil {
		fatal("failed to initialize store", err)
	}
	defer db.Close()

	// Initialize LLM client
	completer, err := llm.NewCompleter(cfg)
	if err != nil {
		fatal("failed to initialize LLM client", err)
	}

	// Initialize service
	histories := history.NewRepository(db)
	svc := service.New(db, histories, completer, cfg)
	sessions := session.NewManager(histories, cfg.SessionTTL, cfg.SecureCookie)

	server := handler.NewServer(handler.NewHandler(svc, sessions))

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go svc.RunHistoryJanitor(janitorCtx)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			fatal("failed to start server", err)
		}
	}()

	slog.Info("chat API started", slog.Int("port", cfg.HTTPPort))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down chat relay")
	stopJanitor()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server gracefully", slog.Any("error", err))
	}

	slog.Info("chat relay stopped")
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
