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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/barcode"
	"github.com/MrJamesThe3rd/gastos/internal/bot"
	"github.com/MrJamesThe3rd/gastos/internal/card"
	cardStore "github.com/MrJamesThe3rd/gastos/internal/card/store"
	"github.com/MrJamesThe3rd/gastos/internal/config"
	"github.com/MrJamesThe3rd/gastos/internal/database"
	"github.com/MrJamesThe3rd/gastos/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/gastos/internal/expense/store"
	"github.com/MrJamesThe3rd/gastos/internal/extract"
	gastosHttp "github.com/MrJamesThe3rd/gastos/internal/http"
	cardHandler "github.com/MrJamesThe3rd/gastos/internal/http/card"
	chatHandler "github.com/MrJamesThe3rd/gastos/internal/http/chat"
	expenseHandler "github.com/MrJamesThe3rd/gastos/internal/http/expense"
	merchantHandler "github.com/MrJamesThe3rd/gastos/internal/http/merchant"
	"github.com/MrJamesThe3rd/gastos/internal/merchant"
	merchantStore "github.com/MrJamesThe3rd/gastos/internal/merchant/store"
	"github.com/MrJamesThe3rd/gastos/internal/user"
	userStore "github.com/MrJamesThe3rd/gastos/internal/user/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	allowed, err := cfg.AllowedNumbers()
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	extractor, err := extract.New(ctx, extract.Config{
		APIKey:   cfg.Gemini.APIKey,
		Model:    cfg.Gemini.Model,
		Timeout:  cfg.Gemini.Timeout,
		Location: loc,
	})
	if err != nil {
		return fmt.Errorf("creating extractor: %w", err)
	}

	var (
		userService     = user.NewService(userStore.New(db))
		merchantService = merchant.NewService(merchantStore.New(db))
		cardService     = card.NewService(cardStore.New(db))
		expenseService  = expense.NewService(expenseStore.New(db))
		pipeline        = barcode.NewPipeline(barcode.WithParallel(cfg.Barcode.Parallel))
		processor       = bot.NewProcessor(expenseService, merchantService, cardService, pipeline, extractor, loc)
	)

	var (
		chatH     = chatHandler.NewHandler(processor)
		expenseH  = expenseHandler.NewHandler(expenseService, cardService, loc)
		cardH     = cardHandler.NewHandler(cardService)
		merchantH = merchantHandler.NewHandler(merchantService)
	)

	authenticate := auth.Middleware(tokens, auth.NewAllowList(allowed), userService)
	router := gastosHttp.New(authenticate, chatH, expenseH, cardH, merchantH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "allowed_numbers", len(allowed))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
