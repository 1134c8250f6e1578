package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/raihanm/shopline-golang/internal/checkout"
	"github.com/raihanm/shopline-golang/internal/database"
	"github.com/raihanm/shopline-golang/internal/handlers"
	"github.com/raihanm/shopline-golang/internal/payment"
	"github.com/raihanm/shopline-golang/internal/routes"
	"github.com/raihanm/shopline-golang/internal/session"
	"github.com/raihanm/shopline-golang/internal/store"
)

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// --- Logging ---
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// --- Environment ---
	if err := godotenv.Load(); err != nil {
		slog.Warn("could not load .env file, relying on system environment")
	}

	// --- Database ---
	db, err := database.OpenDB()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Stores ---
	carts := store.NewCartStore(db)
	products := store.NewProductStore(db)
	orders := store.NewOrderStore(db)
	users := store.NewUserStore(db)

	// --- Ephemeral guest carts (redis) ---
	guestCarts := session.NewGuestCarts(envOr("REDIS_ADDR", "127.0.0.1:6379"), 30*24*time.Hour)

	// --- Hosted payment capability ---
	provider := payment.NewHostedClient(
		envOr("PAYMENT_BASE_URL", "https://pay.example.com"),
		os.Getenv("PAYMENT_API_KEY"),
	)

	// --- Checkout orchestrator ---
	checkoutSvc := checkout.NewService(
		carts, products, products, orders, users, provider,
		envOr("CHECKOUT_SUCCESS_URL", "http://localhost:5173/checkout/success"),
		envOr("CHECKOUT_CANCEL_URL", "http://localhost:5173/checkout/cancelled"),
	)

	app := &handlers.Handlers{
		Checkouts: checkoutSvc,
		Guest:     guestCarts,
		Carts:     carts,
		Products:  products,
		Orders:    orders,
		Users:     users,
	}

	// --- Background Worker: payment reconciliation sweep ---
	// Orders can legitimately sit awaiting payment confirmation forever
	// (abandoned sessions), so the sweep only reports; it never cancels.
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()

		slog.Info("reconciliation sweep started")
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			count, err := orders.CountStalePendingPayments(ctx, time.Now().Add(-1*time.Hour))
			cancel()
			if err != nil {
				slog.Error("reconciliation sweep failed", "error", err)
				continue
			}
			if count > 0 {
				slog.Warn("orders awaiting payment confirmation past cutoff", "count", count)
			}
		}
	}()

	// --- Router / Server ---
	router := routes.SetupRouter(app)

	addr := ":" + envOr("PORT", "8080")
	slog.Info("starting storefront API server", "addr", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
