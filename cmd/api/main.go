package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/vendemais/vendemais-backend/api/routes"
	"github.com/vendemais/vendemais-backend/internal/banners"
	cartsvc "github.com/vendemais/vendemais-backend/internal/cart"
	"github.com/vendemais/vendemais-backend/internal/checkout"
	"github.com/vendemais/vendemais-backend/internal/products"
	"github.com/vendemais/vendemais-backend/internal/realtime"
	"github.com/vendemais/vendemais-backend/internal/reservation"
	"github.com/vendemais/vendemais-backend/internal/stores"
	"github.com/vendemais/vendemais-backend/internal/wishlist"
	"github.com/vendemais/vendemais-backend/pkg/config"
	"github.com/vendemais/vendemais-backend/pkg/db"
	"github.com/vendemais/vendemais-backend/pkg/logger"
	"github.com/vendemais/vendemais-backend/pkg/migrate"
	"github.com/vendemais/vendemais-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storeService, err := stores.NewService(stores.ServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		BaseDomain:     cfg.App.BaseDomain,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stores service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	bannerService, err := banners.NewService(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create banners service", err)
		os.Exit(1)
	}

	cartBackend := cartsvc.NewRedisBackend(redisClient, cfg.Cart.SessionTTL)
	cartService, err := cartsvc.NewService(cartBackend, productService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.NewRedisBackend(redisClient, cfg.Cart.SessionTTL), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		DB:             dbClient,
		CartBackend:    cartBackend,
		ReservationTTL: cfg.Reservation.HoldTTL,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	sweeper := reservation.NewSweeper(dbClient, logg)

	hub := realtime.NewHub(0)
	bridge, err := realtime.NewBridge(redisClient, hub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create realtime bridge", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Error(ctx, "realtime bridge stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Stores:   storeService,
			Products: productService,
			Banners:  bannerService,
			Cart:     cartService,
			Wishlist: wishlistService,
			Checkout: checkoutService,
			Sweeper:  sweeper,
			Hub:      hub,
			Bridge:   bridge,
		}),
	}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
