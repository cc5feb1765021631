package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	authapp "github.com/dwikikusuma/storefront/internal/auth/app"
	authhttp "github.com/dwikikusuma/storefront/internal/auth/infra/httpapi"
	authrest "github.com/dwikikusuma/storefront/internal/auth/rest"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	cartstore "github.com/dwikikusuma/storefront/internal/cart/infra/storeapi"
	cartrest "github.com/dwikikusuma/storefront/internal/cart/rest"

	cataloghttp "github.com/dwikikusuma/storefront/internal/catalog/httpapi"

	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/orderapi"
	checkoutrest "github.com/dwikikusuma/storefront/internal/checkout/rest"

	orderapp "github.com/dwikikusuma/storefront/internal/order/app"
	orderhttp "github.com/dwikikusuma/storefront/internal/order/infra/httpapi"
	orderrest "github.com/dwikikusuma/storefront/internal/order/rest"

	"github.com/dwikikusuma/storefront/internal/session"
	wishlistapp "github.com/dwikikusuma/storefront/internal/wishlist/app"
	wishliststore "github.com/dwikikusuma/storefront/internal/wishlist/infra/storeapi"
	wishlistrest "github.com/dwikikusuma/storefront/internal/wishlist/rest"

	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/dwikikusuma/storefront/pkg/shutdown"
	"github.com/dwikikusuma/storefront/pkg/tracing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if cfg.TracingEnabled {
		tp, err := tracing.Init(ctx, "storefront", cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracing init failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("tracing shutdown error", slog.Any("err", err))
			}
		}()
	}

	sessions := mustSessionStore(ctx, cfg, log)
	rates := mustRates(cfg, log)

	// Cart
	cartClient := cartstore.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	engine := cartapp.NewEngine(cartClient, rates, log)

	// Wishlist
	wishlistClient := wishliststore.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	wishlistSvc := wishlistapp.NewService(wishlistClient)

	// Checkout (adapters over cart engine + catalog + orders API)
	catalogClient := cataloghttp.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	cartReader := checkoutadapter.NewCartEngineReader(engine)
	catalogReader := checkoutadapter.NewCatalogAPIReader(catalogClient)
	orderClient := orderapi.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	checkoutSvc := checkoutapp.NewService(cartReader, cartReader, catalogReader, orderClient, rates, 10)

	// Order history
	orderSvc := orderapp.NewService(orderhttp.NewClient(cfg.APIBaseURL, cfg.APITimeout))

	// Auth
	authSvc := authapp.NewService(authhttp.NewClient(cfg.APIBaseURL, cfg.APITimeout), sessions, engine)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("storefront"))
	r.Use(authrest.Middleware(sessions))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	authrest.NewServer(authSvc, log).Register(r)
	cartrest.NewServer(engine, log).Register(r)
	wishlistrest.NewServer(wishlistSvc, log).Register(r)
	checkoutrest.NewServer(checkoutSvc, log).Register(r)
	orderrest.NewServer(orderSvc, log).Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

func mustSessionStore(ctx context.Context, cfg config.Config, log *slog.Logger) session.Store {
	if cfg.RedisAddr == "" {
		log.Info("using in-memory session store")
		return session.NewMemoryStore(cfg.SessionTTL)
	}

	store, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.SessionTTL)
	if err != nil {
		log.Error("redis session store init failed", slog.Any("err", err), slog.String("addr", cfg.RedisAddr))
		os.Exit(1)
	}
	log.Info("using redis session store", slog.String("addr", cfg.RedisAddr))
	return store
}

func mustRates(cfg config.Config, log *slog.Logger) cartdomain.Rates {
	rates := cartdomain.Rates{}
	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"CART_TAX_RATE", cfg.TaxRate, &rates.TaxRate},
		{"CART_FREE_SHIPPING_THRESHOLD", cfg.FreeShippingThreshold, &rates.FreeShippingThreshold},
		{"CART_SHIPPING_COST", cfg.ShippingCost, &rates.ShippingCost},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil || d.IsNegative() {
			log.Error("invalid pricing rate", slog.String("key", f.name), slog.String("value", f.raw))
			os.Exit(1)
		}
		*f.dst = d
	}
	return rates
}
