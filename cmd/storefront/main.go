// Command storefront serves the Choco Delisias shop API.
//
//	@title			Choco Delisias API
//	@version		1.0
//	@description	Catalogo, carrito, direcciones, pedidos y pagos.
//	@BasePath		/api
//	@securityDefinitions.apikey	BearerAuth
//	@in				header
//	@name			Authorization
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MikeMC777/choco-delisias/internal/address"
	"github.com/MikeMC777/choco-delisias/internal/auth"
	"github.com/MikeMC777/choco-delisias/internal/cart"
	"github.com/MikeMC777/choco-delisias/internal/checkout"
	"github.com/MikeMC777/choco-delisias/internal/config"
	"github.com/MikeMC777/choco-delisias/internal/order"
	"github.com/MikeMC777/choco-delisias/internal/payment"
	"github.com/MikeMC777/choco-delisias/internal/postgres"
	"github.com/MikeMC777/choco-delisias/internal/product"
	"github.com/MikeMC777/choco-delisias/internal/user"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return run(ctx, lg, m, cfg)
	})
}

func run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg config.Config) error {
	lg.Info("Initializing", cfg.Fields()...)

	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "ping redis")
	}

	tokens, err := auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	users := user.NewPGRepo(pool)
	products := product.NewPGRepo(pool)
	addresses := address.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)
	carts := cart.NewRedisStore(rdb, cfg.CartTTL)
	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewaySecret, cfg.GatewayTimeout)

	checkouts, err := checkout.NewService(orders, products, addresses, gateway, carts, checkout.Options{
		Currency:       cfg.GatewayCurrency,
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	})
	if err != nil {
		return err
	}

	router := newRouter(lg, deps{
		users:     users,
		accounts:  user.NewService(users, tokens),
		tokens:    tokens,
		products:  products,
		addresses: addresses,
		orders:    orders,
		carts:     carts,
		checkouts: checkouts,
		webhooks:  payment.NewWebhookHandler(orders),
		health:    pool,
		imageBase: cfg.ImageBaseURL,
	})

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(router, "storefront",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       10 * time.Second,
		// Card checkouts wait on the gateway.
		WriteTimeout: cfg.GatewayTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}
