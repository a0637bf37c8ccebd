package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	radix "github.com/mediocregopher/radix/v3"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	carthttp "github.com/dwikikusuma/shoping-cart/internal/cart/httpapi"
	cartadapter "github.com/dwikikusuma/shoping-cart/internal/cart/infra/adapter"
	cartmemory "github.com/dwikikusuma/shoping-cart/internal/cart/infra/memory"
	cartmongo "github.com/dwikikusuma/shoping-cart/internal/cart/infra/mongo"

	catalogapp "github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	cataloghttp "github.com/dwikikusuma/shoping-cart/internal/catalog/httpapi"
	catalogmemory "github.com/dwikikusuma/shoping-cart/internal/catalog/infra/memory"
	catalogpg "github.com/dwikikusuma/shoping-cart/internal/catalog/infra/postgres"
	catalogredis "github.com/dwikikusuma/shoping-cart/internal/catalog/infra/redis"

	checkoutapp "github.com/dwikikusuma/shoping-cart/internal/checkout/app"
	checkouthttp "github.com/dwikikusuma/shoping-cart/internal/checkout/httpapi"
	checkoutadapter "github.com/dwikikusuma/shoping-cart/internal/checkout/infra/adapter"

	orderapp "github.com/dwikikusuma/shoping-cart/internal/order/app"
	orderhttp "github.com/dwikikusuma/shoping-cart/internal/order/httpapi"
	ordermemory "github.com/dwikikusuma/shoping-cart/internal/order/infra/memory"
	ordermongo "github.com/dwikikusuma/shoping-cart/internal/order/infra/mongo"
	orderrabbit "github.com/dwikikusuma/shoping-cart/internal/order/infra/rabbitmq"

	"github.com/dwikikusuma/shoping-cart/internal/server"
	"github.com/dwikikusuma/shoping-cart/pkg/config"
	"github.com/dwikikusuma/shoping-cart/pkg/logger"
	"github.com/dwikikusuma/shoping-cart/pkg/mongodb"
	"github.com/dwikikusuma/shoping-cart/pkg/postgres"
	"github.com/dwikikusuma/shoping-cart/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "api", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	if err := run(cfg, log); err != nil {
		log.Error("api stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

// run wires every context and serves until a signal arrives.
func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = uuid.NewString()
		log.Warn("JWT_SECRET not set; using a random per-process secret")
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	ready := map[string]server.ReadyCheck{}
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// Catalog
	var productRepo catalogapp.ProductRepo
	switch cfg.CatalogDriver {
	case config.DriverMemory:
		productRepo = catalogmemory.NewProductRepo()
	default:
		db, err := postgres.Open(postgres.Config{
			Host: cfg.Postgres.Host,
			Port: cfg.Postgres.Port,
			User: cfg.Postgres.User,
			Pass: cfg.Postgres.Pass,
			DB:   cfg.Postgres.DB,
		})
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		ready["postgres"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		closers = append(closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		repo := catalogpg.NewProductRepo(db)
		if err := repo.Migrate(ctx); err != nil {
			return fmt.Errorf("catalog migrate: %w", err)
		}
		productRepo = repo
	}

	if cfg.RedisAddr != "" {
		rc, err := catalogredis.Dial(cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("dial redis: %w", err)
		}
		ready["redis"] = func(context.Context) error { return rc.Do(radix.Cmd(nil, "PING")) }
		closers = append(closers, func() { _ = rc.Close() })
		productRepo = catalogredis.NewCachedProductRepo(productRepo, rc, cfg.CatalogCacheTTL, log)
	}
	catalogSvc := catalogapp.NewService(productRepo)

	// Cart + Order stores
	var (
		cartStore  cartapp.CartStore
		orderStore orderapp.OrderStore
		tx         checkoutapp.Transactor = checkoutapp.PassThrough{}
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		cartStore = cartmemory.NewCartStore()
		orderStore = ordermemory.NewOrderStore()
	default:
		client, db, err := mongodb.Open(ctx, mongodb.Config{URI: cfg.MongoURI, DB: cfg.MongoDB})
		if err != nil {
			return fmt.Errorf("open mongo: %w", err)
		}
		ready["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		closers = append(closers, func() {
			dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer dcancel()
			_ = client.Disconnect(dctx)
		})

		carts := cartmongo.NewCartStore(db)
		orders := ordermongo.NewOrderStore(db)
		if err := carts.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("cart indexes: %w", err)
		}
		if err := orders.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("order indexes: %w", err)
		}
		cartStore, orderStore = carts, orders

		if cfg.MongoTransactions {
			tx = mongodb.NewTransactor(client)
		} else {
			log.Warn("checkout runs without transactions; an order may outlive a failed cart delete")
		}
	}

	// Events
	var publisher orderapp.EventPublisher = orderapp.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := orderrabbit.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return fmt.Errorf("dial rabbitmq: %w", err)
		}
		closers = append(closers, func() { _ = p.Close() })
		publisher = p
	}

	cartSvc := cartapp.NewService(cartStore, cartadapter.NewCatalogGateway(catalogSvc))
	orderSvc := orderapp.NewService(orderStore, publisher, log)
	checkoutSvc := checkoutapp.NewService(checkoutapp.Deps{
		Carts:   checkoutadapter.NewCartGateway(cartSvc),
		Orders:  orderSvc,
		Catalog: checkoutadapter.NewCatalogReader(catalogSvc),
		Tx:      tx,
		Log:     log,
	}, cfg.CheckoutMaxConcurrent)

	router := server.NewRouter(server.Options{
		Log:       log,
		JWTSecret: cfg.JWTSecret,
		Ready:     ready,
		Handlers: []server.Registrar{
			cataloghttp.NewHandler(catalogSvc),
			carthttp.NewHandler(cartSvc),
			checkouthttp.NewHandler(checkoutSvc),
			orderhttp.NewHandler(orderSvc),
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var (
		wg       sync.WaitGroup
		serveErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("http server: %w", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
	return serveErr
}
