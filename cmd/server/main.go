package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ordermanagement/internal/httpserver"
	"github.com/Skotchmaster/ordermanagement/internal/mykafka"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/search"
	"github.com/Skotchmaster/ordermanagement/internal/seed"
	"github.com/Skotchmaster/ordermanagement/internal/service"
	"github.com/Skotchmaster/ordermanagement/pkg/config"
	pkgdb "github.com/Skotchmaster/ordermanagement/pkg/db"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
	"github.com/Skotchmaster/ordermanagement/pkg/metrics"
	authmw "github.com/Skotchmaster/ordermanagement/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/ordermanagement/pkg/middleware/logging"
	"github.com/Skotchmaster/ordermanagement/pkg/middleware/ratelimit"
	"github.com/Skotchmaster/ordermanagement/pkg/tokens"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	cfg.MustValid()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	// prices and totals go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}

	r := repo.New(db)
	if cfg.SeedData {
		if _, err := seed.Run(ctx, r, cfg.BcryptCost, time.Now()); err != nil {
			cancel()
			log.Fatalf("seed: %v", err)
		}
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	events := &service.Events{Topic: cfg.KafkaTopic, Metrics: m}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("kafka_disabled", "error", err)
		} else {
			events.Publisher = producer
		}
	}

	products := &service.ProductsService{Repo: r, Events: events}
	if cfg.ESURL != "" {
		es, err := search.NewClient(ctx, search.ClientConfig{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			products.Indexer = search.NewProductIndex(es, cfg.ESIndex)
		}
	}

	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		rdb, err = config.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Warn("rate_limit_disabled", "error", err)
		}
	}
	cancel()

	signer := tokens.Signer{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Duration: cfg.JWTDuration,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(m.Middleware())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		DB:            db,
		Auth:          service.NewAuthService(r, signer, cfg.RefreshTokenDays, m),
		Customers:     &service.CustomersService{Repo: r, Events: events},
		Products:      products,
		Orders:        &service.OrdersService{Repo: r, Events: events, Now: time.Now},
		OrderProducts: &service.OrderProductsService{Repo: r, Events: events, Metrics: m},
		Users:         &service.UsersService{Repo: r, Events: events, BcryptCost: cfg.BcryptCost},
		Bearer:        authmw.NewBearerMiddleware(signer),
		RateLimit:     ratelimit.New(cfg.RateLimit, rdb),
		Gatherer:      registry,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}
