package main

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"

	"GameStore/internal/app"
	"GameStore/internal/catalog"
	"GameStore/internal/config"
	"GameStore/internal/events"
	"GameStore/internal/order"
	"GameStore/pkg/kit"
)

func main() {
	service := "gamestore"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config failed", zap.Error(err))
	}

	catalogStore, orderStore, cleanup, err := buildStores(cfg, log)
	if err != nil {
		log.Fatal("init stores failed", zap.Error(err))
	}
	defer cleanup()

	publisher := buildPublisher(cfg, log)
	defer func() { _ = publisher.Close() }()

	reg := prometheus.NewRegistry()

	orders := &order.Server{
		Store:    orderStore,
		Verifier: order.NewVerifier(cfg.WebhookSecret),
		Log:      log,
		Events:   publisher,
		Metrics:  order.NewMetrics(reg),
	}
	if cfg.DownloadTokenSecret != "" {
		orders.Tokens = order.NewDownloadTokenMaker(cfg.DownloadTokenSecret, cfg.DownloadTokenTTL)
		log.Info("signed download tokens enabled", zap.Duration("ttl", cfg.DownloadTokenTTL))
	}

	h := app.NewHandler(
		app.Deps{
			Catalog:                  &catalog.Server{Store: catalogStore, Log: log},
			Orders:                   orders,
			CreateOrderLimit:         cfg.CreateOrderLimit,
			CreateOrderWindowSeconds: cfg.CreateOrderWindowSeconds,
		},
		app.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       reg,
			MetricsEnabled: cfg.MetricsEnabled,
			MetricsToken:   cfg.MetricsToken,
		},
	)

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStores(cfg *config.Config, log *zap.Logger) (catalog.Store, order.Store, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("using postgres stores")
		return catalog.NewPostgresStore(db), order.NewPostgresStore(db), func() { _ = db.Close() }, nil

	case cfg.PebblePath != "":
		ps, err := order.NewPebbleStore(cfg.PebblePath)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("using pebble order store", zap.String("path", cfg.PebblePath))
		return catalog.NewMemStore(catalog.Seed()), ps, func() { _ = ps.Close() }, nil

	default:
		log.Info("using in-memory stores")
		return catalog.NewMemStore(catalog.Seed()), order.NewMemStore(), func() {}, nil
	}
}

func buildPublisher(cfg *config.Config, log *zap.Logger) events.Publisher {
	if cfg.KafkaBrokers == "" {
		return events.Nop{}
	}
	log.Info("publishing order events to kafka",
		zap.String("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
	)
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}
