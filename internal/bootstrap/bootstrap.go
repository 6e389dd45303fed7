// Package bootstrap assembles the application from configuration. Both binaries
// share it.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/lanort/pedidos/internal/cart"
	"github.com/lanort/pedidos/internal/catalog"
	"github.com/lanort/pedidos/internal/orders"
	"github.com/lanort/pedidos/internal/storefront"
	"github.com/lanort/pedidos/pkg/config"
	"github.com/lanort/pedidos/pkg/db"
	"github.com/lanort/pedidos/pkg/enums"
	"github.com/lanort/pedidos/pkg/logger"
	"github.com/lanort/pedidos/pkg/metrics"
	"github.com/lanort/pedidos/pkg/redis"
	"github.com/lanort/pedidos/pkg/sheetapi"
	"github.com/lanort/pedidos/pkg/storage"
)

// App is a fully wired application.
type App struct {
	Config     *config.Config
	Logger     *logger.Logger
	Storage    storage.KeyValue
	Registry   *prometheus.Registry
	Controller *storefront.Controller
	closers    []func() error
}

// NewLogger builds the logger described by the app config.
func NewLogger(cfg config.AppConfig, service string) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: service,
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
		WarnStack:   cfg.LogWarnStack,
	})
}

// Build wires storage, the API client, catalog, cart and order services.
func Build(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	app := &App{Config: cfg, Logger: logg}

	kv, closeStorage, err := OpenStorage(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}
	app.Storage = kv
	app.closers = append(app.closers, closeStorage)

	var pipeline *metrics.Pipeline
	if cfg.Metrics.Enabled {
		app.Registry = prometheus.NewRegistry()
		app.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		pipeline = metrics.NewPipeline(app.Registry)
	}

	client, err := sheetapi.NewClient(cfg.API.URL, sheetapi.WithTimeout(cfg.API.Timeout))
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	store := catalog.NewStore()
	loader, err := catalog.NewLoader(client, store, logg,
		catalog.WithStockResolver(catalog.NewStockResolver(cfg.Catalog.SynthesizeStock, nil)),
		catalog.WithMetrics(pipeline),
		catalog.WithSampleFallback(cfg.Catalog.FallbackSample),
		catalog.WithStockPins(kv),
	)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	searcher, err := catalog.NewSearcher(store, loader, logg, cfg.Catalog.PageSize)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	cartManager, err := cart.NewManager(kv, store, logg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	strategy, err := orders.NewStrategy(cfg.Orders.StrategyKind(), client, orders.StrategyOptions{
		ItemDelay:        cfg.Orders.ItemDelay,
		VersionThreshold: cfg.Orders.VersionThreshold,
		ProbeTimeout:     cfg.API.ProbeTimeout,
		ServerNumbering:  cfg.Orders.ServerNumbering(),
		BatchMode:        cfg.Orders.BatchMode,
	}, pipeline, logg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	orderService, err := orders.NewService(strategy, cartManager, store, orders.NewSequence(kv), logg, orders.WithMetrics(pipeline))
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	controller, err := storefront.NewController(storefront.Params{
		Store:     store,
		Loader:    loader,
		Searcher:  searcher,
		Cart:      cartManager,
		Selection: cart.NewSelection(),
		Orders:    orderService,
		Storage:   kv,
		Debounce:  cfg.Catalog.Debounce,
		Logger:    logg,
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Controller = controller

	logg.Info(logg.WithFields(ctx, map[string]any{
		"api_url":  client.BaseURL(),
		"strategy": strategy.Kind().String(),
		"storage":  cfg.Storage.Driver,
	}), "application wired")
	return app, nil
}

// OpenStorage returns the key-value backend selected by LANORT_STORAGE_DRIVER and a
// function that releases it.
func OpenStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.KeyValue, func() error, error) {
	driver, err := enums.ParseStorageDriver(strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)))
	if err != nil {
		return nil, nil, err
	}
	switch driver {
	case enums.StorageDriverMemory:
		return storage.NewMemory(), func() error { return nil }, nil
	case enums.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, cfg.Storage.Namespace, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap redis storage: %w", err)
		}
		return client, client.Close, nil
	default:
		client, err := db.New(ctx, cfg.Storage, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap %s storage: %w", driver, err)
		}
		return db.NewKVStore(client, cfg.Storage.Namespace), client.Close, nil
	}
}

// Close releases every resource the app opened.
func (a *App) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	a.closers = nil
	return err
}
