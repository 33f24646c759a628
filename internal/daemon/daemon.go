package daemon

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tyria-tracker/tyria/internal/api"
	"github.com/tyria-tracker/tyria/internal/app/prices"
	appsync "github.com/tyria-tracker/tyria/internal/app/sync"
	"github.com/tyria-tracker/tyria/internal/app/tracker"
	"github.com/tyria-tracker/tyria/internal/infra/catalog"
	_ "github.com/tyria-tracker/tyria/internal/infra/metrics" // Register Prometheus metrics
	"github.com/tyria-tracker/tyria/internal/infra/sqlite"
	"github.com/tyria-tracker/tyria/internal/schedule"
)

// Daemon is the core Tyria Tracker runtime. It wires together all services.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Catalog *catalog.Catalog
	Tracker *tracker.Tracker
	Prices  *prices.Service
	Syncer  *appsync.Client
	Server  *api.Server
	cancel  context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New(version string) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg, version)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, version string) (*Daemon, error) {
	if err := setupLogging(cfg.Logging); err != nil {
		log.Printf("[daemon] WARNING: %v (logging to stderr only)", err)
	}

	db, err := sqlite.Open(tyriaHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Catalog: a user file at ~/.tyria/catalog.toml overrides the builtin.
	cat, err := catalog.Load(filepath.Join(tyriaHome(), "catalog.toml"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	tr := tracker.New(cat, db,
		tracker.WithTick(parseDuration(cfg.Scheduler.Tick, time.Second)),
		tracker.WithHorizon(parseDuration(cfg.Scheduler.Horizon, schedule.DefaultHorizon)),
	)

	srv := api.NewServer(tr, db, version)
	srv.SetCORSOrigins(cfg.API.CORSOrigins)
	if cfg.Logging.Level == "debug" {
		srv.EnableRequestLogging()
	}

	d := &Daemon{
		Config:  cfg,
		DB:      db,
		Catalog: cat,
		Tracker: tr,
		Server:  srv,
	}

	if cfg.Prices.Enabled {
		d.Prices = prices.New(cfg.Prices.Endpoint, parseDuration(cfg.Prices.Refresh, 5*time.Minute))
		srv.SetPrices(d.Prices)
	}

	if cfg.Sync.Enabled {
		syncer, err := appsync.New(cfg.Sync.Endpoint, db)
		if err != nil {
			log.Printf("[daemon] WARNING: sync disabled: %v", err)
		} else {
			d.Syncer = syncer
			srv.SetSyncer(syncer)
		}
	}

	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Scheduler loop: daily reset detection plus board metrics.
	go d.Tracker.Run(ctx)

	if d.Prices != nil {
		go d.Prices.Run(ctx, d.Catalog.Events)
	}

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Tyria Tracker serving on http://%s\n", addr)
	if d.Prices != nil {
		fmt.Printf("  Prices: trading post enrichment enabled\n")
	}
	if d.Syncer != nil {
		fmt.Printf("  Sync: %s\n", d.Config.Sync.Endpoint)
	}
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// setupLogging mirrors the standard logger to the configured file, in
// addition to stderr. A missing file setting keeps stderr-only logging.
func setupLogging(cfg LoggingConfig) error {
	if cfg.File == "" {
		return nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
