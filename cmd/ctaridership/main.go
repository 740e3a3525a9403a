package main

import (
	"context"
	"database/sql"
	"errors"
	"image"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	"github.com/lox/ctaridership/internal/chart"
	"github.com/lox/ctaridership/internal/config"
	"github.com/lox/ctaridership/internal/console"
	"github.com/lox/ctaridership/internal/store"
)

type CLI struct {
	DB           string        `help:"Path to the CTA L daily ridership SQLite database." default:"CTA2_L_daily_ridership.db" env:"CTA_DB"`
	Config       string        `help:"Optional YAML config file." env:"CTA_CONFIG"`
	ChartDir     string        `help:"Directory charts are written to. Overrides the config file." env:"CTA_CHART_DIR"`
	MetricsAddr  string        `help:"Serve Prometheus metrics on this address, e.g. :9090." env:"CTA_METRICS_ADDR"`
	Migrate      bool          `help:"Create missing tables before starting. Opens the database read-write." env:"CTA_MIGRATE"`
	QueryTimeout time.Duration `help:"Per query timeout. Overrides the config file." env:"CTA_QUERY_TIMEOUT"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("ctaridership"),
		kong.Description("Console reports over the CTA L daily ridership database."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	kctx.FatalIfErrorf(err)
	if cli.QueryTimeout > 0 {
		cfg.QueryTimeout = cli.QueryTimeout
	}
	if cli.ChartDir != "" {
		cfg.Chart.OutputDir = cli.ChartDir
	}

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// One connection so the pragmas below apply to every query.
	db.SetMaxOpenConns(1)
	db.Exec("PRAGMA busy_timeout=5000")
	if !cli.Migrate {
		db.Exec("PRAGMA query_only=ON")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st := store.New(db, store.WithQueryTimeout(cfg.QueryTimeout))
	if cli.Migrate {
		if err := st.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		version, err := st.MigrationVersion(ctx)
		if err != nil {
			log.Fatalf("read schema version: %v", err)
		}
		log.Printf("database migrated to schema version %d", version)
	}
	if err := st.WaitReady(ctx); err != nil {
		log.Fatalf("database not ready: %v", err)
	}

	if cli.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{
			Addr:              cli.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("serving metrics on %s/metrics", cli.MetricsAddr)
	}

	var background image.Image
	if cfg.Chart.MapImage != "" {
		img, err := chart.LoadImage(cfg.Chart.MapImage)
		if err != nil {
			log.Printf("Warning: map background disabled: %v", err)
		} else {
			background = img
		}
	}

	charts := chart.NewWriter(cfg.Chart.OutputDir, cfg.ChartSize())
	if existing := charts.List(); len(existing) > 0 {
		log.Printf("charts: %d existing in %s will be replaced when redrawn", len(existing), charts.Dir())
	}

	app := console.New(st, os.Stdin, os.Stdout,
		console.WithPlotter(charts),
		console.WithMap(background, cfg.Chart.MapExtent),
		console.WithLineColors(cfg.Chart.LineColors),
	)
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("console: %v", err)
	}
}
