// Command pgload loads a saved snapshot directory into PostgreSQL, giving
// the taxonomy a queryable relational form. It applies the embedded schema
// migrations first, then bulk-loads the four tables in one transaction.
//
// Flags:
//
//	--snapshot  snapshot directory produced by meshbuild (required)
//	--dsn       PostgreSQL DSN (overrides config)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/graphbio/meshchem/internal/adapter/postgres"
	snapshotrepo "github.com/graphbio/meshchem/internal/adapter/postgres/snapshot"
	"github.com/graphbio/meshchem/internal/app"
	"github.com/graphbio/meshchem/internal/config"
	"github.com/graphbio/meshchem/internal/dataset"
	"github.com/graphbio/meshchem/internal/domain"
	"github.com/graphbio/meshchem/migrations"
)

func main() {
	snapshotFlag := flag.String("snapshot", "", "snapshot directory produced by meshbuild")
	dsnFlag := flag.String("dsn", "", "PostgreSQL DSN")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dsnFlag != "" {
		cfg.Database.DSN = *dsnFlag
	}

	logger := app.NewLogger(cfg.Log)

	if *snapshotFlag == "" {
		logger.Error("--snapshot is required")
		os.Exit(1)
	}
	if cfg.Database.DSN == "" {
		logger.Error("database DSN is required (--dsn or DATABASE_DSN)")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, 30*time.Minute)
	defer timeoutCancel()

	d, err := dataset.Load(*snapshotFlag)
	if err != nil {
		logger.Error("load snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("snapshot loaded",
		slog.String("build_id", d.Metadata().BuildID.String()),
		slog.Int("descriptors", d.Metadata().Counts.Descriptors),
		slog.Int("chemicals", d.Metadata().Counts.Chemicals),
	)

	if err := migrate(ctx, cfg.Database.DSN); err != nil {
		logger.Error("apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := snapshotrepo.New(pool, postgres.NewTxManager(pool))
	if err := repo.Store(ctx, d); err != nil {
		if errors.Is(err, domain.ErrSnapshotExists) {
			logger.Error("this build is already stored",
				slog.String("build_id", d.Metadata().BuildID.String()))
		} else {
			logger.Error("store snapshot", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	logger.Info("snapshot stored",
		slog.String("build_id", d.Metadata().BuildID.String()))
}

// migrate applies the embedded schema migrations.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}
