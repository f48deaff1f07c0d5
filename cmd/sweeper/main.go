// Command sweeper removes stored room images that no metadata row references.
package main

import (
	"context"
	"database/sql"
	"flag"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_management/internal/adapters/objectstore"
	"hotel_management/internal/adapters/observability"
	"hotel_management/internal/app"
	"hotel_management/internal/shared"
	mysqlrepo "hotel_management/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()
	dryRun := flag.Bool("dry-run", cfg.SweepDryRun, "report orphans without deleting them")
	prefix := flag.String("prefix", "room/", "key prefix to scan")
	flag.Parse()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("bucket", cfg.Bucket).
		Str("prefix", *prefix).
		Int("workers", cfg.SweepWorkers).
		Dur("grace", cfg.SweepGrace).
		Bool("dry_run", *dryRun).
		Msg("sweeper starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	store, err := objectstore.Open(ctx, objectstore.Settings{
		Driver: cfg.ObjectStoreDriver,
		S3: objectstore.S3Config{
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.S3PublicBaseURL,
		},
		FSRoot:          cfg.FSRoot,
		FSPublicBaseURL: cfg.FSPublicBaseURL,
		RPS:             cfg.ObjectStoreRPS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object store init failed")
	}

	sw := app.NewOrphanSweeper(mysqlrepo.New(db), store, app.SweepOptions{
		Bucket:  cfg.Bucket,
		Prefix:  *prefix,
		Grace:   cfg.SweepGrace,
		Workers: cfg.SweepWorkers,
		DryRun:  *dryRun,
	}, log.Logger)

	rep, err := sw.Sweep(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("sweep failed")
	}
	log.Info().
		Int64("scanned", rep.Scanned).
		Int64("referenced", rep.Referenced).
		Int64("too_recent", rep.TooRecent).
		Int64("orphaned", rep.Orphaned).
		Int64("deleted", rep.Deleted).
		Int64("failed", rep.Failed).
		Msg("sweep completed")
}
