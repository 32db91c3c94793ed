package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/1kta4/finances/internal/config"
	"github.com/1kta4/finances/internal/database"
	"github.com/1kta4/finances/internal/ledger"
	"github.com/1kta4/finances/internal/router"
	"github.com/1kta4/finances/internal/subscription"
	"github.com/1kta4/finances/internal/syncer"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	}

	// ensure the data directory exists
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	ctx := context.Background()

	store := ledger.NewStore(db)
	if err := store.EnsureDefaults(ctx); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// materialize recurring transactions that came due while offline
	engine := subscription.NewEngine(store, log)
	processed, failed := engine.ProcessDue(ctx, time.Now())
	if processed > 0 || failed > 0 {
		log.Infof("recurring catch-up: %d processed, %d failed", processed, failed)
	}

	// remote sync is optional, an empty DSN leaves it off
	var rec *syncer.Reconciler
	if cfg.Remote.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Remote.DSN)
		if err != nil {
			log.Fatalf("connect remote: %v", err)
		}
		defer pool.Close()

		remote := syncer.NewPostgresRemote(pool)
		if err := remote.Setup(ctx); err != nil {
			log.Fatalf("setup remote schema: %v", err)
		}
		rec = syncer.NewReconciler(store, remote, syncer.ContextIdentity{}, log)
	} else {
		log.Info("remote sync disabled, no dsn configured")
	}

	// setup router
	r := router.SetupRouter(cfg, store, engine, rec, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Infof("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
