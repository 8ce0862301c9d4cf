// Command migrate applies or rolls back the SQL schema.
//
//	migrate            apply every pending migration
//	migrate -down 1    roll back the latest migration
package main

import (
	"flag"
	"os"

	"go.uber.org/zap"
	"trustly/internal/infra"
	"trustly/pkg/config"
	"trustly/pkg/logger"
)

func main() {
	down := flag.Int("down", 0, "number of migrations to roll back instead of migrating up")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	if *down > 0 {
		err = infra.MigrateDown(cfg.PostgresURL, log, *down)
	} else {
		err = infra.MigrateUp(cfg.PostgresURL, log)
	}
	if err != nil {
		log.Error("migration failed", zap.Error(err))
		os.Exit(1)
	}
}
