package storage_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"trustly/pkg/config"
	"trustly/pkg/storage"
)

var Module = fx.Provide(provideObjectStore)

func provideObjectStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (storage.ObjectStore, error) {
	var (
		store storage.ObjectStore
		err   error
	)
	switch cfg.Storage.Driver {
	case "local":
		store, err = storage.NewLocalStore(cfg.Storage.Dir, cfg.PublicAPIURL+"/storage")
	case "gcs":
		store, err = storage.NewGCSStore(context.Background(), cfg.Storage.GCSBucketPrefix, cfg.Storage.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.Info("object storage ready", zap.String("driver", cfg.Storage.Driver))
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return store.Close() }})
	return store, nil
}
