package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/ezwallet/internal/repo"
	"github.com/Skotchmaster/ezwallet/internal/repo/mongorepo"
	"github.com/Skotchmaster/ezwallet/internal/service"
	"github.com/Skotchmaster/ezwallet/pkg/config"
	"github.com/Skotchmaster/ezwallet/pkg/db"
)

var _ service.Store = (*mongorepo.Store)(nil)

// openStore connects the backend selected by STORE_DRIVER. The returned func
// releases it.
func openStore(ctx context.Context, cfg config.Config) (service.Store, func() error, error) {
	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		s, err := mongorepo.Connect(initCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo init: %w", err)
		}
		closeFn := func() error {
			c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return s.Close(c)
		}
		return s, closeFn, nil
	default:
		gdb, err := db.Open(initCtx, cfg.StoreDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("db init: %w", err)
		}
		return repo.New(gdb), func() error { return db.Close(gdb) }, nil
	}
}
