package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ikigai-ua/formrelay/internal/config"
	"github.com/ikigai-ua/formrelay/internal/storage"
)

// openStore connects the submission store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.AppConfig) (storage.SubmissionStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := storage.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return storage.NewMongoSubmissionStore(client, cfg.Mongo.Database, cfg.Mongo.Collection), nil
	default:
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return nil, fmt.Errorf("creating data directory %s: %w", cfg.DataDir, err)
		}
		db, _, err := storage.NewSQLiteDB(cfg.DBPath())
		if err != nil {
			return nil, err
		}
		return storage.NewSQLiteSubmissionStore(db), nil
	}
}
