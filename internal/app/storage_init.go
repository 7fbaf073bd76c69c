package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/cosmetics-store/internal/health"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/storage/jsonfile"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/storage/memory"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/storage/postgres"
	redisstorage "github.com/vladislavdragonenkov/cosmetics-store/internal/storage/redis"
)

// runtimeStorage — выбранное хранилище и его жизненный цикл.
type runtimeStorage struct {
	storage domain.Storage
	checker healthcheck.Checker
	closeFn func() error
}

func (s runtimeStorage) close(logger *log.Entry) {
	if s.closeFn == nil {
		return
	}
	if err := s.closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
	}
}

func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (runtimeStorage, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	entry := logger.WithField("storage_driver", driver)

	switch driver {
	case "", StorageDriverMemory:
		entry.Warn("memory storage selected, data is lost on restart")
		return runtimeStorage{storage: memory.NewSnapshotStorage()}, nil

	case StorageDriverJSON:
		if strings.TrimSpace(cfg.ProductsFile) == "" || strings.TrimSpace(cfg.SalesFile) == "" {
			return runtimeStorage{}, fmt.Errorf("json storage requires products and sales file paths")
		}
		entry.WithFields(log.Fields{
			"products_file": cfg.ProductsFile,
			"sales_file":    cfg.SalesFile,
		}).Info("json file storage selected")
		return runtimeStorage{
			storage: jsonfile.New(cfg.ProductsFile, cfg.SalesFile, logger.WithField("component", "jsonfile-storage")),
		}, nil

	case StorageDriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return runtimeStorage{}, fmt.Errorf("postgres storage requires dsn")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return runtimeStorage{}, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return runtimeStorage{}, err
		}
		entry.Info("postgres storage selected")
		return runtimeStorage{
			storage: postgres.NewSnapshotStorage(store),
			checker: healthcheck.NewSimpleChecker("postgres", store.Ping),
			closeFn: store.Close,
		}, nil

	case StorageDriverRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return runtimeStorage{}, fmt.Errorf("redis storage requires address")
		}
		store, err := redisstorage.Open(ctx, redisstorage.Config{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, logger.WithField("component", "redis-storage"))
		if err != nil {
			return runtimeStorage{}, err
		}
		entry.WithField("redis_addr", cfg.RedisAddr).Info("redis storage selected")
		return runtimeStorage{
			storage: store,
			checker: healthcheck.NewSimpleChecker("redis", store.Ping),
			closeFn: store.Close,
		}, nil

	default:
		return runtimeStorage{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
