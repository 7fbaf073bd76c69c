package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/storage/record"
)

const (
	defaultKeyPrefix = "store:"
	opTimeout        = 5 * time.Second
)

// Config задаёт подключение к Redis.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Storage хранит снимок в двух ключах Redis: каталог и журнал продаж.
type Storage struct {
	client      *goredis.Client
	productsKey string
	salesKey    string
	logger      *log.Entry
}

// Open создаёт клиента и проверяет доступность сервера.
func Open(ctx context.Context, cfg Config, logger *log.Entry) (*Storage, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	s := New(client, cfg.KeyPrefix, logger)
	if err := s.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}

// New оборачивает готового клиента.
func New(client *goredis.Client, keyPrefix string, logger *log.Entry) *Storage {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if logger == nil {
		logger = log.WithField("component", "redis-storage")
	}
	return &Storage{
		client:      client,
		productsKey: keyPrefix + "products",
		salesKey:    keyPrefix + "sales",
		logger:      logger,
	}
}

// Ping проверяет доступность Redis.
func (s *Storage) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("redis storage is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close закрывает клиента.
func (s *Storage) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Storage) Load(ctx context.Context) (domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var products []record.Product
	if err := s.get(ctx, s.productsKey, &products); err != nil {
		return domain.Snapshot{}, fmt.Errorf("load products: %w", err)
	}
	var sales []record.Sale
	if err := s.get(ctx, s.salesKey, &sales); err != nil {
		return domain.Snapshot{}, fmt.Errorf("load sales: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"products": len(products),
		"sales":    len(sales),
	}).Info("snapshot loaded from redis")

	return domain.Snapshot{
		Products: record.ToProducts(products),
		Sales:    record.ToSales(sales),
	}, nil
}

// Save записывает оба ключа в одной транзакции MULTI/EXEC.
func (s *Storage) Save(ctx context.Context, snapshot domain.Snapshot) error {
	products, err := json.Marshal(record.FromProducts(snapshot.Products))
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	sales, err := json.Marshal(record.FromSales(snapshot.Sales))
	if err != nil {
		return fmt.Errorf("encode sales: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.productsKey, products, 0)
		pipe.Set(ctx, s.salesKey, sales, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Storage) get(ctx context.Context, key string, dst any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		s.logger.WithField("key", key).Warn("redis key not found, starting empty")
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

var _ domain.Storage = (*Storage)(nil)
