package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

const defaultLocalRedisAddr = "localhost:6379"

func openRedisStorageForIntegrationTest(t *testing.T) *Storage {
	t.Helper()

	addr := strings.TrimSpace(os.Getenv("STORE_REDIS_TEST_ADDR"))
	if addr == "" {
		addr = defaultLocalRedisAddr
	}
	// Уникальный префикс изолирует тесты друг от друга.
	prefix := fmt.Sprintf("store-test:%s:", uuid.NewString())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	storage, err := Open(ctx, Config{Addr: addr, KeyPrefix: prefix}, nil)
	if err != nil {
		t.Skipf("redis is not available for integration tests: %s: %v", addr, err)
	}
	t.Cleanup(func() {
		_ = storage.client.Del(context.Background(), storage.productsKey, storage.salesKey).Err()
		_ = storage.Close()
	})
	return storage
}

func TestStorage_RedisEmptyLoad(t *testing.T) {
	storage := openRedisStorageForIntegrationTest(t)

	snapshot, err := storage.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, snapshot.Products)
	require.Empty(t, snapshot.Sales)
}

func TestStorage_RedisSaveLoad(t *testing.T) {
	storage := openRedisStorageForIntegrationTest(t)
	ctx := context.Background()

	p := domain.Product{ID: 4, Name: "Shampoo", Price: decimal.RequireFromString("7.90"), Quantity: 3, Brand: "BrandC", Category: "Волосы"}
	soldAt := time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC)
	require.NoError(t, storage.Save(ctx, domain.Snapshot{
		Products: []domain.Product{p},
		Sales:    []domain.Sale{domain.NewSale("sale-1", p, 2, soldAt)},
	}))

	loaded, err := storage.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Products, 1)
	require.Equal(t, int64(4), loaded.Products[0].ID)
	require.Len(t, loaded.Sales, 1)
	require.True(t, loaded.Sales[0].Total.Equal(decimal.RequireFromString("15.8")))
	require.True(t, loaded.Sales[0].SoldAt.Equal(soldAt))
}

func TestStorage_NilGuards(t *testing.T) {
	var storage *Storage
	require.Error(t, storage.Ping(context.Background()))
	require.NoError(t, storage.Close())
}

func TestNew_DefaultPrefix(t *testing.T) {
	storage := New(nil, "", nil)
	require.Equal(t, "store:products", storage.productsKey)
	require.Equal(t, "store:sales", storage.salesKey)
}
