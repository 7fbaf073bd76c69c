package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/service/ledger"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/storage/jsonfile"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return logger.WithField("component", "test")
}

func newStorage(t *testing.T) (*jsonfile.Storage, string) {
	t.Helper()
	dir := t.TempDir()
	return jsonfile.New(filepath.Join(dir, "products.json"), filepath.Join(dir, "sales.json"), testLogger()), dir
}

func TestStorage_LoadMissingFiles(t *testing.T) {
	storage, _ := newStorage(t)

	snapshot, err := storage.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, snapshot.Products)
	require.Empty(t, snapshot.Sales)
}

func TestStorage_LoadEmptyFile(t *testing.T) {
	storage, dir := newStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte("  \n"), 0o644))

	snapshot, err := storage.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, snapshot.Products)
}

func TestStorage_LoadCorruptedFile(t *testing.T) {
	storage, dir := newStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.json"), []byte("{not json"), 0o644))

	_, err := storage.Load(context.Background())
	require.Error(t, err)
}

func TestStorage_SaveLoad(t *testing.T) {
	storage, dir := newStorage(t)
	ctx := context.Background()

	p := domain.Product{ID: 1, Name: "Cream", Price: decimal.RequireFromString("10.25"), Quantity: 2, Brand: "BrandA", Category: "Уход"}
	soldAt := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	snapshot := domain.Snapshot{
		Products: []domain.Product{p},
		Sales:    []domain.Sale{domain.NewSale("sale-1", p, 3, soldAt)},
	}
	require.NoError(t, storage.Save(ctx, snapshot))

	_, err := os.Stat(filepath.Join(dir, "products.json"))
	require.NoError(t, err)

	loaded, err := storage.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Products, 1)
	require.Equal(t, "Cream", loaded.Products[0].Name)
	require.True(t, loaded.Products[0].Price.Equal(p.Price))
	require.Len(t, loaded.Sales, 1)
	require.Equal(t, int64(1), loaded.Sales[0].ProductID)
	require.True(t, loaded.Sales[0].Total.Equal(decimal.RequireFromString("30.75")))
	require.True(t, loaded.Sales[0].SoldAt.Equal(soldAt))
}

func TestStorage_SaveCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	storage := jsonfile.New(filepath.Join(dir, "nested", "products.json"), filepath.Join(dir, "nested", "sales.json"), testLogger())

	require.NoError(t, storage.Save(context.Background(), domain.Snapshot{}))

	data, err := os.ReadFile(filepath.Join(dir, "nested", "products.json"))
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(data))
}

func TestStorage_ServiceRoundTrip(t *testing.T) {
	storage, _ := newStorage(t)
	ctx := context.Background()

	svc, err := ledger.New(ctx, storage, ledger.WithLogger(testLogger()))
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, domain.ProductInput{Name: "Cream", Price: decimal.NewFromInt(10), Quantity: 5, Brand: "BrandA", Category: "Уход"})
	require.NoError(t, err)
	sale, err := svc.SellProduct(ctx, 1, 3)
	require.NoError(t, err)

	fresh, err := ledger.New(ctx, storage, ledger.WithLogger(testLogger()))
	require.NoError(t, err)

	products := fresh.ListProducts()
	require.Len(t, products, 1)
	require.Equal(t, 2, products[0].Quantity)
	sales := fresh.ListSales()
	require.Len(t, sales, 1)
	require.Equal(t, sale.ID, sales[0].ID)
	require.Equal(t, "Общая выручка: 30.0 тг.", fresh.RevenueReport())

	_, err = fresh.RefundSale(ctx, sale.ID)
	require.NoError(t, err)
	p, err := fresh.FindProductByID(1)
	require.NoError(t, err)
	require.Equal(t, 5, p.Quantity)
}
