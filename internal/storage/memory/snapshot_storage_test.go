package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/storage/memory"
)

func newSnapshot() domain.Snapshot {
	p := domain.Product{ID: 1, Name: "Cream", Price: decimal.NewFromInt(10), Quantity: 2, Brand: "BrandA", Category: "Уход"}
	return domain.Snapshot{
		Products: []domain.Product{p},
		Sales:    []domain.Sale{domain.NewSale("sale-1", p, 3, time.Now().UTC())},
	}
}

func TestSnapshotStorage_EmptyLoad(t *testing.T) {
	storage := memory.NewSnapshotStorage()

	snapshot, err := storage.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(snapshot.Products) != 0 || len(snapshot.Sales) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}
}

func TestSnapshotStorage_SaveLoad(t *testing.T) {
	storage := memory.NewSnapshotStorage()
	ctx := context.Background()

	if err := storage.Save(ctx, newSnapshot()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := storage.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Products) != 1 || loaded.Products[0].Name != "Cream" {
		t.Fatalf("unexpected products: %+v", loaded.Products)
	}
	if len(loaded.Sales) != 1 || !loaded.Sales[0].Total.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected sales: %+v", loaded.Sales)
	}
	if storage.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", storage.Saves())
	}
}

func TestSnapshotStorage_DoesNotRetainCallerSlices(t *testing.T) {
	snapshot := newSnapshot()
	storage := memory.NewSnapshotStorageWith(snapshot)

	snapshot.Products[0].Quantity = 99

	loaded, err := storage.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Products[0].Quantity != 2 {
		t.Fatalf("storage must keep its own copy, got qty %d", loaded.Products[0].Quantity)
	}

	loaded.Products[0].Quantity = 77
	again, _ := storage.Load(context.Background())
	if again.Products[0].Quantity != 2 {
		t.Fatalf("load must return a copy, got qty %d", again.Products[0].Quantity)
	}
}
