package domain

import (
	"context"
	"time"
)

// Snapshot — полная копия каталога и журнала продаж, которой сервис обменивается с хранилищем.
type Snapshot struct {
	Products []Product
	Sales    []Sale
}

// Clone возвращает копию снимка, не разделяющую слайсы с оригиналом.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Products: make([]Product, len(s.Products)),
		Sales:    make([]Sale, len(s.Sales)),
	}
	copy(out.Products, s.Products)
	copy(out.Sales, s.Sales)
	return out
}

// Storage описывает хранилище снимков.
type Storage interface {
	// Load возвращает сохранённый снимок. При отсутствии данных — пустой снимок без ошибки.
	Load(ctx context.Context) (Snapshot, error)
	// Save целиком перезаписывает каталог и журнал продаж.
	Save(ctx context.Context, snapshot Snapshot) error
}

// EventType задаёт тип события каталога/журнала.
type EventType string

const (
	EventProductAdded   EventType = "product.added"
	EventProductUpdated EventType = "product.updated"
	EventProductDeleted EventType = "product.deleted"
	EventSaleRecorded   EventType = "sale.recorded"
	EventSaleRefunded   EventType = "sale.refunded"
)

// LedgerEvent описывает применённую мутацию.
type LedgerEvent struct {
	Type      EventType
	ProductID int64
	SaleID    string
	Quantity  int
	Occurred  time.Time
}

// EventPublisher публикует события наружу. Ошибка публикации не откатывает мутацию.
type EventPublisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}
