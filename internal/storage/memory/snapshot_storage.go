package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
)

// SnapshotStorage — in-memory реализация domain.Storage для локальной разработки и тестов.
type SnapshotStorage struct {
	mu       sync.RWMutex
	snapshot domain.Snapshot
	saves    int
}

// NewSnapshotStorage возвращает пустое хранилище.
func NewSnapshotStorage() *SnapshotStorage {
	return &SnapshotStorage{}
}

// NewSnapshotStorageWith возвращает хранилище с заранее заданным снимком.
func NewSnapshotStorageWith(snapshot domain.Snapshot) *SnapshotStorage {
	return &SnapshotStorage{snapshot: snapshot.Clone()}
}

// Load возвращает копию сохранённого снимка.
func (s *SnapshotStorage) Load(_ context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Отдаём копию, чтобы вызывающий код не держал ссылку на внутреннее состояние.
	return s.snapshot.Clone(), nil
}

// Save заменяет снимок его копией.
func (s *SnapshotStorage) Save(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot.Clone()
	s.saves++
	return nil
}

// Saves возвращает количество вызовов Save.
func (s *SnapshotStorage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

var _ domain.Storage = (*SnapshotStorage)(nil)
