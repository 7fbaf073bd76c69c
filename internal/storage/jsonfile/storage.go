package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/storage/record"
)

const filePerm = 0o644

// Storage хранит каталог и журнал продаж в двух JSON-файлах.
type Storage struct {
	mu           sync.Mutex
	productsPath string
	salesPath    string
	logger       *log.Entry
}

// New создаёт файловое хранилище. Каталоги для файлов создаются при сохранении.
func New(productsPath, salesPath string, logger *log.Entry) *Storage {
	if logger == nil {
		logger = log.WithField("component", "jsonfile-storage")
	}
	return &Storage{
		productsPath: productsPath,
		salesPath:    salesPath,
		logger:       logger,
	}
}

// Load читает оба файла. Отсутствующий или пустой файл даёт пустую коллекцию.
func (s *Storage) Load(_ context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var products []record.Product
	if err := s.readFile(s.productsPath, &products); err != nil {
		return domain.Snapshot{}, fmt.Errorf("load products: %w", err)
	}
	var sales []record.Sale
	if err := s.readFile(s.salesPath, &sales); err != nil {
		return domain.Snapshot{}, fmt.Errorf("load sales: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"products": len(products),
		"sales":    len(sales),
	}).Info("snapshot loaded from json files")

	return domain.Snapshot{
		Products: record.ToProducts(products),
		Sales:    record.ToSales(sales),
	}, nil
}

// Save перезаписывает оба файла через временный файл и rename.
func (s *Storage) Save(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeFile(s.productsPath, record.FromProducts(snapshot.Products)); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	if err := s.writeFile(s.salesPath, record.FromSales(snapshot.Sales)); err != nil {
		return fmt.Errorf("save sales: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"products": len(snapshot.Products),
		"sales":    len(snapshot.Sales),
	}).Debug("snapshot saved to json files")
	return nil
}

func (s *Storage) readFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.WithField("path", path).Warn("data file not found, starting empty")
			return nil
		}
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.logger.WithField("path", path).Warn("data file is empty, starting empty")
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (s *Storage) writeFile(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

var _ domain.Storage = (*Storage)(nil)
