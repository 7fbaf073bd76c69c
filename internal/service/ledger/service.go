package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/metrics"
)

// Подтверждения для пользователя.
const (
	MsgProductUpdated = "Товар обновлён!"
	MsgProductDeleted = "Товар удалён!"
	MsgSold           = "Продано!"
)

// Имена операций для логов и метрик.
const (
	opAdd    = "add_product"
	opUpdate = "update_product"
	opDelete = "delete_product"
	opSell   = "sell_product"
	opRefund = "refund_sale"
	opFlush  = "flush"
)

// Service владеет каталогом и журналом продаж, валидирует и применяет мутации
// и сохраняет полный снимок после каждой успешной мутации.
//
// Каталог и журнал защищены одним RWMutex: мутации выполняются целиком под
// блокировкой записи (validate → mutate → save), чтения получают копии.
type Service struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[int64]int
	sales    []domain.Sale
	nextID   int64
	// lastPersistErr — ошибка последнего сохранения; nil после успешного.
	lastPersistErr error

	storage   domain.Storage
	logger    *log.Entry
	metrics   *metrics.LedgerMetrics
	publisher domain.EventPublisher
	policy    PersistPolicy
	currency  string
	clock     func() time.Time
	newSaleID func() string
}

// New загружает снимок из storage и создаёт сервис.
//
// Счётчик идентификаторов равен максимуму среди ID каталога и ID товаров,
// на которые ссылаются продажи, плюс один. Поэтому порядок загруженных данных
// не важен, а ID удалённого товара с продажами никогда не выдаётся повторно.
func New(ctx context.Context, storage domain.Storage, opts ...Option) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("ledger: storage is required")
	}
	cfg := buildOptions(opts)

	snapshot, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	s := &Service{
		products:  make([]domain.Product, 0, len(snapshot.Products)),
		index:     make(map[int64]int, len(snapshot.Products)),
		sales:     make([]domain.Sale, 0, len(snapshot.Sales)),
		nextID:    1,
		storage:   storage,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		publisher: cfg.Publisher,
		policy:    cfg.Policy,
		currency:  cfg.Currency,
		clock:     cfg.Clock,
		newSaleID: cfg.NewSaleID,
	}

	for _, p := range snapshot.Products {
		if _, dup := s.index[p.ID]; dup {
			s.logger.WithField("product_id", p.ID).Warn("duplicate product id in snapshot, skipping")
			continue
		}
		s.index[p.ID] = len(s.products)
		s.products = append(s.products, p)
		s.reserveID(p.ID)
	}
	for _, sale := range snapshot.Sales {
		s.sales = append(s.sales, sale)
		s.reserveID(sale.ProductID)
	}

	s.updateSizes()
	s.logger.WithFields(log.Fields{
		"products": len(s.products),
		"sales":    len(s.sales),
		"next_id":  s.nextID,
	}).Info("ledger loaded")

	return s, nil
}

// Flush сохраняет текущий снимок независимо от политики. Вызывается при остановке.
func (s *Service) Flush(ctx context.Context) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.storage.Save(ctx, s.snapshotLocked())
	s.lastPersistErr = err
	if err != nil {
		s.recordPersistFailure(opFlush, err)
		s.observe(opFlush, start, err)
		return fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}
	s.observe(opFlush, start, nil)
	return nil
}

// LastPersistError возвращает ошибку последнего сохранения снимка.
func (s *Service) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPersistErr
}

// Currency возвращает суффикс валюты отчётов.
func (s *Service) Currency() string {
	return s.currency
}

// reserveID сдвигает счётчик так, чтобы id больше никогда не выдавался.
func (s *Service) reserveID(id int64) {
	if id >= s.nextID {
		s.nextID = id + 1
	}
}

// persistLocked сохраняет снимок; вызывается под блокировкой записи.
// Мутация уже применена в памяти, поэтому отмена ctx вызывающего не прерывает
// сохранение: время ограничивают таймауты самого хранилища.
func (s *Service) persistLocked(ctx context.Context, op string) error {
	s.updateSizes()

	err := s.storage.Save(context.WithoutCancel(ctx), s.snapshotLocked())
	s.lastPersistErr = err
	if err == nil {
		return nil
	}

	s.recordPersistFailure(op, err)
	if s.policy == PersistStrict {
		return fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}
	return nil
}

func (s *Service) recordPersistFailure(op string, err error) {
	s.logger.WithError(err).WithField("operation", op).Error("failed to persist snapshot, in-memory state kept")
	if s.metrics != nil {
		s.metrics.RecordPersistFailure()
	}
}

func (s *Service) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{Products: s.products, Sales: s.sales}.Clone()
}

func (s *Service) updateSizes() {
	if s.metrics != nil {
		s.metrics.SetSizes(len(s.products), len(s.sales))
	}
}

func (s *Service) rebuildIndexLocked() {
	s.index = make(map[int64]int, len(s.products))
	for i, p := range s.products {
		s.index[p.ID] = i
	}
}

func (s *Service) observe(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	result := metrics.ResultOK
	switch {
	case domain.IsValidation(err):
		result = metrics.ResultRejected
	case domain.IsNotFound(err):
		result = metrics.ResultNotFound
	case err != nil:
		result = metrics.ResultPersist
	}
	s.metrics.RecordOperation(op, result, time.Since(start))
}

// publish отправляет событие; ошибка только логируется.
func (s *Service) publish(ctx context.Context, event domain.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if event.Occurred.IsZero() {
		event.Occurred = s.clock()
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": event.Type,
			"product_id": event.ProductID,
		}).Warn("failed to publish ledger event")
	}
}
