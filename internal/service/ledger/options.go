package ledger

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/domain"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/metrics"
)

const defaultCurrency = "тг."

// PersistPolicy задаёт реакцию сервиса на ошибку сохранения снимка.
type PersistPolicy int

const (
	// PersistBestEffort логирует ошибку сохранения и возвращает успех мутации.
	PersistBestEffort PersistPolicy = iota
	// PersistStrict оставляет мутацию в памяти, но возвращает ошибку ErrPersistFailed.
	PersistStrict
)

// Options задаёт параметры сервиса.
type Options struct {
	Logger    *log.Entry
	Metrics   *metrics.LedgerMetrics
	Publisher domain.EventPublisher
	Policy    PersistPolicy
	Currency  string
	Clock     func() time.Time
	NewSaleID func() string
}

// Option настраивает Service.
type Option func(*Options)

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics включает prometheus-метрики.
func WithMetrics(m *metrics.LedgerMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithPublisher задаёт publisher событий каталога и журнала.
func WithPublisher(publisher domain.EventPublisher) Option {
	return func(opts *Options) {
		opts.Publisher = publisher
	}
}

// WithPersistPolicy задаёт политику обработки ошибок сохранения.
func WithPersistPolicy(policy PersistPolicy) Option {
	return func(opts *Options) {
		opts.Policy = policy
	}
}

// WithCurrency задаёт суффикс валюты в отчёте о выручке.
func WithCurrency(currency string) Option {
	return func(opts *Options) {
		opts.Currency = currency
	}
}

// WithClock подменяет источник времени (для тестов).
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) {
		opts.Clock = clock
	}
}

// WithSaleIDGenerator подменяет генератор идентификаторов продаж.
func WithSaleIDGenerator(gen func() string) Option {
	return func(opts *Options) {
		opts.NewSaleID = gen
	}
}

func buildOptions(opts []Option) Options {
	cfg := Options{
		Policy:   PersistBestEffort,
		Currency: defaultCurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New().WithField("component", "ledger")
	}
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}
	if cfg.NewSaleID == nil {
		cfg.NewSaleID = uuid.NewString
	}
	return cfg
}
