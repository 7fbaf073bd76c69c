package app

import "time"

// Драйверы хранилища снимков.
const (
	StorageDriverMemory   = "memory"
	StorageDriverJSON     = "json"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string

	StorageDriver string
	ProductsFile  string
	SalesFile     string
	PostgresDSN   string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// KafkaBrokers — список брокеров через запятую; пусто — события не публикуются.
	KafkaBrokers string
	KafkaTopic   string

	PersistStrict   bool
	Currency        string
	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает настройки для локального запуска с JSON-файлами.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        ":8080",
		GRPCAddr:        ":50051",
		MetricsAddr:     ":9090",
		StorageDriver:   StorageDriverJSON,
		ProductsFile:    "data/products.json",
		SalesFile:       "data/sales.json",
		RedisAddr:       "localhost:6379",
		RedisKeyPrefix:  "store:",
		KafkaTopic:      "store.ledger.events",
		Currency:        "тг.",
		ShutdownTimeout: 5 * time.Second,
	}
}
