package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cosmetics-store/internal/app"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/version"
)

const (
	envHTTPAddr        = "STORE_HTTP_ADDR"
	envGRPCAddr        = "STORE_GRPC_ADDR"
	envMetricsAddr     = "STORE_METRICS_ADDR"
	envStorageDriver   = "STORE_STORAGE_DRIVER"
	envProductsFile    = "STORE_PRODUCTS_FILE"
	envSalesFile       = "STORE_SALES_FILE"
	envPostgresDSN     = "STORE_POSTGRES_DSN"
	envRedisAddr       = "STORE_REDIS_ADDR"
	envRedisPassword   = "STORE_REDIS_PASSWORD"
	envRedisDB         = "STORE_REDIS_DB"
	envRedisKeyPrefix  = "STORE_REDIS_KEY_PREFIX"
	envKafkaBrokers    = "STORE_KAFKA_BROKERS"
	envKafkaTopic      = "STORE_KAFKA_TOPIC"
	envPersistStrict   = "STORE_PERSIST_STRICT"
	envCurrency        = "STORE_CURRENCY"
	envLogLevel        = "STORE_LOG_LEVEL"
	envShutdownTimeout = "STORE_SHUTDOWN_TIMEOUT"
)

type envLookup func(string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(lookup envLookup) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)

	raw, ok := lookup(envLogLevel)
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}
	level, err := log.ParseLevel(strings.TrimSpace(raw))
	if err != nil {
		log.WithError(err).Warnf("invalid %s, using info", envLogLevel)
		return
	}
	log.SetLevel(level)
}

// readConfigFromEnv накладывает переменные окружения на app.DefaultConfig.
// Некорректные значения не применяются и возвращаются как предупреждения.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string
	warn := func(key string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s: %v, using default", key, err))
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(envHTTPAddr, &cfg.HTTPAddr)
	str(envGRPCAddr, &cfg.GRPCAddr)
	str(envMetricsAddr, &cfg.MetricsAddr)
	str(envProductsFile, &cfg.ProductsFile)
	str(envSalesFile, &cfg.SalesFile)
	str(envPostgresDSN, &cfg.PostgresDSN)
	str(envRedisAddr, &cfg.RedisAddr)
	str(envRedisKeyPrefix, &cfg.RedisKeyPrefix)
	str(envKafkaBrokers, &cfg.KafkaBrokers)
	str(envKafkaTopic, &cfg.KafkaTopic)
	str(envCurrency, &cfg.Currency)

	if v, ok := lookup(envStorageDriver); ok && strings.TrimSpace(v) != "" {
		cfg.StorageDriver = strings.ToLower(strings.TrimSpace(v))
	}
	// Пароль не обрезаем: пробелы могут быть его частью.
	if v, ok := lookup(envRedisPassword); ok {
		cfg.RedisPassword = v
	}

	if v, ok := lookup(envRedisDB); ok {
		db, err := parseInt(v, func(n int) bool { return n >= 0 }, "must be >= 0")
		if err != nil {
			warn(envRedisDB, err)
		} else {
			cfg.RedisDB = db
		}
	}
	if v, ok := lookup(envPersistStrict); ok {
		strict, err := parseBool(v)
		if err != nil {
			warn(envPersistStrict, err)
		} else {
			cfg.PersistStrict = strict
		}
	}
	if v, ok := lookup(envShutdownTimeout); ok {
		timeout, err := parseDuration(v, func(d time.Duration) bool { return d > 0 }, "must be > 0")
		if err != nil {
			warn(envShutdownTimeout, err)
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value %q", raw)
	}
}

func parseInt(raw string, valid func(int) bool, constraint string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	if !valid(value) {
		return 0, fmt.Errorf("value %d %s", value, constraint)
	}
	return value, nil
}

func parseDuration(raw string, valid func(time.Duration) bool, constraint string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	if !valid(value) {
		return 0, fmt.Errorf("value %s %s", value, constraint)
	}
	return value, nil
}

func main() {
	setupLogger(os.LookupEnv)
	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, w := range warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":      cfg.HTTPAddr,
		"grpc_addr":      cfg.GRPCAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
		"persist_strict": cfg.PersistStrict,
		"kafka_enabled":  cfg.KafkaBrokers != "",
		"version":        version.String(),
	}).Info("запускаем store-service")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("store-service остановлен")
}
