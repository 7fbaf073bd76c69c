package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	healthcheck "github.com/vladislavdragonenkov/cosmetics-store/internal/health"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/metrics"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/service/ledger"
	httpapi "github.com/vladislavdragonenkov/cosmetics-store/internal/transport/http"
	"github.com/vladislavdragonenkov/cosmetics-store/internal/version"
)

const defaultShutdownTimeout = 5 * time.Second

// Run поднимает сервис и блокируется до отмены ctx или падения сервера.
// При остановке снимок сохраняется принудительно через Flush.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close(logger)

	// Ошибка Kafka не фатальна: initKafkaProducer уже залогировал её.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	opts := []ledger.Option{
		ledger.WithLogger(log.WithField("component", "ledger")),
		ledger.WithMetrics(metrics.NewLedgerMetrics()),
		ledger.WithCurrency(cfg.Currency),
	}
	if cfg.PersistStrict {
		opts = append(opts, ledger.WithPersistPolicy(ledger.PersistStrict))
	}
	if kafkaProducer != nil {
		opts = append(opts, ledger.WithPublisher(kafka.NewLedgerPublisher(kafkaProducer, cfg.KafkaTopic)))
	}

	svc, err := ledger.New(ctx, store.storage, opts...)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}

	healthHandler := newHealthHandler(svc, store)

	metricsLis, err := net.Listen("tcp", cfg.MetricsAddr)
	if err != nil {
		return fmt.Errorf("listen metrics: %w", err)
	}
	metricsSrv := startMetricsServer(ctx, metricsLis, logger, healthHandler)

	apiLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		shutdownHTTP(metricsSrv, logger)
		return fmt.Errorf("listen http api: %w", err)
	}
	router := httpapi.NewRouter(svc,
		metrics.NewHTTPMetricsWithRegisterer(prometheus.DefaultRegisterer),
		log.WithField("component", "http-api"),
	)
	apiSrv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = apiLis.Close()
		shutdownHTTP(metricsSrv, logger)
		return fmt.Errorf("listen grpc: %w", err)
	}
	grpcServer, healthServer := newGRPCServer(logger)

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("HTTP API слушает %s", apiLis.Addr())
		if err := apiSrv.Serve(apiLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http api: %w", err)
		}
	}()
	go func() {
		logger.Infof("gRPC сервер слушает %s", grpcLis.Addr())
		errCh <- grpcServer.Serve(grpcLis)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем серверы")
		runErr = ctx.Err()
	case err := <-errCh:
		if !errors.Is(err, grpc.ErrServerStopped) {
			runErr = err
		}
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	stopGRPC(grpcServer, timeout, logger)
	shutdownHTTPWithTimeout(apiSrv, timeout, logger)
	shutdownHTTP(metricsSrv, logger)

	flushCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := svc.Flush(flushCtx); err != nil {
		logger.WithError(err).Error("final flush failed")
		if runErr == nil || errors.Is(runErr, context.Canceled) {
			runErr = fmt.Errorf("final flush: %w", err)
		}
	} else {
		logger.Info("snapshot flushed")
	}

	return runErr
}

// newHealthHandler регистрирует проверки хранилища и последнего сохранения.
// Неудачное сохранение в режиме best-effort переводит сервис в degraded.
func newHealthHandler(svc *ledger.Service, store runtimeStorage) *healthcheck.Handler {
	handler := healthcheck.NewHandler(version.GetVersion())
	if store.checker != nil {
		handler.RegisterChecker("storage", store.checker)
	}
	handler.RegisterChecker("persistence", healthcheck.NewDegradedChecker("persistence", func(context.Context) error {
		return svc.LastPersistError()
	}))
	return handler
}

// newGRPCServer создаёт gRPC сервер с health и reflection для проб и grpcurl.
func newGRPCServer(logger *log.Entry) (*grpc.Server, *health.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok2 := are.ExistingCollector.(*promgrpc.ServerMetrics); ok2 {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	grpcMetrics.InitializeMetrics(grpcServer)

	return grpcServer, healthServer
}

func stopGRPC(grpcServer *grpc.Server, timeout time.Duration, logger *log.Entry) {
	stoppedCh := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedCh)
	}()
	select {
	case <-stoppedCh:
	case <-time.After(timeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		grpcServer.Stop()
	}
}

// startMetricsServer обслуживает /metrics и health-пробы на lis.
func startMetricsServer(ctx context.Context, lis net.Listener, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		addr := lis.Addr().String()
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	shutdownHTTPWithTimeout(srv, defaultShutdownTimeout, logger)
}

func shutdownHTTPWithTimeout(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
