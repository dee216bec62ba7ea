package services

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/internal/database"
)

type healthCheck func(ctx context.Context) error

type HealthService struct {
	logger      *logrus.Logger
	db          *database.Database
	critical    map[string]healthCheck
	nonCritical map[string]healthCheck

	// Prometheus metrics
	healthCheckStatus   *prometheus.GaugeVec
	lastHealthCheck     *prometheus.GaugeVec
	systemMetrics       *prometheus.GaugeVec
	dbConnectionMetrics *prometheus.GaugeVec
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Services    map[string]string `json:"services"`
	Critical    []string          `json:"critical_failures,omitempty"`
	NonCritical []string          `json:"non_critical_failures,omitempty"`
}

// NewHealthService checks PostgreSQL and Redis as critical dependencies. Neo4j and Kafka only
// back the pairing graph and feedback fan-out, so their failures degrade rather than fail.
func NewHealthService(cfg *config.Config, logger *logrus.Logger, db *database.Database) *HealthService {
	critical := map[string]healthCheck{
		"postgresql": func(ctx context.Context) error { return db.PG.Ping(ctx) },
		"redis":      func(ctx context.Context) error { return db.Redis.Ping(ctx).Err() },
	}
	nonCritical := map[string]healthCheck{
		"neo4j": func(ctx context.Context) error { return db.Neo4j.VerifyConnectivity(ctx) },
		"kafka": func(ctx context.Context) error { return checkKafka(ctx, cfg.Kafka.Brokers) },
	}

	hs := newHealthService(logger, critical, nonCritical)
	hs.db = db

	// Start background metrics collection
	go hs.collectSystemMetrics()
	go hs.collectDatabaseMetrics()

	return hs
}

func newHealthService(logger *logrus.Logger, critical, nonCritical map[string]healthCheck) *HealthService {
	hs := &HealthService{
		logger:      logger,
		critical:    critical,
		nonCritical: nonCritical,
	}

	hs.healthCheckStatus = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "health_check_status",
		Help: "Health check status (1 = healthy, 0 = unhealthy)",
	}, []string{"service"})

	hs.lastHealthCheck = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "health_check_timestamp",
		Help: "Timestamp of last health check",
	}, []string{"service"})

	hs.systemMetrics = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "system_info",
		Help: "System information metrics",
	}, []string{"metric_type"})

	hs.dbConnectionMetrics = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "database_connection_pool_usage",
		Help: "Database connection pool usage",
	}, []string{"database", "state"})

	// Register metrics, ignoring collectors that are already registered
	for name, c := range map[string]prometheus.Collector{
		"health_check_status":            hs.healthCheckStatus,
		"health_check_timestamp":         hs.lastHealthCheck,
		"system_info":                    hs.systemMetrics,
		"database_connection_pool_usage": hs.dbConnectionMetrics,
	} {
		if err := prometheus.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				logger.WithError(err).Warnf("Failed to register %s metric", name)
			}
		}
	}

	return hs
}

func (s *HealthService) CheckHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	allCriticalHealthy := true
	for _, name := range sortedNames(s.critical) {
		if err := s.run(ctx, s.critical[name]); err != nil {
			status.Services[name] = "unhealthy"
			status.Critical = append(status.Critical, name)
			allCriticalHealthy = false
			s.logger.WithError(err).Errorf("Critical service %s is unhealthy", name)
			s.UpdateHealthMetrics(name, false)
		} else {
			status.Services[name] = "healthy"
			s.UpdateHealthMetrics(name, true)
		}
	}

	for _, name := range sortedNames(s.nonCritical) {
		if err := s.run(ctx, s.nonCritical[name]); err != nil {
			status.Services[name] = "unhealthy"
			status.NonCritical = append(status.NonCritical, name)
			s.logger.WithError(err).Warnf("Non-critical service %s is unhealthy", name)
			s.UpdateHealthMetrics(name, false)
		} else {
			status.Services[name] = "healthy"
			s.UpdateHealthMetrics(name, true)
		}
	}

	switch {
	case !allCriticalHealthy:
		status.Status = "unhealthy"
	case len(status.NonCritical) > 0:
		status.Status = "degraded"
	default:
		status.Status = "healthy"
	}

	return status
}

func (s *HealthService) run(ctx context.Context, check healthCheck) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return check(ctx)
}

func checkKafka(ctx context.Context, brokers []string) error {
	if len(brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	var lastErr error
	for _, broker := range brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}
	return lastErr
}

func sortedNames(checks map[string]healthCheck) []string {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// collectSystemMetrics collects system-level metrics
func (s *HealthService) collectSystemMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	var memStats runtime.MemStats

	for range ticker.C {
		runtime.ReadMemStats(&memStats)

		s.systemMetrics.WithLabelValues("memory_alloc_bytes").Set(float64(memStats.Alloc))
		s.systemMetrics.WithLabelValues("memory_sys_bytes").Set(float64(memStats.Sys))
		s.systemMetrics.WithLabelValues("goroutines_count").Set(float64(runtime.NumGoroutine()))
		s.systemMetrics.WithLabelValues("gc_runs_total").Set(float64(memStats.NumGC))
	}
}

// collectDatabaseMetrics collects PostgreSQL pool metrics
func (s *HealthService) collectDatabaseMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if s.db == nil || s.db.PG == nil {
			continue
		}
		stats := s.db.PG.Stat()

		s.dbConnectionMetrics.WithLabelValues("postgresql", "acquired_conns").Set(float64(stats.AcquiredConns()))
		s.dbConnectionMetrics.WithLabelValues("postgresql", "idle_conns").Set(float64(stats.IdleConns()))
		s.dbConnectionMetrics.WithLabelValues("postgresql", "max_conns").Set(float64(stats.MaxConns()))
		s.dbConnectionMetrics.WithLabelValues("postgresql", "total_conns").Set(float64(stats.TotalConns()))

		if stats.MaxConns() > 0 {
			usage := float64(stats.AcquiredConns()) / float64(stats.MaxConns()) * 100
			s.dbConnectionMetrics.WithLabelValues("postgresql", "usage_percent").Set(usage)
		}
	}
}

// UpdateHealthMetrics updates health check metrics
func (s *HealthService) UpdateHealthMetrics(serviceName string, healthy bool) {
	if healthy {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(1)
	} else {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(0)
	}
	s.lastHealthCheck.WithLabelValues(serviceName).Set(float64(time.Now().Unix()))
}
