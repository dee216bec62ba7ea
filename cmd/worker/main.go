package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/app"
	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/internal/database"
	"github.com/temcen/closetmood/internal/messaging"
	"github.com/temcen/closetmood/internal/services"
	"github.com/temcen/closetmood/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := app.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4j.URL, neo4j.BasicAuth(cfg.Neo4j.Username, cfg.Neo4j.Password, ""))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Neo4j driver")
	}
	defer driver.Close(context.Background())

	if err := driver.VerifyConnectivity(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Neo4j")
	}
	if err := database.EnsureGraphConstraints(ctx, driver); err != nil {
		logger.WithError(err).Fatal("Failed to prepare pairing graph")
	}

	metrics := services.NewMetricsCollector(prometheus.DefaultRegisterer)
	graph := services.NewPairingGraph(driver, cfg.Recommendation.MaxPairings, logger)
	handler := worker.NewPairingHandler(graph, metrics, logger)

	metricsServer := &http.Server{
		Addr:              ":" + cfg.Server.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Metrics server stopped")
		}
	}()

	bus := messaging.NewFeedbackConsumer(cfg, logger)
	defer bus.Close()

	logger.WithFields(logrus.Fields{
		"topic": cfg.Kafka.Topics.Feedback,
		"group": cfg.Kafka.ConsumerGroup,
	}).Info("Feedback worker started")

	if err := bus.Consume(ctx, handler.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("Feedback consumer stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Metrics server forced to shutdown")
	}

	logger.Info("Feedback worker exited")
}
