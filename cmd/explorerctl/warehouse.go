package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/internal/infrastructure/persistence"
	mongoRepo "acme-explorer-service/internal/interface/repository"
	"acme-explorer-service/internal/usecase"
	"acme-explorer-service/pkg/logger"
	"acme-explorer-service/pkg/metrics"
)

var rebuildPeriod string

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Compute and store one indicator snapshot now",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		period := rebuildPeriod
		if period == "" {
			period = cfg.RebuildPeriod
		}
		p, err := usecase.ParseRebuildPeriod(period)
		if err != nil {
			return err
		}

		return withStores(ctx, func(db *mongo.Database, indicators repository.IndicatorRepository) error {
			log := logger.NewLoggerWithLevel(cfg.LogLevel)
			m := metrics.NewMetrics("explorerctl", prometheus.NewRegistry())
			job := usecase.NewWarehouseJob(mongoRepo.NewMongoAnalyticsRepository(db), indicators, m, log)

			indicator, err := job.Run(ctx, p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), indicator)
		})
	},
}

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "Inspect stored indicator snapshots",
}

var indicatorsLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the most recent indicator snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		return withStores(ctx, func(_ *mongo.Database, indicators repository.IndicatorRepository) error {
			latest, err := indicators.Latest(ctx)
			if err != nil {
				return err
			}
			if latest == nil {
				return fmt.Errorf("no indicator has been computed yet")
			}
			return printJSON(cmd.OutOrStdout(), latest)
		})
	},
}

func init() {
	rebuildCmd.Flags().StringVar(&rebuildPeriod, "period", "", "rebuild period recorded on the snapshot (default REBUILD_PERIOD)")
	indicatorsCmd.AddCommand(indicatorsLatestCmd)
}

// withStores connects to MongoDB and the configured indicator store for the duration of fn
func withStores(ctx context.Context, fn func(db *mongo.Database, indicators repository.IndicatorRepository) error) error {
	client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	defer client.Disconnect(context.Background())

	indicators, err := persistence.NewIndicatorRepository(cfg.IndicatorBackend, db, cfg.PostgresURI)
	if err != nil {
		return err
	}
	return fn(db, indicators)
}
