package database

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// RegisterMetrics exposes connection pool statistics for db under dbName.
func RegisterMetrics(reg prometheus.Registerer, db *gorm.DB, dbName string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	if err := reg.Register(collectors.NewDBStatsCollector(sqlDB, dbName)); err != nil {
		return fmt.Errorf("failed to register db metrics: %w", err)
	}
	return nil
}
