package db

import (
	"context"
	"strconv"

	"countries-informer/internal/domain/model"

	"gorm.io/gorm"
)

type GormHealthDBGateway struct {
	DB *gorm.DB
}

var _ HealthDBGateway = (*GormHealthDBGateway)(nil)

func NewGormHealthDBGateway(db *gorm.DB) *GormHealthDBGateway {
	return &GormHealthDBGateway{DB: db}
}

func (gateway *GormHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	sqlDB, err := gateway.DB.DB()
	if err != nil {
		return model.DownStatus(err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return model.DownStatus(err)
	}

	stats := sqlDB.Stats()
	return model.UpStatus(map[string]string{
		"message":          string(model.StatusUp),
		"open_connections": strconv.Itoa(stats.OpenConnections),
		"in_use":           strconv.Itoa(stats.InUse),
		"idle":             strconv.Itoa(stats.Idle),
	})
}
