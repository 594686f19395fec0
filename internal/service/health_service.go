package service

import (
	"context"
	"time"

	"doccoder-be/internal/dto"

	"gorm.io/gorm"
)

type IHealthService interface {
	Health(ctx context.Context) *dto.HealthResponse
	Readiness() *dto.ReadinessResponse
}

type healthService struct {
	db        *gorm.DB
	readiness func() map[string]bool
	started   time.Time
}

// NewHealthService accepts a nil db; the database check is then omitted.
func NewHealthService(db *gorm.DB, readiness func() map[string]bool) IHealthService {
	return &healthService{db: db, readiness: readiness, started: time.Now()}
}

func (s *healthService) Health(ctx context.Context) *dto.HealthResponse {
	res := &dto.HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}
	if s.db == nil {
		return res
	}

	res.Database = "up"
	sqlDB, err := s.db.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		res.Status = "degraded"
		res.Database = "down"
	}
	return res
}

// Readiness reports per provider whether a usable key is configured. Keys
// themselves never leave the process.
func (s *healthService) Readiness() *dto.ReadinessResponse {
	providers := s.readiness()
	ready := false
	for _, ok := range providers {
		ready = ready || ok
	}
	return &dto.ReadinessResponse{Ready: ready, Providers: providers}
}
