package services

import (
	"context"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

type Dashboard struct {
	TotalCalls int64                  `json:"total_calls"`
	PerApp     []*models.AppUsageStat `json:"per_app"`
	Daily      []*models.DailyUsage   `json:"daily"`
}

type StatsService interface {
	Dashboard(ctx context.Context, userID *int64) (*Dashboard, error)
	AppStats(ctx context.Context, appID string, userID *int64) (*models.AppUsageStat, error)
}

type statsService struct {
	usageRepo repositories.UsageRepository
}

func NewStatsService(usageRepo repositories.UsageRepository) StatsService {
	return &statsService{usageRepo: usageRepo}
}

func (s *statsService) Dashboard(ctx context.Context, userID *int64) (*Dashboard, error) {
	total, err := s.usageRepo.CountAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	perApp, err := s.usageRepo.StatsByApp(ctx, userID)
	if err != nil {
		return nil, err
	}
	daily, err := s.usageRepo.DailySeries(ctx, userID, 7)
	if err != nil {
		return nil, err
	}
	return &Dashboard{TotalCalls: total, PerApp: perApp, Daily: daily}, nil
}

func (s *statsService) AppStats(ctx context.Context, appID string, userID *int64) (*models.AppUsageStat, error) {
	return s.usageRepo.StatsForApp(ctx, appID, userID)
}
