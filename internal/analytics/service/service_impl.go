package service

import (
	"context"

	"github.com/nyarko-dennis/donor-app-backend/internal/analytics/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/analytics/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo repository.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo repository.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("analytics.service"),
		repo: p.Repo,
	}
}

func (s *Service) Summary(ctx context.Context, r domain.Range) (domain.Summary, error) {
	return s.repo.Summary(ctx, s.db, r)
}

func (s *Service) ByCampaign(ctx context.Context, r domain.Range) ([]domain.CampaignTotal, error) {
	return s.repo.ByCampaign(ctx, s.db, r)
}

func (s *Service) ByCause(ctx context.Context, r domain.Range) ([]domain.CauseTotal, error) {
	return s.repo.ByCause(ctx, s.db, r)
}

func (s *Service) ByConstituency(ctx context.Context, r domain.Range) ([]domain.ConstituencyTotal, error) {
	return s.repo.ByConstituency(ctx, s.db, r)
}

func (s *Service) Daily(ctx context.Context, r domain.Range) ([]domain.DailyTotal, error) {
	return s.repo.Daily(ctx, s.db, r)
}

func (s *Service) TopDonors(ctx context.Context, r domain.Range, limit int) ([]domain.TopDonor, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.TopDonors(ctx, s.db, r, limit)
}

func (s *Service) Retention(ctx context.Context, r domain.Range) (domain.Retention, error) {
	return s.repo.Retention(ctx, s.db, r)
}
