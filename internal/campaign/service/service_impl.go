package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/nyarko-dennis/donor-app-backend/internal/campaign/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("campaign.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCampaignRequest) (domain.Campaign, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Campaign{}, domain.ErrInvalidName
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return domain.Campaign{}, domain.ErrInvalidDates
	}

	now := s.clock.Now()
	campaign := domain.Campaign{
		ID:           s.genID.Generate(),
		Name:         name,
		Slug:         slug.Make(name),
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &campaign); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Campaign{}, domain.ErrDuplicateSlug
		}
		return domain.Campaign{}, err
	}
	return campaign, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Campaign, error) {
	if id == 0 {
		return domain.Campaign{}, domain.ErrInvalidID
	}

	campaign, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Campaign{}, err
	}
	if campaign == nil {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return *campaign, nil
}

func (s *Service) GetBySlug(ctx context.Context, slugValue string) (domain.Campaign, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return domain.Campaign{}, domain.ErrInvalidID
	}

	campaign, err := s.repo.FindBySlug(ctx, s.db, slugValue)
	if err != nil {
		return domain.Campaign{}, err
	}
	if campaign == nil {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return *campaign, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCampaignRequest) (domain.ListCampaignResponse, error) {
	filter := domain.ListCampaignFilter{
		ActiveOnly: req.ActiveOnly,
		Search:     strings.TrimSpace(req.Search),
	}

	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListCampaignResponse{}, err
	}

	campaigns := make([]domain.Campaign, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		campaigns = append(campaigns, *item)
	}

	return domain.ListCampaignResponse{
		PageInfo:  *pagination.BuildPageInfo(page, total),
		Campaigns: campaigns,
	}, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateCampaignRequest) (domain.Campaign, error) {
	campaign, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Campaign{}, domain.ErrInvalidName
		}
		campaign.Name = name
		campaign.Slug = slug.Make(name)
	}
	if req.Description != nil {
		campaign.Description = req.Description
	}
	if req.TargetAmount != nil {
		campaign.TargetAmount = req.TargetAmount
	}
	if req.StartDate != nil {
		campaign.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		campaign.EndDate = req.EndDate
	}
	if campaign.StartDate != nil && campaign.EndDate != nil && campaign.EndDate.Before(*campaign.StartDate) {
		return domain.Campaign{}, domain.ErrInvalidDates
	}
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}
	campaign.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, &campaign); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Campaign{}, domain.ErrDuplicateSlug
		}
		return domain.Campaign{}, err
	}
	return campaign, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, s.db, id)
}
