package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/cause/domain"
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
		log:   p.Log.Named("cause.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCauseRequest) (domain.Cause, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Cause{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	cause := domain.Cause{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &cause); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Cause{}, domain.ErrDuplicateName
		}
		return domain.Cause{}, err
	}
	return cause, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Cause, error) {
	if id == 0 {
		return domain.Cause{}, domain.ErrInvalidID
	}

	cause, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Cause{}, err
	}
	if cause == nil {
		return domain.Cause{}, domain.ErrNotFound
	}
	return *cause, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (domain.Cause, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Cause{}, domain.ErrInvalidName
	}

	cause, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return domain.Cause{}, err
	}
	if cause == nil {
		return domain.Cause{}, domain.ErrNotFound
	}
	return *cause, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCauseRequest) (domain.ListCauseResponse, error) {
	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, page)
	if err != nil {
		return domain.ListCauseResponse{}, err
	}

	causes := make([]domain.Cause, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		causes = append(causes, *item)
	}

	return domain.ListCauseResponse{
		PageInfo: *pagination.BuildPageInfo(page, total),
		Causes:   causes,
	}, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateCauseRequest) (domain.Cause, error) {
	cause, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Cause{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Cause{}, domain.ErrInvalidName
		}
		cause.Name = name
	}
	if req.Description != nil {
		cause.Description = req.Description
	}
	cause.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, &cause); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Cause{}, domain.ErrDuplicateName
		}
		return domain.Cause{}, err
	}
	return cause, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}
