package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/nyarko-dennis/donor-app-backend/internal/constituency/domain"
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
		log:   p.Log.Named("constituency.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateConstituencyRequest) (domain.Constituency, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Constituency{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	constituency := domain.Constituency{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &constituency); err != nil {
		return domain.Constituency{}, err
	}
	return constituency, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Constituency, error) {
	if id == 0 {
		return domain.Constituency{}, domain.ErrInvalidID
	}

	constituency, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Constituency{}, err
	}
	if constituency == nil {
		return domain.Constituency{}, domain.ErrNotFound
	}
	return *constituency, nil
}

func (s *Service) List(ctx context.Context, req domain.ListConstituencyRequest) (domain.ListConstituencyResponse, error) {
	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, page)
	if err != nil {
		return domain.ListConstituencyResponse{}, err
	}

	constituencies := make([]domain.Constituency, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		constituencies = append(constituencies, *item)
	}

	return domain.ListConstituencyResponse{
		PageInfo:       *pagination.BuildPageInfo(page, total),
		Constituencies: constituencies,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) CreateSub(ctx context.Context, req domain.CreateSubConstituencyRequest) (domain.SubConstituency, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.SubConstituency{}, domain.ErrInvalidName
	}
	if _, err := s.GetByID(ctx, req.ConstituencyID); err != nil {
		return domain.SubConstituency{}, err
	}

	now := s.clock.Now()
	sub := domain.SubConstituency{
		ID:             s.genID.Generate(),
		ConstituencyID: req.ConstituencyID,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.InsertSub(ctx, s.db, &sub); err != nil {
		return domain.SubConstituency{}, err
	}
	return sub, nil
}

func (s *Service) GetSubByID(ctx context.Context, id snowflake.ID) (domain.SubConstituency, error) {
	if id == 0 {
		return domain.SubConstituency{}, domain.ErrInvalidID
	}

	sub, err := s.repo.FindSubByID(ctx, s.db, id)
	if err != nil {
		return domain.SubConstituency{}, err
	}
	if sub == nil {
		return domain.SubConstituency{}, domain.ErrSubNotFound
	}
	return *sub, nil
}

func (s *Service) ListSubs(ctx context.Context, constituencyID snowflake.ID) ([]domain.SubConstituency, error) {
	if _, err := s.GetByID(ctx, constituencyID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListSubs(ctx, s.db, constituencyID)
	if err != nil {
		return nil, err
	}

	subs := make([]domain.SubConstituency, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		subs = append(subs, *item)
	}
	return subs, nil
}

func (s *Service) DeleteSub(ctx context.Context, id snowflake.ID) error {
	if _, err := s.GetSubByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteSub(ctx, s.db, id)
}
