package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/nyarko-dennis/donor-app-backend/internal/donor/domain"
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
		log:   p.Log.Named("donor.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDonorRequest) (domain.Donor, error) {
	donor, err := s.build(req)
	if err != nil {
		return domain.Donor{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &donor); err != nil {
		return domain.Donor{}, err
	}
	return donor, nil
}

func (s *Service) EnsureByEmail(ctx context.Context, tx *gorm.DB, req domain.CreateDonorRequest) (domain.Donor, error) {
	if tx == nil {
		tx = s.db
	}

	donor, err := s.build(req)
	if err != nil {
		return domain.Donor{}, err
	}

	existing, err := s.repo.EnsureByEmail(ctx, tx, &donor)
	if err != nil {
		return domain.Donor{}, err
	}
	if existing == nil {
		return domain.Donor{}, domain.ErrNotFound
	}
	return *existing, nil
}

func (s *Service) build(req domain.CreateDonorRequest) (domain.Donor, error) {
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return domain.Donor{}, domain.ErrInvalidName
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		return domain.Donor{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now()
	return domain.Donor{
		ID:                s.genID.Generate(),
		FirstName:         firstName,
		LastName:          strings.TrimSpace(req.LastName),
		Email:             email,
		PhoneNumber:       req.PhoneNumber,
		ConstituencyID:    req.ConstituencyID,
		SubConstituencyID: req.SubConstituencyID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Donor, error) {
	if id == 0 {
		return domain.Donor{}, domain.ErrInvalidID
	}

	donor, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Donor{}, err
	}
	if donor == nil {
		return domain.Donor{}, domain.ErrNotFound
	}
	return *donor, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDonorRequest) (domain.ListDonorResponse, error) {
	filter := domain.ListDonorFilter{
		Email:  normalizeEmail(req.Email),
		Search: strings.TrimSpace(req.Search),
	}
	if trimmed := strings.TrimSpace(req.ConstituencyID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListDonorResponse{}, domain.ErrInvalidID
		}
		filter.ConstituencyID = id
	}

	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListDonorResponse{}, err
	}

	donors := make([]domain.Donor, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		donors = append(donors, *item)
	}

	return domain.ListDonorResponse{
		PageInfo: *pagination.BuildPageInfo(page, total),
		Donors:   donors,
	}, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateDonorRequest) (domain.Donor, error) {
	donor, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Donor{}, err
	}

	if req.FirstName != nil {
		firstName := strings.TrimSpace(*req.FirstName)
		if firstName == "" {
			return domain.Donor{}, domain.ErrInvalidName
		}
		donor.FirstName = firstName
	}
	if req.LastName != nil {
		donor.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.PhoneNumber != nil {
		donor.PhoneNumber = req.PhoneNumber
	}
	if req.ConstituencyID != nil {
		donor.ConstituencyID = req.ConstituencyID
	}
	if req.SubConstituencyID != nil {
		donor.SubConstituencyID = req.SubConstituencyID
	}
	donor.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, &donor); err != nil {
		return domain.Donor{}, err
	}
	return donor, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, id)
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	return email
}
