package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/donor/domain"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/option"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, donor *domain.Donor) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO donors (id, first_name, last_name, email, phone_number, constituency_id, sub_constituency_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		donor.ID,
		donor.FirstName,
		donor.LastName,
		donor.Email,
		donor.PhoneNumber,
		donor.ConstituencyID,
		donor.SubConstituencyID,
		donor.CreatedAt,
		donor.UpdatedAt,
	).Error
}

// EnsureByEmail relies on the unique index on donors.email: the insert
// is a no-op when the email is taken, and the follow-up select returns
// the winning row either way.
func (r *repo) EnsureByEmail(ctx context.Context, db *gorm.DB, donor *domain.Donor) (*domain.Donor, error) {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO donors (id, first_name, last_name, email, phone_number, constituency_id, sub_constituency_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (email) DO NOTHING`,
		donor.ID,
		donor.FirstName,
		donor.LastName,
		donor.Email,
		donor.PhoneNumber,
		donor.ConstituencyID,
		donor.SubConstituencyID,
		donor.CreatedAt,
		donor.UpdatedAt,
	).Error
	if err != nil {
		return nil, err
	}

	return r.FindByEmail(ctx, db, donor.Email)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Donor, error) {
	var donor domain.Donor
	err := db.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, email, phone_number, constituency_id, sub_constituency_id, created_at, updated_at
		 FROM donors WHERE id = ?`,
		id,
	).Scan(&donor).Error
	if err != nil {
		return nil, err
	}
	if donor.ID == 0 {
		return nil, nil
	}
	return &donor, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Donor, error) {
	var donor domain.Donor
	err := db.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, email, phone_number, constituency_id, sub_constituency_id, created_at, updated_at
		 FROM donors WHERE email = ?`,
		email,
	).Scan(&donor).Error
	if err != nil {
		return nil, err
	}
	if donor.ID == 0 {
		return nil, nil
	}
	return &donor, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListDonorFilter, page pagination.Pagination) ([]*domain.Donor, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Donor{})
	if filter.Email != "" {
		stmt = stmt.Where("email = ?", filter.Email)
	}
	if filter.ConstituencyID != 0 {
		stmt = stmt.Where("constituency_id = ?", filter.ConstituencyID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		stmt = stmt.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donors []*domain.Donor
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("created_at desc, id desc").Find(&donors).Error; err != nil {
		return nil, 0, err
	}
	return donors, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, donor *domain.Donor) error {
	return db.WithContext(ctx).Exec(
		`UPDATE donors
		 SET first_name = ?, last_name = ?, phone_number = ?, constituency_id = ?, sub_constituency_id = ?, updated_at = ?
		 WHERE id = ?`,
		donor.FirstName,
		donor.LastName,
		donor.PhoneNumber,
		donor.ConstituencyID,
		donor.SubConstituencyID,
		donor.UpdatedAt,
		donor.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM donors WHERE id = ?`, id).Error
}
