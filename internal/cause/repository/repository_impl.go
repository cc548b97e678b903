package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/cause/domain"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/option"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, cause *domain.Cause) error {
	return db.WithContext(ctx).Create(cause).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Cause, error) {
	var cause domain.Cause
	err := db.WithContext(ctx).Where("id = ?", id).First(&cause).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cause, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Cause, error) {
	var cause domain.Cause
	err := db.WithContext(ctx).Where("name = ?", name).First(&cause).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cause, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*domain.Cause, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Cause{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var causes []*domain.Cause
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("name asc").Find(&causes).Error; err != nil {
		return nil, 0, err
	}
	return causes, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, cause *domain.Cause) error {
	return db.WithContext(ctx).Save(cause).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM donation_causes WHERE id = ?`, id).Error
}
