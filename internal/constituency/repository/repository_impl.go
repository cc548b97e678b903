package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/constituency/domain"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/option"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, constituency *domain.Constituency) error {
	return db.WithContext(ctx).Create(constituency).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Constituency, error) {
	var constituency domain.Constituency
	err := db.WithContext(ctx).Where("id = ?", id).First(&constituency).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &constituency, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*domain.Constituency, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Constituency{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var constituencies []*domain.Constituency
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("name asc").Find(&constituencies).Error; err != nil {
		return nil, 0, err
	}
	return constituencies, total, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM constituencies WHERE id = ?`, id).Error
}

func (r *repo) InsertSub(ctx context.Context, db *gorm.DB, sub *domain.SubConstituency) error {
	return db.WithContext(ctx).Create(sub).Error
}

func (r *repo) FindSubByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.SubConstituency, error) {
	var sub domain.SubConstituency
	err := db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repo) ListSubs(ctx context.Context, db *gorm.DB, constituencyID snowflake.ID) ([]*domain.SubConstituency, error) {
	var subs []*domain.SubConstituency
	err := db.WithContext(ctx).
		Where("constituency_id = ?", constituencyID).
		Order("name asc").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) DeleteSub(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM sub_constituencies WHERE id = ?`, id).Error
}
