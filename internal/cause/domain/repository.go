package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, cause *Cause) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Cause, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Cause, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*Cause, int64, error)
	Update(ctx context.Context, db *gorm.DB, cause *Cause) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
