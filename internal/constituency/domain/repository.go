package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, constituency *Constituency) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Constituency, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*Constituency, int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertSub(ctx context.Context, db *gorm.DB, sub *SubConstituency) error
	FindSubByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SubConstituency, error)
	ListSubs(ctx context.Context, db *gorm.DB, constituencyID snowflake.ID) ([]*SubConstituency, error)
	DeleteSub(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
