package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, donor *Donor) error
	// EnsureByEmail inserts the donor unless a row with the same email
	// already exists, then returns whichever row owns the email. Atomic
	// under concurrent first-time donations.
	EnsureByEmail(ctx context.Context, db *gorm.DB, donor *Donor) (*Donor, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Donor, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Donor, error)
	List(ctx context.Context, db *gorm.DB, filter ListDonorFilter, page pagination.Pagination) ([]*Donor, int64, error)
	Update(ctx context.Context, db *gorm.DB, donor *Donor) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
