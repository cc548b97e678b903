package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository interface {
	InsertDonation(ctx context.Context, db *gorm.DB, donation *Donation) error
	InsertTransaction(ctx context.Context, db *gorm.DB, transaction *Transaction) error

	FindDonationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Donation, error)
	FindTransactionByReference(ctx context.Context, db *gorm.DB, reference string) (*Transaction, error)
	FindTransactionByDonationID(ctx context.Context, db *gorm.DB, donationID snowflake.ID) (*Transaction, error)

	// MarkTransactionStatus transitions a PENDING transaction and
	// reports whether this call won the transition. Already-settled
	// rows are untouched.
	MarkTransactionStatus(ctx context.Context, db *gorm.DB, reference string, status TransactionStatus, response datatypes.JSON, now time.Time) (bool, error)

	// SaveProviderResponse attaches the gateway's raw reply without
	// touching the status.
	SaveProviderResponse(ctx context.Context, db *gorm.DB, reference string, response datatypes.JSON, now time.Time) error

	List(ctx context.Context, db *gorm.DB, filter ListDonationFilter, page pagination.Pagination) ([]*DonationWithTransaction, int64, error)
	UpdateDonation(ctx context.Context, db *gorm.DB, donation *Donation) error
	SoftDeleteDonation(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
