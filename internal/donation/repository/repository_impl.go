package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/donation/domain"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/option"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertDonation(ctx context.Context, db *gorm.DB, donation *domain.Donation) error {
	return db.WithContext(ctx).Create(donation).Error
}

func (r *repo) InsertTransaction(ctx context.Context, db *gorm.DB, transaction *domain.Transaction) error {
	return db.WithContext(ctx).Create(transaction).Error
}

func (r *repo) FindDonationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Donation, error) {
	var donation domain.Donation
	err := db.WithContext(ctx).Where("id = ?", id).First(&donation).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (r *repo) FindTransactionByReference(ctx context.Context, db *gorm.DB, reference string) (*domain.Transaction, error) {
	var transaction domain.Transaction
	err := db.WithContext(ctx).Where("reference = ?", reference).First(&transaction).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *repo) FindTransactionByDonationID(ctx context.Context, db *gorm.DB, donationID snowflake.ID) (*domain.Transaction, error) {
	var transaction domain.Transaction
	err := db.WithContext(ctx).Where("donation_id = ?", donationID).First(&transaction).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &transaction, nil
}

// MarkTransactionStatus is a guarded update: only a PENDING row moves,
// so the transition happens exactly once no matter how many webhook
// deliveries race.
func (r *repo) MarkTransactionStatus(ctx context.Context, db *gorm.DB, reference string, status domain.TransactionStatus, response datatypes.JSON, now time.Time) (bool, error) {
	stmt := db.WithContext(ctx).Exec(
		`UPDATE transactions
		 SET status = ?, provider_response = COALESCE(?, provider_response), updated_at = ?
		 WHERE reference = ? AND status = ?`,
		status,
		response,
		now,
		reference,
		domain.TransactionStatusPending,
	)
	if stmt.Error != nil {
		return false, stmt.Error
	}
	return stmt.RowsAffected > 0, nil
}

func (r *repo) SaveProviderResponse(ctx context.Context, db *gorm.DB, reference string, response datatypes.JSON, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE transactions SET provider_response = ?, updated_at = ? WHERE reference = ?`,
		response,
		now,
		reference,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListDonationFilter, page pagination.Pagination) ([]*domain.DonationWithTransaction, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Donation{})
	if filter.CampaignID != 0 {
		stmt = stmt.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.DonorID != 0 {
		stmt = stmt.Where("donor_id = ?", filter.DonorID)
	}
	if filter.Status != "" {
		stmt = stmt.Where(
			"id IN (SELECT donation_id FROM transactions WHERE status = ?)",
			filter.Status,
		)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donations []*domain.Donation
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("created_at desc, id desc").Find(&donations).Error; err != nil {
		return nil, 0, err
	}
	if len(donations) == 0 {
		return nil, total, nil
	}

	ids := make([]snowflake.ID, 0, len(donations))
	for _, donation := range donations {
		ids = append(ids, donation.ID)
	}

	var transactions []domain.Transaction
	if err := db.WithContext(ctx).Where("donation_id IN ?", ids).Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	byDonation := make(map[snowflake.ID]*domain.Transaction, len(transactions))
	for i := range transactions {
		byDonation[transactions[i].DonationID] = &transactions[i]
	}

	result := make([]*domain.DonationWithTransaction, 0, len(donations))
	for _, donation := range donations {
		result = append(result, &domain.DonationWithTransaction{
			Donation:    *donation,
			Transaction: byDonation[donation.ID],
		})
	}
	return result, total, nil
}

func (r *repo) UpdateDonation(ctx context.Context, db *gorm.DB, donation *domain.Donation) error {
	return db.WithContext(ctx).Exec(
		`UPDATE donations
		 SET amount = ?, currency = ?, payment_method = ?, cause_id = ?, updated_at = ?
		 WHERE id = ?`,
		donation.Amount,
		donation.Currency,
		donation.PaymentMethod,
		donation.CauseID,
		donation.UpdatedAt,
		donation.ID,
	).Error
}

func (r *repo) SoftDeleteDonation(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Donation{}).Error
}
