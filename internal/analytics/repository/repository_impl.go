package repository

import (
	"context"

	"github.com/nyarko-dennis/donor-app-backend/internal/analytics/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Summary(ctx context.Context, db *gorm.DB, r domain.Range) (domain.Summary, error)
	ByCampaign(ctx context.Context, db *gorm.DB, r domain.Range) ([]domain.CampaignTotal, error)
	ByCause(ctx context.Context, db *gorm.DB, r domain.Range) ([]domain.CauseTotal, error)
	ByConstituency(ctx context.Context, db *gorm.DB, r domain.Range) ([]domain.ConstituencyTotal, error)
	Daily(ctx context.Context, db *gorm.DB, r domain.Range) ([]domain.DailyTotal, error)
	TopDonors(ctx context.Context, db *gorm.DB, r domain.Range, limit int) ([]domain.TopDonor, error)
	Retention(ctx context.Context, db *gorm.DB, r domain.Range) (domain.Retention, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

const confirmedJoin = `
	FROM donations d
	JOIN transactions t ON t.donation_id = d.id AND t.status = 'SUCCESS'
	WHERE d.deleted_at IS NULL`

func rangeClause(r domain.Range) (string, []any) {
	clause := ""
	args := []any{}
	if r.From != nil {
		clause += " AND d.created_at >= ?"
		args = append(args, *r.From)
	}
	if r.To != nil {
		clause += " AND d.created_at <= ?"
		args = append(args, *r.To)
	}
	return clause, args
}

func (q *repo) Summary(ctx context.Context, db *gorm.DB, r domain.Range) (domain.Summary, error) {
	clause, args := rangeClause(r)

	var summary domain.Summary
	err := db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(d.amount), 0) AS total_amount,
			COUNT(d.id) AS donation_count,
			COUNT(DISTINCT d.donor_id) AS donor_count,
			COALESCE(AVG(d.amount), 0) AS average_amount,
			COALESCE(MAX(d.amount), 0) AS largest_amount,
			COALESCE(MIN(d.amount), 0) AS smallest_amount`+
			confirmedJoin+clause,
		args...,
	).Scan(&summary).Error
	if err != nil {
		return domain.Summary{}, err
	}

	statusCounts := []struct {
		Status string
		Count  int64
	}{}
	err = db.WithContext(ctx).Raw(
		`SELECT t.status AS status, COUNT(1) AS count
		 FROM donations d
		 JOIN transactions t ON t.donation_id = d.id
		 WHERE d.deleted_at IS NULL`+clause+`
		 GROUP BY t.status`,
		args...,
	).Scan(&statusCounts).Error
	if err != nil {
		return domain.Summary{}, err
	}
	for _, row := range statusCounts {
		switch row.Status {
		case "PENDING":
			summary.PendingCount = row.Count
		case "FAILED":
			summary.FailedCount = row.Count
		}
	}
	return summary, nil
}

func (q *repo) ByCampaign(ctx context.Context, db *gorm.DB, r domain.Range) ([]domain.CampaignTotal, error) {
	clause, args := rangeClause(r)

	var totals []domain.CampaignTotal
	err := db.WithContext(ctx).Raw(
		`SELECT
			d.campaign_id AS campaign_id,
			c.name AS campaign_name,
			COALESCE(SUM(d.amount), 0) AS total_amount,
			COUNT(d.id) AS donation_count
		 FROM donations d
		 JOIN transactions t ON t.donation_id = d.id AND t.status = 'SUCCESS'
		 JOIN campaigns c ON c.id = d.campaign_id
		 WHERE d.deleted_at IS NULL`+clause+`
		 GROUP BY d.campaign_id, c.name
		 ORDER BY total_amount DESC`,
		args...,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (q *repo) ByCause(ctx context.Context, db *gorm.DB, r domain.Range) ([]domain.CauseTotal, error) {
	clause, args := rangeClause(r)

	var totals []domain.CauseTotal
	err := db.WithContext(ctx).Raw(
		`SELECT
			d.cause_id AS cause_id,
			dc.name AS cause_name,
			COALESCE(SUM(d.amount), 0) AS total_amount,
			COUNT(d.id) AS donation_count
		 FROM donations d
		 JOIN transactions t ON t.donation_id = d.id AND t.status = 'SUCCESS'
		 JOIN donation_causes dc ON dc.id = d.cause_id
		 WHERE d.deleted_at IS NULL`+clause+`
		 GROUP BY d.cause_id, dc.name
		 ORDER BY total_amount DESC`,
		args...,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (q *repo) ByConstituency(ctx context.Context, db *gorm.DB, r domain.Range) ([]domain.ConstituencyTotal, error) {
	clause, args := rangeClause(r)

	var totals []domain.ConstituencyTotal
	err := db.WithContext(ctx).Raw(
		`SELECT
			d.constituency_id AS constituency_id,
			co.name AS constituency_name,
			COALESCE(SUM(d.amount), 0) AS total_amount,
			COUNT(d.id) AS donation_count
		 FROM donations d
		 JOIN transactions t ON t.donation_id = d.id AND t.status = 'SUCCESS'
		 JOIN constituencies co ON co.id = d.constituency_id
		 WHERE d.deleted_at IS NULL`+clause+`
		 GROUP BY d.constituency_id, co.name
		 ORDER BY total_amount DESC`,
		args...,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (q *repo) TopDonors(ctx context.Context, db *gorm.DB, r domain.Range, limit int) ([]domain.TopDonor, error) {
	clause, args := rangeClause(r)
	args = append(args, limit)

	var donors []domain.TopDonor
	err := db.WithContext(ctx).Raw(
		`SELECT
			d.donor_id AS donor_id,
			dn.first_name AS first_name,
			dn.last_name AS last_name,
			dn.email AS email,
			COALESCE(SUM(d.amount), 0) AS total_amount,
			COUNT(d.id) AS donation_count
		 FROM donations d
		 JOIN transactions t ON t.donation_id = d.id AND t.status = 'SUCCESS'
		 JOIN donors dn ON dn.id = d.donor_id
		 WHERE d.deleted_at IS NULL`+clause+`
		 GROUP BY d.donor_id, dn.first_name, dn.last_name, dn.email
		 ORDER BY total_amount DESC
		 LIMIT ?`,
		args...,
	).Scan(&donors).Error
	if err != nil {
		return nil, err
	}
	return donors, nil
}

func (q *repo) Retention(ctx context.Context, db *gorm.DB, r domain.Range) (domain.Retention, error) {
	clause, args := rangeClause(r)

	var retention domain.Retention
	err := db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(CASE WHEN per_donor.cnt = 1 THEN 1 ELSE 0 END), 0) AS one_time_donors,
			COALESCE(SUM(CASE WHEN per_donor.cnt > 1 THEN 1 ELSE 0 END), 0) AS returning_donors
		 FROM (
			SELECT d.donor_id, COUNT(d.id) AS cnt
			FROM donations d
			JOIN transactions t ON t.donation_id = d.id AND t.status = 'SUCCESS'
			WHERE d.deleted_at IS NULL`+clause+`
			GROUP BY d.donor_id
		 ) per_donor`,
		args...,
	).Scan(&retention).Error
	if err != nil {
		return domain.Retention{}, err
	}
	return retention, nil
}

func (q *repo) Daily(ctx context.Context, db *gorm.DB, r domain.Range) ([]domain.DailyTotal, error) {
	clause, args := rangeClause(r)

	var totals []domain.DailyTotal
	err := db.WithContext(ctx).Raw(
		`SELECT
			DATE(d.created_at) AS day,
			COALESCE(SUM(d.amount), 0) AS total_amount,
			COUNT(d.id) AS donation_count
		 FROM donations d
		 JOIN transactions t ON t.donation_id = d.id AND t.status = 'SUCCESS'
		 WHERE d.deleted_at IS NULL`+clause+`
		 GROUP BY DATE(d.created_at)
		 ORDER BY day ASC`,
		args...,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
