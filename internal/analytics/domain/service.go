package domain

import (
	"context"
	"time"
)

type Summary struct {
	TotalAmount    float64 `json:"total_amount"`
	DonationCount  int64   `json:"donation_count"`
	DonorCount     int64   `json:"donor_count"`
	PendingCount   int64   `json:"pending_count"`
	FailedCount    int64   `json:"failed_count"`
	AverageAmount  float64 `json:"average_amount"`
	LargestAmount  float64 `json:"largest_amount"`
	SmallestAmount float64 `json:"smallest_amount"`
}

type CampaignTotal struct {
	CampaignID    string  `json:"campaign_id"`
	CampaignName  string  `json:"campaign_name"`
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int64   `json:"donation_count"`
}

type CauseTotal struct {
	CauseID       string  `json:"cause_id"`
	CauseName     string  `json:"cause_name"`
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int64   `json:"donation_count"`
}

type ConstituencyTotal struct {
	ConstituencyID   string  `json:"constituency_id"`
	ConstituencyName string  `json:"constituency_name"`
	TotalAmount      float64 `json:"total_amount"`
	DonationCount    int64   `json:"donation_count"`
}

type DailyTotal struct {
	Day           time.Time `json:"day"`
	TotalAmount   float64   `json:"total_amount"`
	DonationCount int64     `json:"donation_count"`
}

type TopDonor struct {
	DonorID       string  `json:"donor_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	TotalAmount   float64 `json:"total_amount"`
	DonationCount int64   `json:"donation_count"`
}

type Retention struct {
	OneTimeDonors   int64 `json:"one_time_donors"`
	ReturningDonors int64 `json:"returning_donors"`
}

type Range struct {
	From *time.Time
	To   *time.Time
}

// Service aggregates confirmed donations. Only SUCCESS transactions
// count toward totals.
type Service interface {
	Summary(ctx context.Context, r Range) (Summary, error)
	ByCampaign(ctx context.Context, r Range) ([]CampaignTotal, error)
	ByCause(ctx context.Context, r Range) ([]CauseTotal, error)
	ByConstituency(ctx context.Context, r Range) ([]ConstituencyTotal, error)
	Daily(ctx context.Context, r Range) ([]DailyTotal, error)
	TopDonors(ctx context.Context, r Range, limit int) ([]TopDonor, error)
	Retention(ctx context.Context, r Range) (Retention, error)
}
