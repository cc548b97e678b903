package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
)

// TopicDonationProcessing is the queue topic post-donation work rides on.
const TopicDonationProcessing = "donation-processing"

var (
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrInvalidMethod      = errors.New("invalid_payment_method")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("donation_not_found")
	ErrNotEditable        = errors.New("donation_not_editable")
	ErrProviderNotFound   = errors.New("provider_not_found")
	ErrGatewayUnavailable = errors.New("gateway_unavailable")
)

type InitiateDonationRequest struct {
	CampaignID        snowflake.ID  `json:"campaign_id"`
	CauseID           *snowflake.ID `json:"cause_id,omitempty"`
	Amount            float64       `json:"amount"`
	Currency          string        `json:"currency,omitempty"`
	PaymentMethod     string        `json:"payment_method,omitempty"`
	Provider          string        `json:"provider,omitempty"`
	FirstName         string        `json:"first_name"`
	LastName          string        `json:"last_name,omitempty"`
	Email             string        `json:"email"`
	PhoneNumber       *string       `json:"phone_number,omitempty"`
	ConstituencyID    *snowflake.ID `json:"constituency_id,omitempty"`
	SubConstituencyID *snowflake.ID `json:"sub_constituency_id,omitempty"`
}

type InitiateDonationResponse struct {
	DonationID       snowflake.ID `json:"donation_id"`
	Reference        string       `json:"reference"`
	Amount           float64      `json:"amount"`
	Email            string       `json:"email"`
	AuthorizationURL string       `json:"authorization_url,omitempty"`
	AccessCode       string       `json:"access_code,omitempty"`
}

// ProcessingPayload is the job body published on TopicDonationProcessing.
type ProcessingPayload struct {
	DonationID snowflake.ID `json:"donation_id"`
	Amount     float64      `json:"amount"`
	DonorID    snowflake.ID `json:"donor_id"`
	Email      string       `json:"email"`
}

type CreateDonationRequest struct {
	CampaignID        snowflake.ID  `json:"campaign_id"`
	CauseID           *snowflake.ID `json:"cause_id,omitempty"`
	Amount            float64       `json:"amount"`
	Currency          string        `json:"currency,omitempty"`
	PaymentMethod     string        `json:"payment_method"`
	FirstName         string        `json:"first_name"`
	LastName          string        `json:"last_name,omitempty"`
	Email             string        `json:"email"`
	PhoneNumber       *string       `json:"phone_number,omitempty"`
	ConstituencyID    *snowflake.ID `json:"constituency_id,omitempty"`
	SubConstituencyID *snowflake.ID `json:"sub_constituency_id,omitempty"`
}

type UpdateDonationRequest struct {
	Amount        *float64      `json:"amount,omitempty"`
	Currency      *string       `json:"currency,omitempty"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	CauseID       *snowflake.ID `json:"cause_id,omitempty"`
}

type ListDonationRequest struct {
	pagination.Pagination
	CampaignID string `form:"campaign_id"`
	DonorID    string `form:"donor_id"`
	Status     string `form:"status"`
}

type ListDonationFilter struct {
	CampaignID snowflake.ID
	DonorID    snowflake.ID
	Status     TransactionStatus
}

type DonationWithTransaction struct {
	Donation
	Transaction *Transaction `json:"transaction,omitempty"`
}

type ListDonationResponse struct {
	pagination.PageInfo
	Donations []DonationWithTransaction `json:"donations"`
}

type VerifyDonationResponse struct {
	Reference     string            `json:"reference"`
	Status        TransactionStatus `json:"status"`
	GatewayStatus string            `json:"gateway_status,omitempty"`
	Amount        float64           `json:"amount"`
}

type Service interface {
	// Initiate creates the pending Donation/Transaction pair, then asks
	// the gateway for a checkout session. A gateway failure marks the
	// pair FAILED and surfaces the original error.
	Initiate(ctx context.Context, req InitiateDonationRequest) (InitiateDonationResponse, error)

	// HandleSuccess reconciles an authenticated charge.success event.
	// Safe to call any number of times for the same reference.
	HandleSuccess(ctx context.Context, reference, provider string) error

	// VerifyByReference re-checks a reference against the gateway and
	// reconciles if the gateway reports success.
	VerifyByReference(ctx context.Context, reference string) (VerifyDonationResponse, error)

	Create(ctx context.Context, req CreateDonationRequest) (DonationWithTransaction, error)
	GetByID(ctx context.Context, id snowflake.ID) (DonationWithTransaction, error)
	List(ctx context.Context, req ListDonationRequest) (ListDonationResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateDonationRequest) (DonationWithTransaction, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
