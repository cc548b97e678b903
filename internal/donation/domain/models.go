package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Donation is the pledge. Confirmation state lives on the linked
// Transaction, which is the single source of truth.
type Donation struct {
	ID                snowflake.ID   `gorm:"primaryKey" json:"id"`
	DonorID           snowflake.ID   `gorm:"not null;index" json:"donor_id"`
	CampaignID        snowflake.ID   `gorm:"not null;index" json:"campaign_id"`
	CauseID           *snowflake.ID  `gorm:"column:cause_id" json:"cause_id,omitempty"`
	ConstituencyID    *snowflake.ID  `gorm:"column:constituency_id" json:"constituency_id,omitempty"`
	SubConstituencyID *snowflake.ID  `gorm:"column:sub_constituency_id" json:"sub_constituency_id,omitempty"`
	Amount            float64        `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency          string         `gorm:"type:varchar(3);not null" json:"currency"`
	PaymentMethod     string         `gorm:"column:payment_method;not null" json:"payment_method"`
	CreatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Donation) TableName() string {
	return "donations"
}

// Transaction is one gateway settlement attempt. The reference is
// minted by this system before any external call, so a durable row
// always exists for the gateway to reconcile against.
type Transaction struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	DonationID       snowflake.ID      `gorm:"not null;uniqueIndex" json:"donation_id"`
	Reference        string            `gorm:"not null;uniqueIndex" json:"reference"`
	Provider         string            `gorm:"not null" json:"provider"`
	Status           TransactionStatus `gorm:"not null;default:'PENDING'" json:"status"`
	IdempotencyKey   string            `gorm:"column:idempotency_key;not null" json:"idempotency_key"`
	ProviderResponse datatypes.JSON    `gorm:"column:provider_response" json:"provider_response,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
