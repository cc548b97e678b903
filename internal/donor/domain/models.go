package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Donor struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	FirstName         string        `gorm:"not null" json:"first_name"`
	LastName          string        `gorm:"not null;default:''" json:"last_name"`
	Email             string        `gorm:"not null;uniqueIndex" json:"email"`
	PhoneNumber       *string       `gorm:"column:phone_number" json:"phone_number,omitempty"`
	ConstituencyID    *snowflake.ID `gorm:"column:constituency_id" json:"constituency_id,omitempty"`
	SubConstituencyID *snowflake.ID `gorm:"column:sub_constituency_id" json:"sub_constituency_id,omitempty"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Donor) TableName() string {
	return "donors"
}
