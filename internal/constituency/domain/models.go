package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Constituency struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Constituency) TableName() string {
	return "constituencies"
}

type SubConstituency struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	ConstituencyID snowflake.ID `gorm:"not null;index" json:"constituency_id"`
	Name           string       `gorm:"not null" json:"name"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SubConstituency) TableName() string {
	return "sub_constituencies"
}
