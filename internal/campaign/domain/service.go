package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
)

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidDates  = errors.New("invalid_date_range")
	ErrDuplicateSlug = errors.New("duplicate_slug")
	ErrNotFound      = errors.New("campaign_not_found")
)

type CreateCampaignRequest struct {
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	TargetAmount *float64   `json:"target_amount,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

type UpdateCampaignRequest struct {
	Name         *string    `json:"name,omitempty"`
	Description  *string    `json:"description,omitempty"`
	TargetAmount *float64   `json:"target_amount,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
}

type ListCampaignRequest struct {
	pagination.Pagination
	ActiveOnly bool   `form:"active_only"`
	Search     string `form:"search"`
}

type ListCampaignFilter struct {
	ActiveOnly bool
	Search     string
}

type ListCampaignResponse struct {
	pagination.PageInfo
	Campaigns []Campaign `json:"campaigns"`
}

type Service interface {
	Create(ctx context.Context, req CreateCampaignRequest) (Campaign, error)
	GetByID(ctx context.Context, id snowflake.ID) (Campaign, error)
	GetBySlug(ctx context.Context, slug string) (Campaign, error)
	List(ctx context.Context, req ListCampaignRequest) (ListCampaignResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateCampaignRequest) (Campaign, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
