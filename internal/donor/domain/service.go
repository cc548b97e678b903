package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("donor_not_found")
)

type CreateDonorRequest struct {
	FirstName         string        `json:"first_name"`
	LastName          string        `json:"last_name"`
	Email             string        `json:"email"`
	PhoneNumber       *string       `json:"phone_number,omitempty"`
	ConstituencyID    *snowflake.ID `json:"constituency_id,omitempty"`
	SubConstituencyID *snowflake.ID `json:"sub_constituency_id,omitempty"`
}

type UpdateDonorRequest struct {
	FirstName         *string       `json:"first_name,omitempty"`
	LastName          *string       `json:"last_name,omitempty"`
	PhoneNumber       *string       `json:"phone_number,omitempty"`
	ConstituencyID    *snowflake.ID `json:"constituency_id,omitempty"`
	SubConstituencyID *snowflake.ID `json:"sub_constituency_id,omitempty"`
}

type ListDonorRequest struct {
	pagination.Pagination
	Email          string `form:"email"`
	ConstituencyID string `form:"constituency_id"`
	Search         string `form:"search"`
}

type ListDonorFilter struct {
	Email          string
	ConstituencyID snowflake.ID
	Search         string
}

type ListDonorResponse struct {
	pagination.PageInfo
	Donors []Donor `json:"donors"`
}

type Service interface {
	Create(ctx context.Context, req CreateDonorRequest) (Donor, error)
	// EnsureByEmail is the lookup-or-create used by donation initiation;
	// tx scopes the write to the caller's transaction when non-nil.
	EnsureByEmail(ctx context.Context, tx *gorm.DB, req CreateDonorRequest) (Donor, error)
	GetByID(ctx context.Context, id snowflake.ID) (Donor, error)
	List(ctx context.Context, req ListDonorRequest) (ListDonorResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateDonorRequest) (Donor, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
