package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
)

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrDuplicateName = errors.New("duplicate_cause_name")
	ErrNotFound      = errors.New("cause_not_found")
)

type CreateCauseRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type UpdateCauseRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ListCauseRequest struct {
	pagination.Pagination
}

type ListCauseResponse struct {
	pagination.PageInfo
	Causes []Cause `json:"causes"`
}

type Service interface {
	Create(ctx context.Context, req CreateCauseRequest) (Cause, error)
	GetByID(ctx context.Context, id snowflake.ID) (Cause, error)
	GetByName(ctx context.Context, name string) (Cause, error)
	List(ctx context.Context, req ListCauseRequest) (ListCauseResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateCauseRequest) (Cause, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
