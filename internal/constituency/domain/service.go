package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
)

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("constituency_not_found")
	ErrSubNotFound = errors.New("sub_constituency_not_found")
)

type CreateConstituencyRequest struct {
	Name string `json:"name"`
}

type CreateSubConstituencyRequest struct {
	ConstituencyID snowflake.ID `json:"constituency_id"`
	Name           string       `json:"name"`
}

type ListConstituencyRequest struct {
	pagination.Pagination
}

type ListConstituencyResponse struct {
	pagination.PageInfo
	Constituencies []Constituency `json:"constituencies"`
}

type Service interface {
	Create(ctx context.Context, req CreateConstituencyRequest) (Constituency, error)
	GetByID(ctx context.Context, id snowflake.ID) (Constituency, error)
	List(ctx context.Context, req ListConstituencyRequest) (ListConstituencyResponse, error)
	Delete(ctx context.Context, id snowflake.ID) error

	CreateSub(ctx context.Context, req CreateSubConstituencyRequest) (SubConstituency, error)
	GetSubByID(ctx context.Context, id snowflake.ID) (SubConstituency, error)
	ListSubs(ctx context.Context, constituencyID snowflake.ID) ([]SubConstituency, error)
	DeleteSub(ctx context.Context, id snowflake.ID) error
}
