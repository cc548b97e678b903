package domain

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrProviderNotFound   = errors.New("provider_not_found")
	ErrInvalidConfig      = errors.New("invalid_provider_config")
	ErrInvalidSignature   = errors.New("invalid_webhook_signature")
	ErrGatewayUnavailable = errors.New("gateway_unavailable")
	ErrGatewayDeclined    = errors.New("gateway_declined")
)

// InitializeRequest asks the gateway to open a checkout session for a
// reference this system already persisted.
type InitializeRequest struct {
	Reference string
	Email     string
	// Amount is in major units; adapters convert to the gateway's
	// minor-unit representation.
	Amount   float64
	Currency string
	Metadata map[string]any
}

type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
	Raw              []byte
}

type VerifyResponse struct {
	Reference string
	Status    string
	Amount    float64
	Currency  string
	PaidAt    string
	Raw       []byte
}

// Provider is the capability a payment gateway must offer to
// participate in the donation workflow.
type Provider interface {
	Provider() string
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)
	VerifyWebhookSignature(payload []byte, headers http.Header) error
}
