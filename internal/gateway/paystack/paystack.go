package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/nyarko-dennis/donor-app-backend/internal/gateway/domain"
)

const (
	providerName    = "paystack"
	signatureHeader = "x-paystack-signature"
	defaultBaseURL  = "https://api.paystack.co"
)

type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

type Adapter struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func New(cfg Config) (*Adapter, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, domain.ErrInvalidConfig
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Adapter{
		secretKey: secret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (a *Adapter) Provider() string {
	return providerName
}

type initializeRequest struct {
	Email     string         `json:"email"`
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency,omitempty"`
	Reference string         `json:"reference"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	PaidAt    string  `json:"paid_at"`
	Fees      float64 `json:"fees"`
}

// Initialize opens a checkout session. Amounts are sent in minor units
// (pesewas/kobo), so the major-unit amount is multiplied by 100.
func (a *Adapter) Initialize(ctx context.Context, req domain.InitializeRequest) (*domain.InitializeResponse, error) {
	payload := initializeRequest{
		Email:     req.Email,
		Amount:    toMinorUnits(req.Amount),
		Currency:  strings.ToUpper(strings.TrimSpace(req.Currency)),
		Reference: req.Reference,
		Metadata:  req.Metadata,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode initialize request: %w", err)
	}

	raw, err := a.post(ctx, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	envelope, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}

	var data initializeData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("decode initialize response: %w", err)
	}

	return &domain.InitializeResponse{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
		Raw:              raw,
	}, nil
}

// Verify fetches the settlement state for a reference.
func (a *Adapter) Verify(ctx context.Context, reference string) (*domain.VerifyResponse, error) {
	raw, err := a.get(ctx, "/transaction/verify/"+reference)
	if err != nil {
		return nil, err
	}

	envelope, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}

	var data verifyData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	return &domain.VerifyResponse{
		Reference: data.Reference,
		Status:    data.Status,
		Amount:    fromMinorUnits(data.Amount),
		Currency:  data.Currency,
		PaidAt:    data.PaidAt,
		Raw:       raw,
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 of the exact raw body
// bytes against the signature header. Re-serialized JSON is never
// byte-identical to the original, so callers must pass the unmodified
// body.
func (a *Adapter) VerifyWebhookSignature(payload []byte, headers http.Header) error {
	signature := strings.TrimSpace(headers.Get(signatureHeader))
	if signature == "" {
		return domain.ErrInvalidSignature
	}

	mac := hmac.New(sha512.New, []byte(a.secretKey))
	_, _ = mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected)) {
		return domain.ErrInvalidSignature
	}
	return nil
}

func (a *Adapter) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *Adapter) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return a.do(req)
}

func (a *Adapter) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+a.secretKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", domain.ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrGatewayDeclined, resp.StatusCode, apiMessage(raw))
	}

	return raw, nil
}

func decodeEnvelope(raw []byte) (*apiEnvelope, error) {
	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	if !envelope.Status {
		return nil, fmt.Errorf("%w: %s", domain.ErrGatewayDeclined, envelope.Message)
	}
	return &envelope, nil
}

func apiMessage(raw []byte) string {
	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Message == "" {
		return "unexpected response"
	}
	return envelope.Message
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
