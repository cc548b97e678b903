package paystack_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	gatewaydomain "github.com/nyarko-dennis/donor-app-backend/internal/gateway/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/gateway/paystack"
)

func newAdapter(t *testing.T, baseURL string) *paystack.Adapter {
	t.Helper()

	adapter, err := paystack.New(paystack.Config{
		SecretKey: "sk_test_secret",
		BaseURL:   baseURL,
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter
}

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	adapter := newAdapter(t, "")
	payload := []byte(`{"event":"charge.success","data":{"reference":"DON_0123456789abcdef"}}`)

	headers := http.Header{}
	headers.Set("x-paystack-signature", signPayload("sk_test_secret", payload))

	if err := adapter.VerifyWebhookSignature(payload, headers); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerifyWebhookSignatureRejectsTamperedBody(t *testing.T) {
	adapter := newAdapter(t, "")
	payload := []byte(`{"event":"charge.success","data":{"reference":"DON_0123456789abcdef","amount":100}}`)

	headers := http.Header{}
	headers.Set("x-paystack-signature", signPayload("sk_test_secret", payload))

	tampered := []byte(`{"event":"charge.success","data":{"reference":"DON_0123456789abcdef","amount":999900}}`)
	if err := adapter.VerifyWebhookSignature(tampered, headers); !errors.Is(err, gatewaydomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyWebhookSignatureRejectsMissingHeader(t *testing.T) {
	adapter := newAdapter(t, "")
	err := adapter.VerifyWebhookSignature([]byte(`{}`), http.Header{})
	if !errors.Is(err, gatewaydomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyWebhookSignatureRejectsWrongSecret(t *testing.T) {
	adapter := newAdapter(t, "")
	payload := []byte(`{"event":"charge.success"}`)

	headers := http.Header{}
	headers.Set("x-paystack-signature", signPayload("sk_other_secret", payload))

	if err := adapter.VerifyWebhookSignature(payload, headers); !errors.Is(err, gatewaydomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestInitializeSendsMinorUnits(t *testing.T) {
	var captured struct {
		Email     string `json:"email"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Reference string `json:"reference"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         captured.Reference,
			},
		})
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv.URL)
	resp, err := adapter.Initialize(context.Background(), gatewaydomain.InitializeRequest{
		Reference: "DON_0123456789abcdef",
		Email:     "ama@example.com",
		Amount:    150.55,
		Currency:  "ghs",
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if captured.Amount != 15055 {
		t.Fatalf("expected amount in minor units 15055, got %d", captured.Amount)
	}
	if captured.Currency != "GHS" {
		t.Fatalf("expected uppercased currency, got %s", captured.Currency)
	}
	if resp.AuthorizationURL != "https://checkout.paystack.com/abc123" {
		t.Fatalf("unexpected authorization url %s", resp.AuthorizationURL)
	}
	if resp.Reference != "DON_0123456789abcdef" {
		t.Fatalf("unexpected reference %s", resp.Reference)
	}
}

func TestInitializeDeclinedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv.URL)
	_, err := adapter.Initialize(context.Background(), gatewaydomain.InitializeRequest{
		Reference: "DON_0123456789abcdef",
		Email:     "ama@example.com",
		Amount:    10,
	})
	if !errors.Is(err, gatewaydomain.ErrGatewayDeclined) {
		t.Fatalf("expected ErrGatewayDeclined, got %v", err)
	}
}

func TestInitializeServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv.URL)
	_, err := adapter.Initialize(context.Background(), gatewaydomain.InitializeRequest{
		Reference: "DON_0123456789abcdef",
		Email:     "ama@example.com",
		Amount:    10,
	})
	if !errors.Is(err, gatewaydomain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestVerifyConvertsMinorUnits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/DON_0123456789abcdef" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"reference": "DON_0123456789abcdef",
				"status":    "success",
				"amount":    15055,
				"currency":  "GHS",
				"paid_at":   "2026-03-14T09:00:00Z",
			},
		})
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv.URL)
	resp, err := adapter.Verify(context.Background(), "DON_0123456789abcdef")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("expected success, got %s", resp.Status)
	}
	if resp.Amount != 150.55 {
		t.Fatalf("expected major-unit amount 150.55, got %v", resp.Amount)
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := paystack.New(paystack.Config{}); !errors.Is(err, gatewaydomain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
