package server_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	donationdomain "github.com/nyarko-dennis/donor-app-backend/internal/donation/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/gateway"
	"github.com/nyarko-dennis/donor-app-backend/internal/gateway/paystack"
	"github.com/nyarko-dennis/donor-app-backend/internal/server"
	"go.uber.org/zap"
)

type recordingDonationService struct {
	donationdomain.Service

	handled []string
}

func (s *recordingDonationService) HandleSuccess(ctx context.Context, reference, provider string) error {
	s.handled = append(s.handled, reference)
	return nil
}

func newTestServer(t *testing.T, donationSvc donationdomain.Service) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(server.ErrorHandlingMiddleware())

	adapter, err := paystack.New(paystack.Config{SecretKey: "sk_test_secret"})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	node, err := snowflake.NewNode(6)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	server.NewServer(server.ServerParams{
		Gin:         engine,
		Log:         zap.NewNop(),
		GenID:       node,
		DonationSvc: donationSvc,
		Gateways:    gateway.NewRegistry(adapter),
	})
	return engine
}

func sign(payload []byte) string {
	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(engine *gin.Engine, provider string, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/payment/webhook/"+provider, bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("x-paystack-signature", signature)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestWebhookChargeSuccessReconciles(t *testing.T) {
	svc := &recordingDonationService{}
	engine := newTestServer(t, svc)

	payload := []byte(`{"event":"charge.success","data":{"reference":"DON_0123456789abcdef"}}`)
	rec := postWebhook(engine, "paystack", payload, sign(payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.handled) != 1 || svc.handled[0] != "DON_0123456789abcdef" {
		t.Fatalf("expected one reconcile call, got %v", svc.handled)
	}
}

func TestWebhookTamperedSignatureRejected(t *testing.T) {
	svc := &recordingDonationService{}
	engine := newTestServer(t, svc)

	payload := []byte(`{"event":"charge.success","data":{"reference":"DON_0123456789abcdef","amount":100}}`)
	tampered := []byte(`{"event":"charge.success","data":{"reference":"DON_0123456789abcdef","amount":999900}}`)
	rec := postWebhook(engine, "paystack", tampered, sign(payload))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(svc.handled) != 0 {
		t.Fatalf("tampered webhook must not reconcile, got %v", svc.handled)
	}
}

func TestWebhookMissingSignatureRejected(t *testing.T) {
	svc := &recordingDonationService{}
	engine := newTestServer(t, svc)

	payload := []byte(`{"event":"charge.success","data":{"reference":"DON_0123456789abcdef"}}`)
	rec := postWebhook(engine, "paystack", payload, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(svc.handled) != 0 {
		t.Fatalf("unsigned webhook must not reconcile, got %v", svc.handled)
	}
}

func TestWebhookUnknownProviderNotFound(t *testing.T) {
	svc := &recordingDonationService{}
	engine := newTestServer(t, svc)

	payload := []byte(`{"event":"charge.success"}`)
	rec := postWebhook(engine, "cashapp", payload, sign(payload))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	svc := &recordingDonationService{}
	engine := newTestServer(t, svc)

	payload := []byte(`{"event":"transfer.success","data":{"reference":"TRF_123"}}`)
	rec := postWebhook(engine, "paystack", payload, sign(payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ignored event, got %d", rec.Code)
	}
	if len(svc.handled) != 0 {
		t.Fatalf("ignored event must not reconcile, got %v", svc.handled)
	}
}
