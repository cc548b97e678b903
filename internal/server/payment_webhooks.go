package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type webhookEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// HandlePaymentWebhook authenticates and reconciles gateway events.
// The signature is checked over the raw body before anything else is
// read from the payload. Once authenticated the endpoint answers 200
// even for events it ignores, so the gateway stops redelivering.
func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	providerName := c.Param("provider")

	provider, err := s.gateways.Provider(providerName)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := provider.VerifyWebhookSignature(body, c.Request.Header); err != nil {
		s.log.Warn("webhook signature rejected",
			zap.String("provider", providerName),
			zap.Error(err),
		)
		AbortWithError(c, err)
		return
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		s.log.Warn("webhook payload is not valid json",
			zap.String("provider", providerName),
		)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	switch strings.ToLower(envelope.Event) {
	case "charge.success":
		reference := strings.TrimSpace(envelope.Data.Reference)
		if reference == "" {
			s.log.Warn("charge.success event without reference",
				zap.String("provider", providerName),
			)
			break
		}
		if err := s.donationSvc.HandleSuccess(c.Request.Context(), reference, providerName); err != nil {
			// Gateway retries on non-2xx, which is exactly what a
			// transient reconcile failure needs.
			AbortWithError(c, err)
			return
		}
	default:
		s.log.Debug("ignoring webhook event",
			zap.String("provider", providerName),
			zap.String("event", envelope.Event),
		)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) VerifyPayment(c *gin.Context) {
	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" {
		AbortWithError(c, newValidationError("reference", "required", "reference is required"))
		return
	}

	resp, err := s.donationSvc.VerifyByReference(c.Request.Context(), reference)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
