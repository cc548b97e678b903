package donationjob

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/nyarko-dennis/donor-app-backend/internal/config"
	donationdomain "github.com/nyarko-dennis/donor-app-backend/internal/donation/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Mailer      email.Provider
	DonationCfg *config.DonationConfigHolder
}

// Handler consumes donation-processing jobs. Delivery is at-least-once,
// so the receipt insert doubles as the processed marker: a second
// delivery for the same donation hits the primary key and does nothing.
type Handler struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	mailer      email.Provider
	donationCfg *config.DonationConfigHolder
}

func New(p Params) *Handler {
	return &Handler{
		db:          p.DB,
		log:         p.Log.Named("donationjob.handler"),
		clock:       p.Clock,
		mailer:      p.Mailer,
		donationCfg: p.DonationCfg,
	}
}

func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var job donationdomain.ProcessingPayload
	if err := json.Unmarshal(payload, &job); err != nil {
		// A payload that never parses will never parse; failing it
		// forward through retries just burns attempts.
		h.log.Error("malformed job payload", zap.Error(err))
		return nil
	}
	if job.DonationID == 0 {
		h.log.Error("job payload missing donation id")
		return nil
	}

	log := h.log.With(
		zap.String("donation_id", job.DonationID.String()),
		zap.String("email", job.Email),
	)

	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stmt := tx.Exec(
			`INSERT INTO donation_receipts (donation_id, email, sent_at)
			 VALUES (?, ?, ?)
			 ON CONFLICT (donation_id) DO NOTHING`,
			job.DonationID,
			job.Email,
			h.clock.Now(),
		)
		if stmt.Error != nil {
			return stmt.Error
		}
		if stmt.RowsAffected == 0 {
			log.Debug("receipt already sent")
			return nil
		}

		// Mail failure rolls the marker back so the retry can try again.
		if err := h.sendReceipt(ctx, job); err != nil {
			return fmt.Errorf("send receipt: %w", err)
		}

		log.Info("receipt sent", zap.Float64("amount", job.Amount))
		return nil
	})
}

func (h *Handler) sendReceipt(ctx context.Context, job donationdomain.ProcessingPayload) error {
	cfg := h.donationCfg.Get()
	body := fmt.Sprintf(
		`<p>Thank you for your donation of %.2f.</p>
<p>Donation reference: %s</p>
<p>Received at %s.</p>`,
		job.Amount,
		job.DonationID.String(),
		h.clock.Now().Format(time.RFC1123),
	)
	return h.mailer.Send(ctx, []string{job.Email}, cfg.ReceiptSubject, body)
}
