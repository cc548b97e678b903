package donationjob_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/nyarko-dennis/donor-app-backend/internal/config"
	donationdomain "github.com/nyarko-dennis/donor-app-backend/internal/donation/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/donationjob"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to[0])
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := `CREATE TABLE donation_receipts (
		donation_id BIGINT PRIMARY KEY,
		email TEXT NOT NULL,
		sent_at DATETIME NOT NULL
	)`
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("schema exec failed: %v", err)
	}
	return db
}

func newHandler(t *testing.T, db *gorm.DB, mailer *recordingMailer) *donationjob.Handler {
	t.Helper()

	donationCfg, err := config.NewDonationConfigHolder()
	if err != nil {
		t.Fatalf("donation config: %v", err)
	}

	return donationjob.New(donationjob.Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		Mailer:      mailer,
		DonationCfg: donationCfg,
	})
}

func payloadFor(t *testing.T, donationID snowflake.ID, email string) []byte {
	t.Helper()

	body, err := json.Marshal(donationdomain.ProcessingPayload{
		DonationID: donationID,
		Amount:     50,
		DonorID:    donationID + 1,
		Email:      email,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return body
}

func TestHandleSendsReceiptOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mailer := &recordingMailer{}
	handler := newHandler(t, db, mailer)

	node, err := snowflake.NewNode(4)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	payload := payloadFor(t, node.Generate(), "ama@example.com")

	// At-least-once delivery means the handler sees duplicates.
	for i := 0; i < 3; i++ {
		if err := handler.Handle(ctx, payload); err != nil {
			t.Fatalf("handle %d: %v", i, err)
		}
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one receipt mail, got %d", len(mailer.sent))
	}
	if mailer.sent[0] != "ama@example.com" {
		t.Fatalf("unexpected recipient %s", mailer.sent[0])
	}

	var count int64
	if err := db.Raw("SELECT COUNT(1) FROM donation_receipts").Scan(&count).Error; err != nil {
		t.Fatalf("count receipts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one receipt row, got %d", count)
	}
}

func TestHandleMailFailureRollsBackMarker(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mailer := &recordingMailer{err: errors.New("smtp unreachable")}
	handler := newHandler(t, db, mailer)

	node, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	payload := payloadFor(t, node.Generate(), "kojo@example.com")

	if err := handler.Handle(ctx, payload); err == nil {
		t.Fatalf("expected error when mail send fails")
	}

	// The marker must roll back so the retry re-sends.
	var count int64
	if err := db.Raw("SELECT COUNT(1) FROM donation_receipts").Scan(&count).Error; err != nil {
		t.Fatalf("count receipts: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no receipt marker after rollback, got %d", count)
	}

	mailer.err = nil
	if err := handler.Handle(ctx, payload); err != nil {
		t.Fatalf("retry handle: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected receipt on retry, got %d sends", len(mailer.sent))
	}
}

func TestHandleMalformedPayloadIsDropped(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mailer := &recordingMailer{}
	handler := newHandler(t, db, mailer)

	if err := handler.Handle(ctx, []byte("{not json")); err != nil {
		t.Fatalf("malformed payload must not error, got %v", err)
	}
	if err := handler.Handle(ctx, []byte(`{"amount":10}`)); err != nil {
		t.Fatalf("payload without donation id must not error, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(mailer.sent))
	}
}
