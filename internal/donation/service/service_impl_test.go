package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	campaignrepo "github.com/nyarko-dennis/donor-app-backend/internal/campaign/repository"
	campaignservice "github.com/nyarko-dennis/donor-app-backend/internal/campaign/service"
	causerepo "github.com/nyarko-dennis/donor-app-backend/internal/cause/repository"
	causeservice "github.com/nyarko-dennis/donor-app-backend/internal/cause/service"
	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/nyarko-dennis/donor-app-backend/internal/config"
	donationdomain "github.com/nyarko-dennis/donor-app-backend/internal/donation/domain"
	donationrepo "github.com/nyarko-dennis/donor-app-backend/internal/donation/repository"
	donationservice "github.com/nyarko-dennis/donor-app-backend/internal/donation/service"
	donorrepo "github.com/nyarko-dennis/donor-app-backend/internal/donor/repository"
	donorservice "github.com/nyarko-dennis/donor-app-backend/internal/donor/service"
	"github.com/nyarko-dennis/donor-app-backend/internal/gateway"
	gatewaydomain "github.com/nyarko-dennis/donor-app-backend/internal/gateway/domain"
	queuerepo "github.com/nyarko-dennis/donor-app-backend/internal/queue/repository"
	queueservice "github.com/nyarko-dennis/donor-app-backend/internal/queue/service"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeGateway struct {
	name       string
	initErr    error
	initCalls  int
	verifyResp *gatewaydomain.VerifyResponse
	verifyErr  error
}

func (g *fakeGateway) Provider() string {
	return g.name
}

func (g *fakeGateway) Initialize(ctx context.Context, req gatewaydomain.InitializeRequest) (*gatewaydomain.InitializeResponse, error) {
	g.initCalls++
	if g.initErr != nil {
		return nil, g.initErr
	}
	return &gatewaydomain.InitializeResponse{
		AuthorizationURL: "https://checkout.example.com/" + req.Reference,
		AccessCode:       "ac_test",
		Reference:        req.Reference,
		Raw:              []byte(`{"status":true}`),
	}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, reference string) (*gatewaydomain.VerifyResponse, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	if g.verifyResp != nil {
		return g.verifyResp, nil
	}
	return &gatewaydomain.VerifyResponse{Reference: reference, Status: "pending"}, nil
}

func (g *fakeGateway) VerifyWebhookSignature(payload []byte, headers http.Header) error {
	return nil
}

type harness struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	gateway  *fakeGateway
	svc      donationdomain.Service
	queueSvc *queueservice.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := setupTestDB(t)

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	donationCfg, err := config.NewDonationConfigHolder()
	if err != nil {
		t.Fatalf("donation config: %v", err)
	}

	donorSvc := donorservice.New(donorservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
		Repo:  donorrepo.Provide(),
	})
	campaignSvc := campaignservice.New(campaignservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
		Repo:  campaignrepo.Provide(),
	})
	causeSvc := causeservice.New(causeservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
		Repo:  causerepo.Provide(),
	})

	queueSvc, err := queueservice.New(queueservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
		Repo:  queuerepo.Provide(),
		Config: config.Config{
			Queue: config.QueueConfig{
				VisibilityTimeout: time.Minute,
				MaxAttempts:       3,
				BatchSize:         10,
			},
		},
	})
	if err != nil {
		t.Fatalf("queue service: %v", err)
	}

	gw := &fakeGateway{name: "paystack"}

	svc := donationservice.New(donationservice.Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       fakeClock,
		Repo:        donationrepo.Provide(),
		DonorSvc:    donorSvc,
		CampaignSvc: campaignSvc,
		CauseSvc:    causeSvc,
		Gateways:    gateway.NewRegistry(gw),
		Queue:       queueSvc,
		DonationCfg: donationCfg,
	})

	return &harness{
		db:       db,
		node:     node,
		clock:    fakeClock,
		gateway:  gw,
		svc:      svc,
		queueSvc: queueSvc,
	}
}

func (h *harness) seedCampaign(t *testing.T, name string) snowflake.ID {
	t.Helper()

	id := h.node.Generate()
	now := h.clock.Now()
	err := h.db.Exec(
		`INSERT INTO campaigns (id, name, slug, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, strings.ToLower(strings.ReplaceAll(name, " ", "-")), true, now, now,
	).Error
	if err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	return id
}

func TestInitiateCreatesPendingPair(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	campaignID := h.seedCampaign(t, "Spring Appeal")

	resp, err := h.svc.Initiate(ctx, donationdomain.InitiateDonationRequest{
		CampaignID: campaignID,
		Amount:     150.50,
		FirstName:  "Ama",
		Email:      "Ama@Example.com",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if !donationservice.IsReference(resp.Reference) {
		t.Fatalf("unexpected reference format: %s", resp.Reference)
	}
	if resp.Email != "ama@example.com" {
		t.Fatalf("expected normalized email, got %s", resp.Email)
	}
	if resp.AuthorizationURL == "" || resp.AccessCode == "" {
		t.Fatalf("expected checkout details, got %+v", resp)
	}

	assertCount(t, h.db, "SELECT COUNT(1) FROM donations", 1)
	assertCount(t, h.db, "SELECT COUNT(1) FROM transactions WHERE status = 'PENDING'", 1)

	var currency string
	if err := h.db.Raw("SELECT currency FROM donations LIMIT 1").Scan(&currency).Error; err != nil {
		t.Fatalf("scan currency: %v", err)
	}
	if currency != "GHS" {
		t.Fatalf("expected default currency GHS, got %s", currency)
	}
}

func TestInitiateGatewayFailureMarksPairFailed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	campaignID := h.seedCampaign(t, "Harvest Fund")

	gatewayErr := fmt.Errorf("connect: %w", gatewaydomain.ErrGatewayUnavailable)
	h.gateway.initErr = gatewayErr

	_, err := h.svc.Initiate(ctx, donationdomain.InitiateDonationRequest{
		CampaignID: campaignID,
		Amount:     20,
		FirstName:  "Kojo",
		Email:      "kojo@example.com",
	})
	if !errors.Is(err, gatewaydomain.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway error, got %v", err)
	}

	// The pair stays durable for audit, but never lingers PENDING.
	assertCount(t, h.db, "SELECT COUNT(1) FROM donations", 1)
	assertCount(t, h.db, "SELECT COUNT(1) FROM transactions WHERE status = 'FAILED'", 1)
	assertCount(t, h.db, "SELECT COUNT(1) FROM transactions WHERE status = 'PENDING'", 0)
}

func TestInitiateUnknownCampaignWritesNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.svc.Initiate(ctx, donationdomain.InitiateDonationRequest{
		CampaignID: h.node.Generate(),
		Amount:     50,
		FirstName:  "Esi",
		Email:      "esi@example.com",
	})
	if err == nil {
		t.Fatalf("expected error for unknown campaign")
	}

	assertCount(t, h.db, "SELECT COUNT(1) FROM donors", 0)
	assertCount(t, h.db, "SELECT COUNT(1) FROM donations", 0)
	assertCount(t, h.db, "SELECT COUNT(1) FROM transactions", 0)
	if h.gateway.initCalls != 0 {
		t.Fatalf("gateway should not be contacted, got %d calls", h.gateway.initCalls)
	}
}

func TestInitiateReusesDonorByEmail(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	campaignID := h.seedCampaign(t, "School Build")

	for i := 0; i < 2; i++ {
		_, err := h.svc.Initiate(ctx, donationdomain.InitiateDonationRequest{
			CampaignID: campaignID,
			Amount:     10,
			FirstName:  "Yaw",
			Email:      "yaw@example.com",
		})
		if err != nil {
			t.Fatalf("initiate %d: %v", i, err)
		}
	}

	assertCount(t, h.db, "SELECT COUNT(1) FROM donors", 1)
	assertCount(t, h.db, "SELECT COUNT(1) FROM donations", 2)
	assertCount(t, h.db, "SELECT COUNT(1) FROM transactions", 2)
}

func TestHandleSuccessSettlesOnceAndEnqueuesOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	campaignID := h.seedCampaign(t, "Water Project")

	resp, err := h.svc.Initiate(ctx, donationdomain.InitiateDonationRequest{
		CampaignID: campaignID,
		Amount:     75,
		FirstName:  "Akua",
		Email:      "akua@example.com",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	// The gateway redelivers webhooks; every delivery after the first
	// must change nothing.
	for i := 0; i < 3; i++ {
		if err := h.svc.HandleSuccess(ctx, resp.Reference, "paystack"); err != nil {
			t.Fatalf("handle success %d: %v", i, err)
		}
	}

	assertCount(t, h.db, "SELECT COUNT(1) FROM transactions WHERE status = 'SUCCESS'", 1)
	assertCount(t, h.db, "SELECT COUNT(1) FROM jobs WHERE topic = 'donation-processing'", 1)
}

func TestHandleSuccessUnknownReferenceIsNoOp(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	if err := h.svc.HandleSuccess(ctx, "DON_deadbeefdeadbeef", "paystack"); err != nil {
		t.Fatalf("expected nil for unknown reference, got %v", err)
	}

	assertCount(t, h.db, "SELECT COUNT(1) FROM jobs", 0)
}

func TestVerifyByReferenceReconciles(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	campaignID := h.seedCampaign(t, "Clinic Fund")

	resp, err := h.svc.Initiate(ctx, donationdomain.InitiateDonationRequest{
		CampaignID: campaignID,
		Amount:     200,
		FirstName:  "Abena",
		Email:      "abena@example.com",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	h.gateway.verifyResp = &gatewaydomain.VerifyResponse{
		Reference: resp.Reference,
		Status:    "success",
		Amount:    200,
		Currency:  "GHS",
	}

	verify, err := h.svc.VerifyByReference(ctx, resp.Reference)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verify.Status != donationdomain.TransactionStatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", verify.Status)
	}

	assertCount(t, h.db, "SELECT COUNT(1) FROM transactions WHERE status = 'SUCCESS'", 1)
	assertCount(t, h.db, "SELECT COUNT(1) FROM jobs WHERE topic = 'donation-processing'", 1)
}

func TestCreateManualDonationIsSettled(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	campaignID := h.seedCampaign(t, "Food Drive")

	record, err := h.svc.Create(ctx, donationdomain.CreateDonationRequest{
		CampaignID:    campaignID,
		Amount:        40,
		PaymentMethod: "Cash",
		FirstName:     "Kofi",
		Email:         "kofi@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if record.Transaction == nil {
		t.Fatalf("expected transaction on manual donation")
	}
	if record.Transaction.Provider != "manual" {
		t.Fatalf("expected manual provider, got %s", record.Transaction.Provider)
	}
	if record.Transaction.Status != donationdomain.TransactionStatusSuccess {
		t.Fatalf("expected settled transaction, got %s", record.Transaction.Status)
	}
}

func TestUpdateGatewayDonationRejected(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	campaignID := h.seedCampaign(t, "Library Fund")

	resp, err := h.svc.Initiate(ctx, donationdomain.InitiateDonationRequest{
		CampaignID: campaignID,
		Amount:     30,
		FirstName:  "Adwoa",
		Email:      "adwoa@example.com",
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	newAmount := 99.0
	_, err = h.svc.Update(ctx, resp.DonationID, donationdomain.UpdateDonationRequest{
		Amount: &newAmount,
	})
	if !errors.Is(err, donationdomain.ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
}

func TestUpdateManualDonationAdjustsAmount(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	campaignID := h.seedCampaign(t, "Kitchen Fund")

	record, err := h.svc.Create(ctx, donationdomain.CreateDonationRequest{
		CampaignID:    campaignID,
		Amount:        10,
		PaymentMethod: "Cash",
		FirstName:     "Kwame",
		Email:         "kwame@example.com",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newAmount := 25.0
	updated, err := h.svc.Update(ctx, record.ID, donationdomain.UpdateDonationRequest{
		Amount: &newAmount,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount != 25 {
		t.Fatalf("expected amount 25, got %v", updated.Amount)
	}

	var stored float64
	if err := h.db.Raw("SELECT amount FROM donations WHERE id = ?", record.ID).Scan(&stored).Error; err != nil {
		t.Fatalf("scan amount: %v", err)
	}
	if stored != 25 {
		t.Fatalf("expected persisted amount 25, got %v", stored)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	campaignID := h.seedCampaign(t, "Sports Fund")

	settled, err := h.svc.Initiate(ctx, donationdomain.InitiateDonationRequest{
		CampaignID: campaignID,
		Amount:     60,
		FirstName:  "Afia",
		Email:      "afia@example.com",
	})
	if err != nil {
		t.Fatalf("initiate settled: %v", err)
	}
	if _, err := h.svc.Initiate(ctx, donationdomain.InitiateDonationRequest{
		CampaignID: campaignID,
		Amount:     80,
		FirstName:  "Kwesi",
		Email:      "kwesi@example.com",
	}); err != nil {
		t.Fatalf("initiate pending: %v", err)
	}

	if err := h.svc.HandleSuccess(ctx, settled.Reference, "paystack"); err != nil {
		t.Fatalf("handle success: %v", err)
	}

	resp, err := h.svc.List(ctx, donationdomain.ListDonationRequest{Status: "success"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.TotalCount != 1 {
		t.Fatalf("expected one settled donation, got %d", resp.TotalCount)
	}
	if len(resp.Donations) != 1 || resp.Donations[0].Transaction == nil {
		t.Fatalf("expected settled donation with transaction, got %+v", resp.Donations)
	}
	if resp.Donations[0].Transaction.Status != donationdomain.TransactionStatusSuccess {
		t.Fatalf("expected SUCCESS transaction, got %s", resp.Donations[0].Transaction.Status)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE donors (
			id BIGINT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT,
			email TEXT NOT NULL,
			phone_number TEXT,
			constituency_id BIGINT,
			sub_constituency_id BIGINT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_donors_email ON donors(email)`,
		`CREATE TABLE campaigns (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			description TEXT,
			target_amount NUMERIC(15,2),
			start_date DATETIME,
			end_date DATETIME,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			deleted_at DATETIME
		)`,
		`CREATE UNIQUE INDEX idx_campaigns_slug ON campaigns(slug)`,
		`CREATE TABLE donation_causes (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_donation_causes_name ON donation_causes(name)`,
		`CREATE TABLE donations (
			id BIGINT PRIMARY KEY,
			donor_id BIGINT NOT NULL,
			campaign_id BIGINT NOT NULL,
			cause_id BIGINT,
			constituency_id BIGINT,
			sub_constituency_id BIGINT,
			amount NUMERIC(15,2) NOT NULL,
			currency TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			deleted_at DATETIME
		)`,
		`CREATE TABLE transactions (
			id BIGINT PRIMARY KEY,
			donation_id BIGINT NOT NULL,
			reference TEXT NOT NULL,
			provider TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			idempotency_key TEXT NOT NULL,
			provider_response TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_transactions_reference ON transactions(reference)`,
		`CREATE UNIQUE INDEX idx_transactions_donation_id ON transactions(donation_id)`,
		`CREATE TABLE jobs (
			id BIGINT PRIMARY KEY,
			topic TEXT NOT NULL,
			payload TEXT NOT NULL,
			status TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			max_attempts INTEGER NOT NULL,
			visible_at DATETIME NOT NULL,
			last_error TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema exec failed: %v", err)
		}
	}

	return db
}

func assertCount(t *testing.T, db *gorm.DB, query string, expected int64) {
	t.Helper()

	var count int64
	if err := db.Raw(query).Scan(&count).Error; err != nil {
		t.Fatalf("query count: %v", err)
	}
	if count != expected {
		t.Fatalf("%s: expected %d, got %d", query, expected, count)
	}
}
