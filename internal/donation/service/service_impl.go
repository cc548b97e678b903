package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	campaigndomain "github.com/nyarko-dennis/donor-app-backend/internal/campaign/domain"
	causedomain "github.com/nyarko-dennis/donor-app-backend/internal/cause/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/clock"
	"github.com/nyarko-dennis/donor-app-backend/internal/config"
	"github.com/nyarko-dennis/donor-app-backend/internal/donation/domain"
	donordomain "github.com/nyarko-dennis/donor-app-backend/internal/donor/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/gateway"
	gatewaydomain "github.com/nyarko-dennis/donor-app-backend/internal/gateway/domain"
	queuedomain "github.com/nyarko-dennis/donor-app-backend/internal/queue/domain"
	"github.com/nyarko-dennis/donor-app-backend/pkg/db/pagination"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultProvider = "paystack"

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	DonorSvc    donordomain.Service
	CampaignSvc campaigndomain.Service
	CauseSvc    causedomain.Service
	Gateways    *gateway.Registry
	Queue       queuedomain.Queue
	DonationCfg *config.DonationConfigHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	donorSvc    donordomain.Service
	campaignSvc campaigndomain.Service
	causeSvc    causedomain.Service
	gateways    *gateway.Registry
	queue       queuedomain.Queue
	donationCfg *config.DonationConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("donation.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		donorSvc:    p.DonorSvc,
		campaignSvc: p.CampaignSvc,
		causeSvc:    p.CauseSvc,
		gateways:    p.Gateways,
		queue:       p.Queue,
		donationCfg: p.DonationCfg,
	}
}

func (s *Service) Initiate(ctx context.Context, req domain.InitiateDonationRequest) (domain.InitiateDonationResponse, error) {
	if req.Amount <= 0 {
		return domain.InitiateDonationResponse{}, domain.ErrInvalidAmount
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.InitiateDonationResponse{}, domain.ErrInvalidEmail
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return domain.InitiateDonationResponse{}, domain.ErrInvalidName
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.donationCfg.Get().DefaultCurrency
	}
	if len(currency) != 3 {
		return domain.InitiateDonationResponse{}, domain.ErrInvalidCurrency
	}

	providerName := strings.ToLower(strings.TrimSpace(req.Provider))
	if providerName == "" {
		providerName = defaultProvider
	}
	provider, err := s.gateways.Provider(providerName)
	if err != nil {
		return domain.InitiateDonationResponse{}, domain.ErrProviderNotFound
	}

	// Campaign and cause must exist before anything is written.
	if _, err := s.campaignSvc.GetByID(ctx, req.CampaignID); err != nil {
		return domain.InitiateDonationResponse{}, err
	}
	if req.CauseID != nil {
		if _, err := s.causeSvc.GetByID(ctx, *req.CauseID); err != nil {
			return domain.InitiateDonationResponse{}, err
		}
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = providerName
	}

	now := s.clock.Now()
	reference := NewReference()
	donation := domain.Donation{
		ID:                s.genID.Generate(),
		CampaignID:        req.CampaignID,
		CauseID:           req.CauseID,
		ConstituencyID:    req.ConstituencyID,
		SubConstituencyID: req.SubConstituencyID,
		Amount:            req.Amount,
		Currency:          currency,
		PaymentMethod:     method,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	transaction := domain.Transaction{
		ID:             s.genID.Generate(),
		DonationID:     donation.ID,
		Reference:      reference,
		Provider:       providerName,
		Status:         domain.TransactionStatusPending,
		IdempotencyKey: ulid.Make().String(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// One commit covers donor, donation and transaction: the durable
	// PENDING pair exists before the gateway is ever contacted.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		donor, err := s.donorSvc.EnsureByEmail(ctx, tx, donordomain.CreateDonorRequest{
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			Email:             email,
			PhoneNumber:       req.PhoneNumber,
			ConstituencyID:    req.ConstituencyID,
			SubConstituencyID: req.SubConstituencyID,
		})
		if err != nil {
			return err
		}
		donation.DonorID = donor.ID

		if err := s.repo.InsertDonation(ctx, tx, &donation); err != nil {
			return err
		}
		return s.repo.InsertTransaction(ctx, tx, &transaction)
	})
	if err != nil {
		return domain.InitiateDonationResponse{}, err
	}

	gatewayResp, err := provider.Initialize(ctx, gatewaydomain.InitializeRequest{
		Reference: reference,
		Email:     email,
		Amount:    req.Amount,
		Currency:  currency,
		Metadata: map[string]any{
			"donation_id": donation.ID.String(),
		},
	})
	if err != nil {
		// The pair must not linger PENDING after a failed
		// initialization; the original error still reaches the caller.
		if _, markErr := s.repo.MarkTransactionStatus(ctx, s.db, reference, domain.TransactionStatusFailed, nil, s.clock.Now()); markErr != nil {
			s.log.Error("mark transaction failed",
				zap.String("reference", reference),
				zap.Error(markErr),
			)
		}
		return domain.InitiateDonationResponse{}, err
	}

	if err := s.repo.SaveProviderResponse(ctx, s.db, reference, gatewayResp.Raw, s.clock.Now()); err != nil {
		s.log.Warn("save provider response", zap.String("reference", reference), zap.Error(err))
	}

	return domain.InitiateDonationResponse{
		DonationID:       donation.ID,
		Reference:        reference,
		Amount:           donation.Amount,
		Email:            email,
		AuthorizationURL: gatewayResp.AuthorizationURL,
		AccessCode:       gatewayResp.AccessCode,
	}, nil
}

func (s *Service) HandleSuccess(ctx context.Context, reference, provider string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil
	}

	log := s.log.With(
		zap.String("reference", reference),
		zap.String("provider", provider),
	)

	// Status write and job enqueue share one commit: the job becomes
	// visible exactly when the SUCCESS transition does.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transaction, err := s.repo.FindTransactionByReference(ctx, tx, reference)
		if err != nil {
			return err
		}
		if transaction == nil {
			// Stale or foreign reference; the gateway retries these
			// legitimately.
			log.Info("webhook for unknown reference ignored")
			return nil
		}
		if transaction.Status == domain.TransactionStatusSuccess {
			log.Debug("reference already settled")
			return nil
		}

		won, err := s.repo.MarkTransactionStatus(ctx, tx, reference, domain.TransactionStatusSuccess, nil, s.clock.Now())
		if err != nil {
			return err
		}
		if !won {
			log.Debug("lost settlement race, nothing to do")
			return nil
		}

		donation, err := s.repo.FindDonationByID(ctx, tx, transaction.DonationID)
		if err != nil {
			return err
		}
		if donation == nil {
			log.Error("transaction without donation", zap.String("donation_id", transaction.DonationID.String()))
			return nil
		}

		donor, err := s.donorSvc.GetByID(ctx, donation.DonorID)
		if err != nil {
			return err
		}

		log.Info("transaction settled",
			zap.String("donation_id", donation.ID.String()),
			zap.Float64("amount", donation.Amount),
		)
		return s.queue.EnqueueTx(ctx, tx, domain.TopicDonationProcessing, domain.ProcessingPayload{
			DonationID: donation.ID,
			Amount:     donation.Amount,
			DonorID:    donor.ID,
			Email:      donor.Email,
		})
	})
}

func (s *Service) VerifyByReference(ctx context.Context, reference string) (domain.VerifyDonationResponse, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return domain.VerifyDonationResponse{}, domain.ErrInvalidID
	}

	transaction, err := s.repo.FindTransactionByReference(ctx, s.db, reference)
	if err != nil {
		return domain.VerifyDonationResponse{}, err
	}
	if transaction == nil {
		return domain.VerifyDonationResponse{}, domain.ErrNotFound
	}

	provider, err := s.gateways.Provider(transaction.Provider)
	if err != nil {
		return domain.VerifyDonationResponse{}, domain.ErrProviderNotFound
	}

	gatewayResp, err := provider.Verify(ctx, reference)
	if err != nil {
		return domain.VerifyDonationResponse{}, err
	}

	if strings.EqualFold(gatewayResp.Status, "success") {
		if err := s.HandleSuccess(ctx, reference, transaction.Provider); err != nil {
			return domain.VerifyDonationResponse{}, err
		}
		transaction, err = s.repo.FindTransactionByReference(ctx, s.db, reference)
		if err != nil {
			return domain.VerifyDonationResponse{}, err
		}
	}

	return domain.VerifyDonationResponse{
		Reference:     reference,
		Status:        transaction.Status,
		GatewayStatus: gatewayResp.Status,
		Amount:        gatewayResp.Amount,
	}, nil
}

// Create records a manually settled donation (cash, in-kind). The pair
// is written settled because the money changed hands outside any
// gateway.
func (s *Service) Create(ctx context.Context, req domain.CreateDonationRequest) (domain.DonationWithTransaction, error) {
	if req.Amount <= 0 {
		return domain.DonationWithTransaction{}, domain.ErrInvalidAmount
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.DonationWithTransaction{}, domain.ErrInvalidEmail
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return domain.DonationWithTransaction{}, domain.ErrInvalidName
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if !s.donationCfg.IsEditableMethod(method) {
		return domain.DonationWithTransaction{}, domain.ErrInvalidMethod
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.donationCfg.Get().DefaultCurrency
	}
	if len(currency) != 3 {
		return domain.DonationWithTransaction{}, domain.ErrInvalidCurrency
	}

	if _, err := s.campaignSvc.GetByID(ctx, req.CampaignID); err != nil {
		return domain.DonationWithTransaction{}, err
	}
	if req.CauseID != nil {
		if _, err := s.causeSvc.GetByID(ctx, *req.CauseID); err != nil {
			return domain.DonationWithTransaction{}, err
		}
	}

	now := s.clock.Now()
	donation := domain.Donation{
		ID:                s.genID.Generate(),
		CampaignID:        req.CampaignID,
		CauseID:           req.CauseID,
		ConstituencyID:    req.ConstituencyID,
		SubConstituencyID: req.SubConstituencyID,
		Amount:            req.Amount,
		Currency:          currency,
		PaymentMethod:     method,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	transaction := domain.Transaction{
		ID:             s.genID.Generate(),
		DonationID:     donation.ID,
		Reference:      NewReference(),
		Provider:       "manual",
		Status:         domain.TransactionStatusSuccess,
		IdempotencyKey: ulid.Make().String(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		donor, err := s.donorSvc.EnsureByEmail(ctx, tx, donordomain.CreateDonorRequest{
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			Email:             email,
			PhoneNumber:       req.PhoneNumber,
			ConstituencyID:    req.ConstituencyID,
			SubConstituencyID: req.SubConstituencyID,
		})
		if err != nil {
			return err
		}
		donation.DonorID = donor.ID

		if err := s.repo.InsertDonation(ctx, tx, &donation); err != nil {
			return err
		}
		return s.repo.InsertTransaction(ctx, tx, &transaction)
	})
	if err != nil {
		return domain.DonationWithTransaction{}, err
	}

	return domain.DonationWithTransaction{Donation: donation, Transaction: &transaction}, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.DonationWithTransaction, error) {
	if id == 0 {
		return domain.DonationWithTransaction{}, domain.ErrInvalidID
	}

	donation, err := s.repo.FindDonationByID(ctx, s.db, id)
	if err != nil {
		return domain.DonationWithTransaction{}, err
	}
	if donation == nil {
		return domain.DonationWithTransaction{}, domain.ErrNotFound
	}

	transaction, err := s.repo.FindTransactionByDonationID(ctx, s.db, id)
	if err != nil {
		return domain.DonationWithTransaction{}, err
	}
	return domain.DonationWithTransaction{Donation: *donation, Transaction: transaction}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDonationRequest) (domain.ListDonationResponse, error) {
	filter := domain.ListDonationFilter{}
	if trimmed := strings.TrimSpace(req.CampaignID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListDonationResponse{}, domain.ErrInvalidID
		}
		filter.CampaignID = id
	}
	if trimmed := strings.TrimSpace(req.DonorID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListDonationResponse{}, domain.ErrInvalidID
		}
		filter.DonorID = id
	}
	if trimmed := strings.ToUpper(strings.TrimSpace(req.Status)); trimmed != "" {
		filter.Status = domain.TransactionStatus(trimmed)
	}

	page := req.Pagination.Normalize()
	items, total, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListDonationResponse{}, err
	}

	donations := make([]domain.DonationWithTransaction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		donations = append(donations, *item)
	}

	return domain.ListDonationResponse{
		PageInfo:  *pagination.BuildPageInfo(page, total),
		Donations: donations,
	}, nil
}

// Update touches financial fields only for manual methods; anything a
// gateway settled is immutable.
func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateDonationRequest) (domain.DonationWithTransaction, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.DonationWithTransaction{}, err
	}

	if !s.donationCfg.IsEditableMethod(record.PaymentMethod) {
		return domain.DonationWithTransaction{}, domain.ErrNotEditable
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			return domain.DonationWithTransaction{}, domain.ErrInvalidAmount
		}
		record.Amount = *req.Amount
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if len(currency) != 3 {
			return domain.DonationWithTransaction{}, domain.ErrInvalidCurrency
		}
		record.Currency = currency
	}
	if req.PaymentMethod != nil {
		method := strings.TrimSpace(*req.PaymentMethod)
		if !s.donationCfg.IsEditableMethod(method) {
			return domain.DonationWithTransaction{}, domain.ErrInvalidMethod
		}
		record.PaymentMethod = method
	}
	if req.CauseID != nil {
		if _, err := s.causeSvc.GetByID(ctx, *req.CauseID); err != nil {
			return domain.DonationWithTransaction{}, err
		}
		record.CauseID = req.CauseID
	}
	record.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateDonation(ctx, s.db, &record.Donation); err != nil {
		return domain.DonationWithTransaction{}, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDeleteDonation(ctx, s.db, id)
}
