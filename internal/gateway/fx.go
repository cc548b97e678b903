package gateway

import (
	"github.com/nyarko-dennis/donor-app-backend/internal/config"
	"github.com/nyarko-dennis/donor-app-backend/internal/gateway/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/gateway/paystack"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("gateway",
	fx.Provide(NewProviders),
)

// NewProviders builds the registry from configured gateways. A missing
// Paystack secret leaves the registry empty so the rest of the app can
// boot without payment credentials (local CRUD-only development).
func NewProviders(cfg config.Config, log *zap.Logger) *Registry {
	providers := make([]domain.Provider, 0, 1)

	adapter, err := paystack.New(paystack.Config{
		SecretKey: cfg.Paystack.SecretKey,
		BaseURL:   cfg.Paystack.BaseURL,
		Timeout:   cfg.Paystack.Timeout,
	})
	if err != nil {
		log.Warn("paystack adapter disabled", zap.Error(err))
	} else {
		providers = append(providers, adapter)
	}

	return NewRegistry(providers...)
}
