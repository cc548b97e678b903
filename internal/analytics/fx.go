package analytics

import (
	"github.com/nyarko-dennis/donor-app-backend/internal/analytics/repository"
	"github.com/nyarko-dennis/donor-app-backend/internal/analytics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
