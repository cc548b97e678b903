package campaign

import (
	"github.com/nyarko-dennis/donor-app-backend/internal/campaign/repository"
	"github.com/nyarko-dennis/donor-app-backend/internal/campaign/service"
	"go.uber.org/fx"
)

var Module = fx.Module("campaign.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
