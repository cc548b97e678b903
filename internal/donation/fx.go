package donation

import (
	"github.com/nyarko-dennis/donor-app-backend/internal/donation/repository"
	"github.com/nyarko-dennis/donor-app-backend/internal/donation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("donation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
