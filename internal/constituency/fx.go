package constituency

import (
	"github.com/nyarko-dennis/donor-app-backend/internal/constituency/repository"
	"github.com/nyarko-dennis/donor-app-backend/internal/constituency/service"
	"go.uber.org/fx"
)

var Module = fx.Module("constituency.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
