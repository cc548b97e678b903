package cause

import (
	"github.com/nyarko-dennis/donor-app-backend/internal/cause/repository"
	"github.com/nyarko-dennis/donor-app-backend/internal/cause/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cause.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
