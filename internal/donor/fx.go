package donor

import (
	"github.com/nyarko-dennis/donor-app-backend/internal/donor/repository"
	"github.com/nyarko-dennis/donor-app-backend/internal/donor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("donor.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
