package queue

import (
	"context"

	"github.com/nyarko-dennis/donor-app-backend/internal/queue/domain"
	"github.com/nyarko-dennis/donor-app-backend/internal/queue/repository"
	"github.com/nyarko-dennis/donor-app-backend/internal/queue/service"
	"go.uber.org/fx"
)

var Module = fx.Module("queue",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(svc *service.Service) domain.Queue { return svc }),
	fx.Invoke(StartWorker),
)

func StartWorker(lc fx.Lifecycle, svc *service.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go svc.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
