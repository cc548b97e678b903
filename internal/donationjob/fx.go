package donationjob

import (
	donationdomain "github.com/nyarko-dennis/donor-app-backend/internal/donation/domain"
	queuedomain "github.com/nyarko-dennis/donor-app-backend/internal/queue/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("donationjob",
	fx.Provide(New),
	fx.Invoke(Register),
)

func Register(queue queuedomain.Queue, handler *Handler) error {
	return queue.Subscribe(donationdomain.TopicDonationProcessing, handler.Handle)
}
