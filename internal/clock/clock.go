package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts time so reconciliation and queue visibility logic can
// be tested against a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystemClock() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
