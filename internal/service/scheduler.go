package service

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

func NewScheduler(clock clockwork.Clock) (gocron.Scheduler, error) {
	return gocron.NewScheduler(gocron.WithClock(clock))
}
