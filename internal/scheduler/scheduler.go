// Package scheduler keeps controller lists fresh in the background. It
// formalizes the mutate-then-refresh habit of the presentation layer into
// a periodic re-fetch, so a long-lived session eventually converges with
// the remote state even without user activity.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

// Refresher is any controller exposing a refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type target struct {
	name string
	ref  Refresher
}

// RefreshScheduler runs controller refreshes on a cron spec. Failures are
// logged and surfaced through the controllers' own error states; the
// scheduler itself never stops on them.
type RefreshScheduler struct {
	spec    string
	cron    *cron.Cron
	targets []target
}

// New creates a scheduler for the given cron spec (with a seconds field).
func New(spec string) *RefreshScheduler {
	return &RefreshScheduler{
		spec: spec,
		cron: cron.New(cron.WithSeconds()),
	}
}

// Add registers a controller to refresh each tick.
func (s *RefreshScheduler) Add(name string, ref Refresher) {
	s.targets = append(s.targets, target{name: name, ref: ref})
}

// Start schedules the refresh job and starts the cron loop.
func (s *RefreshScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		return err
	}
	logrus.Infof("refresh scheduler started (spec %q, %d targets)", s.spec, len(s.targets))
	s.cron.Start()
	return nil
}

// Stop stops the cron loop; a refresh already running finishes.
func (s *RefreshScheduler) Stop() {
	s.cron.Stop()
}

func (s *RefreshScheduler) runOnce() {
	ctx := context.Background()
	for _, t := range s.targets {
		if err := t.ref.Refresh(ctx); err != nil {
			logrus.WithError(err).Warnf("scheduled refresh of %s failed", t.name)
		}
	}
}
