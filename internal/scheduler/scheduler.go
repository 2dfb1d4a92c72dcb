// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/rp-bot/AbletonBuddy/internal/types"
)

// Handler is the callback invoked when an automation fires.
type Handler func(a *types.Automation)

// Scheduler evaluates cron expressions from the automation store and
// fires stored commands through a handler callback.
type Scheduler struct {
	store   types.AutomationStore
	handler Handler
	cron    *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Scheduler backed by the given automation store. The
// handler is called each time an automation fires.
func New(store types.AutomationStore, handler Handler) *Scheduler {
	return &Scheduler{
		store:   store,
		handler: handler,
		cron:    cron.New(cron.WithParser(cronParser)),
	}
}

// Start loads automations from the store, registers enabled ones that
// have a schedule as cron entries, and starts the cron ticker.
func (s *Scheduler) Start(ctx context.Context) error {
	automations, err := s.store.ListAutomations(ctx)
	if err != nil {
		return err
	}

	for _, a := range automations {
		if a.Schedule == "" || !a.Enabled {
			continue
		}

		a := a
		_, err := s.cron.AddFunc(a.Schedule, func() {
			slog.Info("cron firing automation", "name", a.Name, "thread", a.ThreadID)
			s.handler(a)
		})
		if err != nil {
			slog.Error("invalid cron schedule", "name", a.Name, "schedule", a.Schedule, "error", err)
			continue
		}
		slog.Info("scheduled automation", "name", a.Name, "schedule", a.Schedule)
	}

	s.cron.Start()
	return nil
}

// Reload stops the existing cron, creates a new one, and starts again.
func (s *Scheduler) Reload(ctx context.Context) error {
	s.cron.Stop()
	s.cron = cron.New(cron.WithParser(cronParser))
	return s.Start(ctx)
}

// Stop stops the cron ticker.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
