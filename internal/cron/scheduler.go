// Package cron runs the compliance autopilot on a schedule for every tenant.
package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"mawared-backend/internal/autopilot"
)

// TenantLister yields the tenant IDs to schedule runs for.
type TenantLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// Scheduler triggers a daily autopilot run per tenant.
type Scheduler struct {
	runner  *autopilot.Runner
	tenants TenantLister
	cron    *cron.Cron
	log     zerolog.Logger
}

func NewScheduler(runner *autopilot.Runner, tenants TenantLister, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		runner:  runner,
		tenants: tenants,
		cron:    cron.New(),
		log:     log,
	}
}

// Start registers the job under the given cron spec and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.runAll)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", spec).Msg("compliance scheduler started")
	return nil
}

// Stop stops the scheduler and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// runAll executes the autopilot for every tenant. A failing tenant is logged
// and skipped so one bad tenant cannot block the rest of the fleet.
func (s *Scheduler) runAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	tenantIDs, err := s.tenants.ListIDs(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled run aborted: could not list tenants")
		return
	}

	s.log.Info().Int("tenants", len(tenantIDs)).Msg("scheduled compliance run starting")

	for _, tenantID := range tenantIDs {
		result, err := s.runner.Run(ctx, autopilot.Request{TenantID: tenantID})
		if err != nil {
			s.log.Error().Err(err).Str("tenant_id", tenantID).Msg("scheduled run failed for tenant")
			continue
		}
		s.log.Info().
			Str("tenant_id", tenantID).
			Int("iqama_tasks", result.Results.IqamaTasks).
			Int("saudization_tasks", result.Results.SaudizationTasks).
			Int("letters", result.Results.LettersGenerated).
			Msg("scheduled run completed for tenant")
	}
}
