// Package autopilot implements the daily compliance job: it scans employee
// records for expiring Iqamas, projects Saudization-ratio risk, and
// materializes the analysis into reminder letters, tasks, and an audit run.
//
// The whole job is a single-threaded, sequential pass. Windows and employees
// are visited one at a time; every write is append-only and goes through a
// narrow sink interface so dry runs and tests can swap in stand-ins.
package autopilot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mawared-backend/internal/models"
)

// ErrTenantNotFound is returned when the requested (or demo) tenant does not
// exist. Fatal for the invocation.
var ErrTenantNotFound = errors.New("tenant not found")

// Runner wires the autopilot's sources and sinks. All fields are required.
type Runner struct {
	Tenants   TenantSource
	Settings  SettingsStore
	Employees EmployeeSource
	Status    StatusSource
	Snapshots SnapshotSource
	Renderer  LetterRenderer
	Tasks     TaskSink
	Letters   LetterSink
	Runs      RunSink
	Log       zerolog.Logger
}

// Request is one invocation of the autopilot.
type Request struct {
	TenantID string    // empty → demo tenant lookup
	RunDate  time.Time // zero → today (UTC)
	DryRun   bool
}

// Result is the response payload of one invocation.
type Result struct {
	Success  bool        `json:"success"`
	TenantID string      `json:"tenant_id"`
	RunDate  string      `json:"run_date"`
	DryRun   bool        `json:"dry_run"`
	Results  Counts      `json:"results"`
	Metadata RunMetadata `json:"metadata"`
}

// Counts aggregates what one run produced (or would have, in dry-run mode).
type Counts struct {
	IqamaTasks            int `json:"iqama_tasks"`
	SaudizationTasks      int `json:"saudization_tasks"`
	TotalEmployeesChecked int `json:"total_employees_checked"`
	LettersGenerated      int `json:"letters_generated"`
}

// RunMetadata is the full structured trace persisted with the audit row.
type RunMetadata struct {
	RemindersGenerated  []ReminderTrace `json:"reminders_generated"`
	LettersCreated      []string        `json:"letters_created"`
	SaudizationAnalysis *RiskAnalysis   `json:"saudization_analysis"`
}

// ReminderTrace records one (employee, window) hit.
type ReminderTrace struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeNo   string `json:"employee_no"`
	ReminderDays int    `json:"reminder_days"`
	ExpiryDate   string `json:"expiry_date"`
	TaskID       string `json:"task_id"`
	LettersCount int    `json:"letters_count"`
}

// effects bundles the write-side collaborators for one run. Dry runs get
// discard implementations so the counting logic is identical either way.
type effects struct {
	renderer LetterRenderer
	tasks    TaskSink
	letters  LetterSink
}

func (r *Runner) effects(dryRun bool) effects {
	if dryRun {
		return effects{renderer: discardRenderer{}, tasks: discardSinks{}, letters: discardSinks{}}
	}
	return effects{renderer: r.Renderer, tasks: r.Tasks, letters: r.Letters}
}

// Run executes one autopilot invocation: settings → iqama scan → saudization
// projection → run record. Fatal errors abort with no rollback of writes
// already made; the audit insert alone is allowed to fail quietly.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	tenantID := req.TenantID
	if tenantID == "" {
		id, err := r.Tenants.DemoTenantID(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve demo tenant: %w", err)
		}
		tenantID = id
	}

	tenant, err := r.Tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, tenantID)
	}

	asOf := truncateToDay(req.RunDate)
	if req.RunDate.IsZero() {
		asOf = truncateToDay(time.Now().UTC())
	}

	log := r.Log.With().
		Str("tenant_id", tenantID).
		Str("run_date", asOf.Format(dateLayout)).
		Bool("dry_run", req.DryRun).
		Logger()
	log.Info().Msg("compliance autopilot run started")

	settings, err := r.resolveSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	fx := r.effects(req.DryRun)

	scan, err := r.scanIqamaExpiries(ctx, log, tenant, settings, asOf, fx)
	if err != nil {
		return nil, err
	}

	risk := r.analyzeSaudizationRisk(ctx, log, tenantID, settings, asOf)

	saudizationTasks := 0
	if risk.NeedsTask {
		if _, err := fx.tasks.InsertTask(ctx, buildSaudizationTask(tenantID, asOf, risk)); err != nil {
			return nil, fmt.Errorf("insert saudization task: %w", err)
		}
		saudizationTasks = 1
	}

	metadata := RunMetadata{
		RemindersGenerated:  scan.Trace,
		LettersCreated:      scan.LetterPaths,
		SaudizationAnalysis: risk,
	}
	counts := Counts{
		IqamaTasks:            scan.TasksCreated,
		SaudizationTasks:      saudizationTasks,
		TotalEmployeesChecked: scan.EmployeesChecked,
		LettersGenerated:      scan.LettersGenerated,
	}

	r.recordRun(ctx, log, tenantID, asOf, counts, metadata, req.DryRun)

	log.Info().
		Int("iqama_tasks", counts.IqamaTasks).
		Int("saudization_tasks", counts.SaudizationTasks).
		Int("employees_checked", counts.TotalEmployeesChecked).
		Int("letters_generated", counts.LettersGenerated).
		Msg("compliance autopilot run finished")

	return &Result{
		Success:  true,
		TenantID: tenantID,
		RunDate:  asOf.Format(dateLayout),
		DryRun:   req.DryRun,
		Results:  counts,
		Metadata: metadata,
	}, nil
}

// recordRun persists the audit row for a live run. Dry runs persist nothing;
// a failed insert is logged and swallowed — the run's primary effects are
// already on disk by this point.
func (r *Runner) recordRun(ctx context.Context, log zerolog.Logger, tenantID string, asOf time.Time, counts Counts, metadata RunMetadata, dryRun bool) {
	if dryRun {
		return
	}

	run := &models.ComplianceRun{
		TenantID:              tenantID,
		RunDate:               asOf,
		IqamaTasksCount:       counts.IqamaTasks,
		SaudizationTasksCount: counts.SaudizationTasks,
		TotalEmployeesChecked: counts.TotalEmployeesChecked,
		Status:                models.RunStatusCompleted,
		Metadata:              metadata,
	}
	if err := r.Runs.InsertRun(ctx, run); err != nil {
		log.Error().Err(err).Msg("run audit insert failed")
	}
}
