package autopilot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mawared-backend/internal/models"
	"mawared-backend/internal/saudization"
)

func TestRunDryRunParity(t *testing.T) {
	asOf := day("2026-08-31")

	setup := func() *fixture {
		f := newFixture()
		f.employees.list = []models.Employee{
			activeEmployee("e-1", "EMP-001", asOf.AddDate(0, 0, 5)),
			activeEmployee("e-2", "EMP-002", asOf.AddDate(0, 0, 45)),
		}
		f.status.status = &saudization.Status{Rate: 62, Color: saudization.ColorGreen}
		f.snapshots.snaps = decliningSnapshots(10, 71, 1, asOf)
		return f
	}

	live := setup()
	liveRes, err := live.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err)

	dry := setup()
	dryRes, err := dry.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf, DryRun: true})
	require.NoError(t, err)

	// Identical counts over the same input.
	assert.Equal(t, liveRes.Results, dryRes.Results)
	assert.Equal(t, len(liveRes.Metadata.RemindersGenerated), len(dryRes.Metadata.RemindersGenerated))
	assert.Equal(t, liveRes.Metadata.LettersCreated, dryRes.Metadata.LettersCreated)

	// Zero persistence in dry-run mode.
	assert.Empty(t, dry.sinks.tasks)
	assert.Empty(t, dry.sinks.letters)
	assert.Empty(t, dry.sinks.runs)
	assert.Equal(t, 0, dry.renderer.calls, "dry run never touches the rendering collaborator")
	assert.True(t, dryRes.DryRun)

	// The live run persisted everything it reported.
	assert.Len(t, live.sinks.tasks, liveRes.Results.IqamaTasks+liveRes.Results.SaudizationTasks)
	assert.Len(t, live.sinks.letters, liveRes.Results.LettersGenerated)
	require.Len(t, live.sinks.runs, 1)
}

func TestRunRecordsAudit(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")
	f.employees.list = []models.Employee{activeEmployee("e-1", "EMP-001", asOf.AddDate(0, 0, 5))}

	res, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err)
	assert.True(t, res.Success)

	require.Len(t, f.sinks.runs, 1)
	run := f.sinks.runs[0]
	assert.Equal(t, "t-1", run.TenantID)
	assert.Equal(t, asOf, run.RunDate)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, res.Results.IqamaTasks, run.IqamaTasksCount)
	assert.Equal(t, res.Results.TotalEmployeesChecked, run.TotalEmployeesChecked)

	metadata, ok := run.Metadata.(RunMetadata)
	require.True(t, ok)
	assert.Len(t, metadata.RemindersGenerated, res.Results.IqamaTasks)
}

func TestRunAuditInsertFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")
	f.employees.list = []models.Employee{activeEmployee("e-1", "EMP-001", asOf.AddDate(0, 0, 5))}
	f.sinks.runErr = fmt.Errorf("audit boom")

	res, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err, "primary effects already landed; audit failure must not fail the run")
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Results.IqamaTasks)
}

func TestRunResolvesDemoTenant(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")

	res, err := f.runner.Run(context.Background(), Request{RunDate: asOf})
	require.NoError(t, err)
	assert.Equal(t, "t-1", res.TenantID)
}

func TestRunDemoTenantResolutionFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.tenants.demoErr = fmt.Errorf("no demo tenant")

	_, err := f.runner.Run(context.Background(), Request{RunDate: day("2026-08-31")})
	require.Error(t, err)
}

func TestRunUnknownTenantIsFatal(t *testing.T) {
	f := newFixture()

	_, err := f.runner.Run(context.Background(), Request{TenantID: "t-missing", RunDate: day("2026-08-31")})
	require.ErrorIs(t, err, ErrTenantNotFound)
}

func TestRunResponseShape(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")

	res, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "t-1", res.TenantID)
	assert.Equal(t, "2026-08-31", res.RunDate)
	assert.False(t, res.DryRun)
	assert.NotNil(t, res.Metadata.RemindersGenerated)
	assert.NotNil(t, res.Metadata.LettersCreated)
	assert.NotNil(t, res.Metadata.SaudizationAnalysis)
}
