package autopilot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mawared-backend/internal/models"
)

func TestRunCascadingWindowMatches(t *testing.T) {
	// Expiry five days out sits inside all three default windows, so every
	// window fires its own task on the same run.
	f := newFixture()
	asOf := day("2026-08-31")
	f.employees.list = []models.Employee{activeEmployee("e-1", "EMP-001", asOf.AddDate(0, 0, 5))}

	res, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Results.IqamaTasks)
	assert.Equal(t, 3, res.Results.TotalEmployeesChecked)
	assert.Equal(t, 6, res.Results.LettersGenerated)
	require.Len(t, res.Metadata.RemindersGenerated, 3)

	windows := []int{}
	for _, trace := range res.Metadata.RemindersGenerated {
		windows = append(windows, trace.ReminderDays)
		assert.Equal(t, "e-1", trace.EmployeeID)
		assert.Equal(t, "EMP-001", trace.EmployeeNo)
		assert.Equal(t, "2026-09-05", trace.ExpiryDate)
		assert.Equal(t, 2, trace.LettersCount)
		assert.NotEmpty(t, trace.TaskID)
	}
	assert.Equal(t, []int{60, 30, 7}, windows, "windows fire in configured order")
}

func TestRunTaskFieldsPerWindow(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")
	expiry := asOf.AddDate(0, 0, 5)
	f.settings.existing = settingsWithWindows("t-1", 7)
	f.employees.list = []models.Employee{activeEmployee("e-1", "EMP-001", expiry)}

	_, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err)

	require.Len(t, f.sinks.tasks, 1)
	task := f.sinks.tasks[0]
	assert.Equal(t, "compliance", task.Module)
	assert.Equal(t, models.PriorityUrgent, task.Priority)
	assert.Equal(t, expiry.AddDate(0, 0, -3), task.DueAt)
	assert.Equal(t, "hr_officer", task.OwnerRole)
	assert.Contains(t, task.Title, "EMP-001")
	assert.Contains(t, task.Description, "2026-09-05")
	assert.Equal(t, 7, task.Metadata["reminder_days"])

	paths, ok := task.Metadata["letter_paths"].([]string)
	require.True(t, ok)
	assert.Len(t, paths, 2)
}

func TestIqamaPriorityBands(t *testing.T) {
	assert.Equal(t, models.PriorityUrgent, iqamaPriority(7))
	assert.Equal(t, models.PriorityHigh, iqamaPriority(8))
	assert.Equal(t, models.PriorityHigh, iqamaPriority(30))
	assert.Equal(t, models.PriorityMedium, iqamaPriority(31))
	assert.Equal(t, models.PriorityMedium, iqamaPriority(60))
	assert.Equal(t, models.PriorityLow, iqamaPriority(61))
}

func TestRunLetterRecords(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")
	expiry := asOf.AddDate(0, 0, 5)
	f.settings.existing = settingsWithWindows("t-1", 7)
	f.employees.list = []models.Employee{activeEmployee("e-1", "EMP-001", expiry)}

	res, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err)

	require.Len(t, f.sinks.letters, 2)
	langs := []string{f.sinks.letters[0].Lang, f.sinks.letters[1].Lang}
	assert.ElementsMatch(t, []string{"en", "ar"}, langs)
	for _, letter := range f.sinks.letters {
		assert.Equal(t, models.LetterTypeIqamaRenewal, letter.Type)
		assert.Equal(t, 5, letter.ReminderDay, "countdown at generation time, not the window")
		assert.Equal(t, expiry, letter.ExpiryDate)
		assert.Contains(t, letter.StoragePath, "letters/t-1/e-1/")
	}
	assert.Len(t, res.Metadata.LettersCreated, 2)
}

func TestRunPartialLetterFailureStillCreatesTask(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")
	f.settings.existing = settingsWithWindows("t-1", 7)
	f.employees.list = []models.Employee{activeEmployee("e-1", "EMP-001", asOf.AddDate(0, 0, 5))}
	f.renderer.failLangs["ar"] = true

	res, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Results.IqamaTasks)
	assert.Equal(t, 1, res.Results.LettersGenerated)
	require.Len(t, f.sinks.tasks, 1)
	require.Len(t, f.sinks.letters, 1)
	assert.Equal(t, "en", f.sinks.letters[0].Lang)
	assert.Equal(t, 1, res.Metadata.RemindersGenerated[0].LettersCount)
}

func TestRunWindowQueryFailureSkipsWindowOnly(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")
	f.employees.list = []models.Employee{activeEmployee("e-1", "EMP-001", asOf.AddDate(0, 0, 5))}
	f.employees.failWindows[30] = true

	res, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err)

	// 60 and 7 day windows still fire; the failed 30-day window is skipped.
	assert.Equal(t, 2, res.Results.IqamaTasks)
	windows := []int{}
	for _, trace := range res.Metadata.RemindersGenerated {
		windows = append(windows, trace.ReminderDays)
	}
	assert.Equal(t, []int{60, 7}, windows)
}

func TestRunTaskInsertFailureIsFatal(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")
	f.employees.list = []models.Employee{activeEmployee("e-1", "EMP-001", asOf.AddDate(0, 0, 5))}
	f.sinks.taskErr = fmt.Errorf("task insert boom")

	_, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMP-001")
}

func TestRunEmployeeOutsideAllWindows(t *testing.T) {
	f := newFixture()
	asOf := day("2026-08-31")
	f.employees.list = []models.Employee{activeEmployee("e-1", "EMP-001", asOf.AddDate(0, 0, 120))}

	res, err := f.runner.Run(context.Background(), Request{TenantID: "t-1", RunDate: asOf})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Results.IqamaTasks)
	assert.Equal(t, 0, res.Results.TotalEmployeesChecked)
	assert.Empty(t, f.sinks.tasks)
}

func settingsWithWindows(tenantID string, windows ...int) *models.ComplianceSettings {
	s := models.DefaultComplianceSettings(tenantID)
	s.IqamaReminderDays = windows
	return s
}
