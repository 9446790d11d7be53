package autopilot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mawared-backend/internal/models"
	"mawared-backend/internal/saudization"
)

// In-memory stand-ins for the autopilot's collaborators. The write side
// records every call so tests can assert exact persistence behavior.

type fakeTenants struct {
	tenant  *models.Tenant
	demoID  string
	demoErr error
}

func (f *fakeTenants) Get(_ context.Context, tenantID string) (*models.Tenant, error) {
	if f.tenant != nil && f.tenant.ID == tenantID {
		return f.tenant, nil
	}
	return nil, nil
}

func (f *fakeTenants) DemoTenantID(context.Context) (string, error) {
	return f.demoID, f.demoErr
}

type fakeSettings struct {
	existing  *models.ComplianceSettings
	getErr    error
	createErr error
	created   []*models.ComplianceSettings
}

func (f *fakeSettings) Get(context.Context, string) (*models.ComplianceSettings, error) {
	return f.existing, f.getErr
}

func (f *fakeSettings) Create(_ context.Context, s *models.ComplianceSettings) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

type fakeEmployees struct {
	list        []models.Employee
	err         error
	failWindows map[int]bool // window length in days → fail that query
}

func (f *fakeEmployees) ExpiringIqamas(_ context.Context, _ string, from, to time.Time) ([]models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	window := int(to.Sub(from).Hours() / 24)
	if f.failWindows[window] {
		return nil, fmt.Errorf("window query boom")
	}
	var out []models.Employee
	for _, e := range f.list {
		if e.IqamaExpiry == nil || e.IsSaudi || e.EmploymentStatus != models.EmploymentActive {
			continue
		}
		d := *e.IqamaExpiry
		if !d.Before(from) && !d.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeStatus struct {
	status *saudization.Status
	err    error
}

func (f *fakeStatus) CurrentStatus(context.Context, string, *models.ComplianceSettings) (*saudization.Status, error) {
	return f.status, f.err
}

type fakeSnapshots struct {
	snaps []models.SaudizationSnapshot
	err   error
}

func (f *fakeSnapshots) RateHistory(context.Context, string, time.Time, time.Time) ([]models.SaudizationSnapshot, error) {
	return f.snaps, f.err
}

type memSinks struct {
	tasks     []*models.ComplianceTask
	letters   []*models.ComplianceLetter
	runs      []*models.ComplianceRun
	taskErr   error
	letterErr error
	runErr    error
}

func (m *memSinks) InsertTask(_ context.Context, task *models.ComplianceTask) (string, error) {
	if m.taskErr != nil {
		return "", m.taskErr
	}
	id := fmt.Sprintf("task-%d", len(m.tasks)+1)
	task.ID = id
	m.tasks = append(m.tasks, task)
	return id, nil
}

func (m *memSinks) InsertLetter(_ context.Context, letter *models.ComplianceLetter) error {
	if m.letterErr != nil {
		return m.letterErr
	}
	m.letters = append(m.letters, letter)
	return nil
}

func (m *memSinks) InsertRun(_ context.Context, run *models.ComplianceRun) error {
	if m.runErr != nil {
		return m.runErr
	}
	m.runs = append(m.runs, run)
	return nil
}

type fakeRenderer struct {
	failLangs map[string]bool
	calls     int
}

func (f *fakeRenderer) Render(_ context.Context, req LetterRequest) (string, error) {
	f.calls++
	if f.failLangs[req.Lang] {
		return "", fmt.Errorf("render %s boom", req.Lang)
	}
	return LetterStoragePath(req.Tenant.ID, req.Employee.ID, req.Type, req.Lang, req.AsOf), nil
}

// fixture bundles a fully wired runner over in-memory collaborators.
type fixture struct {
	runner    *Runner
	tenants   *fakeTenants
	settings  *fakeSettings
	employees *fakeEmployees
	status    *fakeStatus
	snapshots *fakeSnapshots
	sinks     *memSinks
	renderer  *fakeRenderer
}

func newFixture() *fixture {
	f := &fixture{
		tenants: &fakeTenants{
			tenant: &models.Tenant{ID: "t-1", NameEn: "Al Amal Trading", NameAr: "شركة الأمل للتجارة"},
			demoID: "t-1",
		},
		settings:  &fakeSettings{},
		employees: &fakeEmployees{failWindows: map[int]bool{}},
		status:    &fakeStatus{},
		snapshots: &fakeSnapshots{},
		sinks:     &memSinks{},
		renderer:  &fakeRenderer{failLangs: map[string]bool{}},
	}
	f.runner = &Runner{
		Tenants:   f.tenants,
		Settings:  f.settings,
		Employees: f.employees,
		Status:    f.status,
		Snapshots: f.snapshots,
		Renderer:  f.renderer,
		Tasks:     f.sinks,
		Letters:   f.sinks,
		Runs:      f.sinks,
		Log:       zerolog.Nop(),
	}
	return f
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(t time.Time) *time.Time { return &t }

func activeEmployee(id, no string, expiry time.Time) models.Employee {
	return models.Employee{
		ID:               id,
		TenantID:         "t-1",
		EmployeeNo:       no,
		FullNameEn:       "Ahmed Khan",
		FullNameAr:       "أحمد خان",
		IqamaExpiry:      datePtr(expiry),
		IsSaudi:          false,
		EmploymentStatus: models.EmploymentActive,
	}
}

func flatSnapshots(n int, rate float64, end time.Time) []models.SaudizationSnapshot {
	snaps := make([]models.SaudizationSnapshot, n)
	for i := range snaps {
		snaps[i] = models.SaudizationSnapshot{
			TenantID:        "t-1",
			SnapDate:        end.AddDate(0, 0, i-n+1),
			SaudizationRate: rate,
		}
	}
	return snaps
}

func decliningSnapshots(n int, start, perDay float64, end time.Time) []models.SaudizationSnapshot {
	snaps := make([]models.SaudizationSnapshot, n)
	for i := range snaps {
		snaps[i] = models.SaudizationSnapshot{
			TenantID:        "t-1",
			SnapDate:        end.AddDate(0, 0, i-n+1),
			SaudizationRate: start - perDay*float64(i),
		}
	}
	return snaps
}
