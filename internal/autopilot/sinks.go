package autopilot

import (
	"context"
	"fmt"
	"time"

	"mawared-backend/internal/models"
	"mawared-backend/internal/saudization"
)

// The autopilot reads from sources and append-writes through sinks. Nothing
// behind these interfaces is ever updated or deleted, so overlapping runs
// cannot corrupt state (they can, however, duplicate rows — deduplication is
// a scheduling-layer concern).

// SettingsStore loads and seeds per-tenant compliance configuration.
type SettingsStore interface {
	// Get returns (nil, nil) when the tenant has no settings row yet.
	Get(ctx context.Context, tenantID string) (*models.ComplianceSettings, error)
	Create(ctx context.Context, settings *models.ComplianceSettings) error
}

// TenantSource resolves tenant records and the demo tenant fallback.
type TenantSource interface {
	// Get returns (nil, nil) when the tenant does not exist.
	Get(ctx context.Context, tenantID string) (*models.Tenant, error)
	DemoTenantID(ctx context.Context) (string, error)
}

// EmployeeSource is the filtered read the Iqama scanner consumes: active,
// non-Saudi employees whose iqama_expiry falls in [from, to] inclusive.
type EmployeeSource interface {
	ExpiringIqamas(ctx context.Context, tenantID string, from, to time.Time) ([]models.Employee, error)
}

// StatusSource computes a tenant's current Saudization rate and color band.
type StatusSource interface {
	// CurrentStatus returns (nil, nil) when no status can be computed,
	// e.g. a tenant with zero active employees.
	CurrentStatus(ctx context.Context, tenantID string, settings *models.ComplianceSettings) (*saudization.Status, error)
}

// SnapshotSource returns daily Saudization-rate points in chronological order.
type SnapshotSource interface {
	RateHistory(ctx context.Context, tenantID string, from, to time.Time) ([]models.SaudizationSnapshot, error)
}

// TaskSink appends one task row and returns its ID.
type TaskSink interface {
	InsertTask(ctx context.Context, task *models.ComplianceTask) (string, error)
}

// LetterSink appends one letter-metadata row.
type LetterSink interface {
	InsertLetter(ctx context.Context, letter *models.ComplianceLetter) error
}

// RunSink appends one run-audit row.
type RunSink interface {
	InsertRun(ctx context.Context, run *models.ComplianceRun) error
}

// LetterRequest carries everything the rendering collaborator needs to
// produce one letter in one language.
type LetterRequest struct {
	Tenant   models.Tenant
	Employee models.Employee
	Lang     string // "en" | "ar"
	Type     string
	Footer   string
	AsOf     time.Time
}

// LetterRenderer produces a letter document and returns its storage path.
type LetterRenderer interface {
	Render(ctx context.Context, req LetterRequest) (string, error)
}

// LetterStoragePath is the canonical object key for a generated letter.
// Shared between the real renderer and the dry-run stand-in so both report
// identical paths.
func LetterStoragePath(tenantID, employeeID, letterType, lang string, asOf time.Time) string {
	return fmt.Sprintf("letters/%s/%s/%s_%s_%s.pdf",
		tenantID, employeeID, letterType, lang, asOf.Format("20060102"))
}

// ── Dry-run implementations ──────────────────────────────────────
// Dry-run mode swaps these in for the real sinks so the scan and analysis
// code paths are byte-for-byte the same as a live run, with zero persistence.

type discardSinks struct{}

func (discardSinks) InsertTask(context.Context, *models.ComplianceTask) (string, error) {
	return "", nil
}

func (discardSinks) InsertLetter(context.Context, *models.ComplianceLetter) error { return nil }

func (discardSinks) InsertRun(context.Context, *models.ComplianceRun) error { return nil }

// discardRenderer reports the path a live run would have produced without
// rendering or uploading anything.
type discardRenderer struct{}

func (discardRenderer) Render(_ context.Context, req LetterRequest) (string, error) {
	return LetterStoragePath(req.Tenant.ID, req.Employee.ID, req.Type, req.Lang, req.AsOf), nil
}
