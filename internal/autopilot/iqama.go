package autopilot

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"mawared-backend/internal/models"
)

// letterLangs is the fixed set of languages every reminder cycle renders.
var letterLangs = []string{"en", "ar"}

type scanResult struct {
	TasksCreated     int
	EmployeesChecked int
	LettersGenerated int
	LetterPaths      []string
	Trace            []ReminderTrace
}

// scanIqamaExpiries walks every configured reminder window and schedules one
// task plus bilingual letters per matching employee. Windows are processed
// independently: an expiry that falls inside several windows on the same day
// fires each of them. A window whose query fails is logged and skipped; a
// failed task insert aborts the run.
func (r *Runner) scanIqamaExpiries(ctx context.Context, log zerolog.Logger, tenant *models.Tenant, settings *models.ComplianceSettings, asOf time.Time, fx effects) (*scanResult, error) {
	res := &scanResult{
		LetterPaths: []string{},
		Trace:       []ReminderTrace{},
	}

	for _, window := range settings.IqamaReminderDays {
		upper := asOf.AddDate(0, 0, window)

		employees, err := r.Employees.ExpiringIqamas(ctx, tenant.ID, asOf, upper)
		if err != nil {
			log.Error().Err(err).Int("window_days", window).Msg("iqama window query failed, skipping window")
			continue
		}

		for _, emp := range employees {
			res.EmployeesChecked++
			if emp.IqamaExpiry == nil {
				// The source filters these out; guard against a misbehaving one.
				continue
			}
			expiry := *emp.IqamaExpiry

			paths := r.generateLetters(ctx, log, tenant, settings, emp, expiry, asOf, fx)

			task := buildIqamaTask(tenant.ID, emp, expiry, window, paths)
			taskID, err := fx.tasks.InsertTask(ctx, task)
			if err != nil {
				return nil, fmt.Errorf("insert iqama task for employee %s: %w", emp.EmployeeNo, err)
			}

			res.TasksCreated++
			res.LettersGenerated += len(paths)
			res.LetterPaths = append(res.LetterPaths, paths...)
			res.Trace = append(res.Trace, ReminderTrace{
				EmployeeID:   emp.ID,
				EmployeeNo:   emp.EmployeeNo,
				ReminderDays: window,
				ExpiryDate:   expiry.Format(dateLayout),
				TaskID:       taskID,
				LettersCount: len(paths),
			})
		}
	}

	return res, nil
}

// generateLetters renders the reminder in both languages and records each
// success. A failed language is logged and skipped — the employee still gets
// a task even with zero letters.
func (r *Runner) generateLetters(ctx context.Context, log zerolog.Logger, tenant *models.Tenant, settings *models.ComplianceSettings, emp models.Employee, expiry, asOf time.Time, fx effects) []string {
	var paths []string

	for _, lang := range letterLangs {
		footer := settings.LetterFooterEn
		if lang == "ar" {
			footer = settings.LetterFooterAr
		}

		path, err := fx.renderer.Render(ctx, LetterRequest{
			Tenant:   *tenant,
			Employee: emp,
			Lang:     lang,
			Type:     models.LetterTypeIqamaRenewal,
			Footer:   footer,
			AsOf:     asOf,
		})
		if err != nil {
			log.Warn().Err(err).
				Str("employee_id", emp.ID).
				Str("lang", lang).
				Msg("letter generation failed, continuing without it")
			continue
		}

		letter := &models.ComplianceLetter{
			TenantID:    tenant.ID,
			EmployeeID:  emp.ID,
			Type:        models.LetterTypeIqamaRenewal,
			Lang:        lang,
			ExpiryDate:  expiry,
			ReminderDay: daysUntil(asOf, expiry),
			StoragePath: path,
		}
		if err := fx.letters.InsertLetter(ctx, letter); err != nil {
			log.Error().Err(err).Str("path", path).Msg("letter record insert failed")
		}

		paths = append(paths, path)
	}

	return paths
}

func buildIqamaTask(tenantID string, emp models.Employee, expiry time.Time, window int, letterPaths []string) *models.ComplianceTask {
	if letterPaths == nil {
		letterPaths = []string{}
	}
	return &models.ComplianceTask{
		TenantID: tenantID,
		Module:   "compliance",
		Title:    fmt.Sprintf("Iqama renewal: %s (%s)", emp.FullNameEn, emp.EmployeeNo),
		Description: fmt.Sprintf(
			"Iqama for employee %s — %s / %s — expires on %s. Initiate renewal before the due date.",
			emp.EmployeeNo, emp.FullNameEn, emp.FullNameAr, expiry.Format(dateLayout)),
		DueAt:     expiry.AddDate(0, 0, -3),
		Priority:  iqamaPriority(window),
		OwnerRole: "hr_officer",
		Metadata: map[string]any{
			"source":        "compliance_autopilot",
			"employee_id":   emp.ID,
			"employee_no":   emp.EmployeeNo,
			"reminder_days": window,
			"iqama_expiry":  expiry.Format(dateLayout),
			"letter_paths":  letterPaths,
		},
	}
}

// iqamaPriority maps the matched reminder window onto a task priority.
func iqamaPriority(windowDays int) string {
	switch {
	case windowDays <= 7:
		return models.PriorityUrgent
	case windowDays <= 30:
		return models.PriorityHigh
	case windowDays <= 60:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// ── Date helpers ─────────────────────────────────────────────────

const dateLayout = "2006-01-02"

// truncateToDay strips the time component, keeping only the date.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysUntil returns the whole-day countdown from one date to another,
// rounding partial days up.
func daysUntil(from, to time.Time) int {
	return int(math.Ceil(truncateToDay(to).Sub(truncateToDay(from)).Hours() / 24))
}
