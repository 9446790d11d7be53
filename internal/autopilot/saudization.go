package autopilot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mawared-backend/internal/models"
	"mawared-backend/internal/saudization"
)

const (
	// minTrendPoints is the minimum history required before a projection
	// is attempted.
	minTrendPoints = 7
	// projectionDays is how far forward the fitted trend is extrapolated.
	projectionDays = 30
)

// RiskAnalysis is the outcome of one Saudization projection. Field naming
// matches the run-metadata wire format consumed by the dashboard.
type RiskAnalysis struct {
	NeedsTask        bool     `json:"needsTask"`
	Reason           string   `json:"reason,omitempty"`
	CurrentRate      float64  `json:"current_rate"`
	CurrentColor     string   `json:"current_color,omitempty"`
	ProjectedRate    *float64 `json:"projected_rate,omitempty"`
	ProjectedColor   string   `json:"projected_color,omitempty"`
	TrendPerDay      *float64 `json:"trend_per_day,omitempty"`
	HistoricalPoints int      `json:"historical_points,omitempty"`
}

// analyzeSaudizationRisk projects the tenant's Saudization rate 30 days
// forward from its recent snapshot history and decides whether the projected
// color band is a degradation worth a proactive task. Missing status or thin
// history short-circuits to a no-op result — never an error.
func (r *Runner) analyzeSaudizationRisk(ctx context.Context, log zerolog.Logger, tenantID string, settings *models.ComplianceSettings, asOf time.Time) *RiskAnalysis {
	status, err := r.Status.CurrentStatus(ctx, tenantID, settings)
	if err != nil {
		log.Error().Err(err).Msg("saudization status unavailable")
		return &RiskAnalysis{NeedsTask: false, Reason: "no current status"}
	}
	if status == nil {
		return &RiskAnalysis{NeedsTask: false, Reason: "no current status"}
	}

	snapshots, err := r.Snapshots.RateHistory(ctx, tenantID, asOf.AddDate(0, 0, -projectionDays), asOf)
	if err != nil {
		log.Error().Err(err).Msg("saudization history query failed")
		snapshots = nil
	}
	if len(snapshots) < minTrendPoints {
		return &RiskAnalysis{
			NeedsTask:        false,
			Reason:           "insufficient history",
			CurrentRate:      status.Rate,
			CurrentColor:     status.Color,
			HistoricalPoints: len(snapshots),
		}
	}

	rates := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		rates[i] = snap.SaudizationRate
	}
	slope := TrendSlope(rates)

	projected := status.Rate + slope*projectionDays
	projectedColor := saudization.Classify(projected,
		settings.SaudizationGreenThreshold, settings.SaudizationYellowThreshold)

	// Only a *transition into* yellow or red warrants a task. An improving
	// trend, or a tenant already sitting in the projected band, does not.
	needsTask := projectedColor != status.Color &&
		(projectedColor == saudization.ColorYellow || projectedColor == saudization.ColorRed)

	return &RiskAnalysis{
		NeedsTask:        needsTask,
		CurrentRate:      status.Rate,
		CurrentColor:     status.Color,
		ProjectedRate:    &projected,
		ProjectedColor:   projectedColor,
		TrendPerDay:      &slope,
		HistoricalPoints: len(snapshots),
	}
}

func buildSaudizationTask(tenantID string, asOf time.Time, risk *RiskAnalysis) *models.ComplianceTask {
	projected := 0.0
	if risk.ProjectedRate != nil {
		projected = *risk.ProjectedRate
	}

	priority := models.PriorityHigh
	title := "Saudization ratio trending toward yellow band"
	recommendation := "Prioritize Saudi-national candidates for open positions and review upcoming non-Saudi hires."
	recommendationAr := "يرجى إعطاء الأولوية للمرشحين السعوديين للوظائف الشاغرة ومراجعة التعيينات القادمة."

	if risk.ProjectedColor == saudization.ColorRed {
		priority = models.PriorityUrgent
		title = "URGENT: Saudization ratio projected to fall into red band"
		recommendation = "Freeze non-Saudi hiring immediately and escalate a Saudi-national recruitment plan to management."
		recommendationAr = "يجب إيقاف توظيف غير السعوديين فورًا ورفع خطة توظيف عاجلة للكوادر السعودية إلى الإدارة."
	}

	return &models.ComplianceTask{
		TenantID: tenantID,
		Module:   "compliance",
		Title:    title,
		Description: fmt.Sprintf(
			"Current Saudization rate is %.1f%% (%s). The 30-day trend projects %.1f%% (%s). %s | %s",
			risk.CurrentRate, risk.CurrentColor, projected, risk.ProjectedColor,
			recommendation, recommendationAr),
		DueAt:     asOf.AddDate(0, 0, 7),
		Priority:  priority,
		OwnerRole: "hr_manager",
		Metadata: map[string]any{
			"source":   "compliance_autopilot",
			"analysis": risk,
		},
	}
}
