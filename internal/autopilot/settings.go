package autopilot

import (
	"context"
	"fmt"

	"mawared-backend/internal/models"
)

// ConfigurationError marks a fatal settings problem: the whole invocation
// aborts, nothing is scanned.
type ConfigurationError struct {
	TenantID string
	Err      error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("compliance settings for tenant %s: %v", e.TenantID, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// resolveSettings loads the tenant's compliance settings, seeding the
// hard-coded defaults on first run. Settings that violate the threshold
// ordering are rejected rather than silently producing nonsense color bands.
func (r *Runner) resolveSettings(ctx context.Context, tenantID string) (*models.ComplianceSettings, error) {
	settings, err := r.Settings.Get(ctx, tenantID)
	if err != nil {
		return nil, &ConfigurationError{TenantID: tenantID, Err: fmt.Errorf("load: %w", err)}
	}

	if settings == nil {
		settings = models.DefaultComplianceSettings(tenantID)
		if err := r.Settings.Create(ctx, settings); err != nil {
			return nil, &ConfigurationError{TenantID: tenantID, Err: fmt.Errorf("create defaults: %w", err)}
		}
		r.Log.Info().Str("tenant_id", tenantID).Msg("seeded default compliance settings")
	}

	if settings.SaudizationGreenThreshold <= settings.SaudizationYellowThreshold {
		return nil, &ConfigurationError{
			TenantID: tenantID,
			Err: fmt.Errorf("green threshold %.1f must exceed yellow threshold %.1f",
				settings.SaudizationGreenThreshold, settings.SaudizationYellowThreshold),
		}
	}
	if len(settings.IqamaReminderDays) == 0 {
		return nil, &ConfigurationError{TenantID: tenantID, Err: fmt.Errorf("no reminder windows configured")}
	}

	return settings, nil
}
