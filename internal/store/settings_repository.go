package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mawared-backend/internal/models"
)

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns (nil, nil) when the tenant has no settings row yet.
func (r *SettingsRepository) Get(ctx context.Context, tenantID string) (*models.ComplianceSettings, error) {
	settings := &models.ComplianceSettings{}
	var days []int32

	err := r.pool.QueryRow(ctx, `
		SELECT tenant_id::text, iqama_reminder_days,
			saudization_green_threshold, saudization_yellow_threshold,
			letter_footer_en, letter_footer_ar
		FROM compliance_settings WHERE tenant_id = $1
	`, tenantID).Scan(
		&settings.TenantID, &days,
		&settings.SaudizationGreenThreshold, &settings.SaudizationYellowThreshold,
		&settings.LetterFooterEn, &settings.LetterFooterAr,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	settings.IqamaReminderDays = make([]int, len(days))
	for i, d := range days {
		settings.IqamaReminderDays[i] = int(d)
	}
	return settings, nil
}

func (r *SettingsRepository) Create(ctx context.Context, settings *models.ComplianceSettings) error {
	days := make([]int32, len(settings.IqamaReminderDays))
	for i, d := range settings.IqamaReminderDays {
		days[i] = int32(d)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO compliance_settings (
			tenant_id, iqama_reminder_days,
			saudization_green_threshold, saudization_yellow_threshold,
			letter_footer_en, letter_footer_ar
		) VALUES ($1, $2, $3, $4, $5, $6)
	`,
		settings.TenantID, days,
		settings.SaudizationGreenThreshold, settings.SaudizationYellowThreshold,
		settings.LetterFooterEn, settings.LetterFooterAr,
	)
	return err
}
