package autopilot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mawared-backend/internal/models"
)

func TestResolveSettingsSeedsDefaults(t *testing.T) {
	f := newFixture()

	settings, err := f.runner.resolveSettings(context.Background(), "t-1")
	require.NoError(t, err)

	assert.Equal(t, []int{60, 30, 7}, settings.IqamaReminderDays)
	assert.Equal(t, 60.0, settings.SaudizationGreenThreshold)
	assert.Equal(t, 40.0, settings.SaudizationYellowThreshold)
	assert.NotEmpty(t, settings.LetterFooterEn)
	assert.NotEmpty(t, settings.LetterFooterAr)

	require.Len(t, f.settings.created, 1, "defaults must be persisted on first run")
	assert.Equal(t, "t-1", f.settings.created[0].TenantID)
}

func TestResolveSettingsReturnsExisting(t *testing.T) {
	f := newFixture()
	f.settings.existing = &models.ComplianceSettings{
		TenantID:                   "t-1",
		IqamaReminderDays:          []int{90, 14},
		SaudizationGreenThreshold:  55,
		SaudizationYellowThreshold: 35,
	}

	settings, err := f.runner.resolveSettings(context.Background(), "t-1")
	require.NoError(t, err)

	assert.Equal(t, []int{90, 14}, settings.IqamaReminderDays)
	assert.Empty(t, f.settings.created)
}

func TestResolveSettingsDefaultCreationFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.settings.createErr = fmt.Errorf("insert boom")

	_, err := f.runner.resolveSettings(context.Background(), "t-1")

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "t-1", cfgErr.TenantID)
}

func TestResolveSettingsRejectsInvertedThresholds(t *testing.T) {
	f := newFixture()
	f.settings.existing = &models.ComplianceSettings{
		TenantID:                   "t-1",
		IqamaReminderDays:          []int{30},
		SaudizationGreenThreshold:  40,
		SaudizationYellowThreshold: 40,
	}

	_, err := f.runner.resolveSettings(context.Background(), "t-1")

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestResolveSettingsRejectsEmptyWindows(t *testing.T) {
	f := newFixture()
	f.settings.existing = &models.ComplianceSettings{
		TenantID:                   "t-1",
		IqamaReminderDays:          []int{},
		SaudizationGreenThreshold:  60,
		SaudizationYellowThreshold: 40,
	}

	_, err := f.runner.resolveSettings(context.Background(), "t-1")

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
