package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mawared-backend/internal/models"
	"mawared-backend/internal/saudization"
)

// StatusService computes a tenant's live Saudization status from the
// employee table, classified against the tenant's configured thresholds.
type StatusService struct {
	pool *pgxpool.Pool
}

func NewStatusService(pool *pgxpool.Pool) *StatusService {
	return &StatusService{pool: pool}
}

// CurrentStatus returns (nil, nil) for a tenant with no active employees —
// there is no meaningful ratio to classify.
func (s *StatusService) CurrentStatus(ctx context.Context, tenantID string, settings *models.ComplianceSettings) (*saudization.Status, error) {
	var saudiCount, totalCount int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE is_saudi), COUNT(*)
		FROM employees
		WHERE tenant_id = $1 AND employment_status = 'active'
	`, tenantID).Scan(&saudiCount, &totalCount)
	if err != nil {
		return nil, err
	}
	if totalCount == 0 {
		return nil, nil
	}

	rate := saudization.Rate(saudiCount, totalCount)
	return &saudization.Status{
		Rate:  rate,
		Color: saudization.Classify(rate, settings.SaudizationGreenThreshold, settings.SaudizationYellowThreshold),
	}, nil
}
