package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mawared-backend/internal/models"
)

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// RateHistory returns the tenant's daily Saudization-rate points in [from, to]
// in chronological order, as the trend fit expects.
func (r *SnapshotRepository) RateHistory(ctx context.Context, tenantID string, from, to time.Time) ([]models.SaudizationSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tenant_id::text, snap_date, saudization_rate
		FROM saudization_snapshots
		WHERE tenant_id = $1 AND snap_date BETWEEN $2 AND $3
		ORDER BY snap_date ASC
	`, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.SaudizationSnapshot
	for rows.Next() {
		var s models.SaudizationSnapshot
		if err := rows.Scan(&s.TenantID, &s.SnapDate, &s.SaudizationRate); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
