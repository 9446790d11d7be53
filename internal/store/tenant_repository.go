// Package store contains the PostgreSQL repositories behind the autopilot's
// source and sink interfaces. Everything the autopilot writes is append-only.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mawared-backend/internal/models"
)

type TenantRepository struct {
	pool *pgxpool.Pool
}

func NewTenantRepository(pool *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{pool: pool}
}

// Get returns (nil, nil) when the tenant does not exist.
func (r *TenantRepository) Get(ctx context.Context, tenantID string) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name_en, name_ar, is_demo
		FROM tenants WHERE id = $1
	`, tenantID).Scan(&tenant.ID, &tenant.NameEn, &tenant.NameAr, &tenant.IsDemo)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// DemoTenantID resolves the platform demo tenant, used when an invocation
// does not name a tenant explicitly.
func (r *TenantRepository) DemoTenantID(ctx context.Context) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		SELECT id::text FROM tenants WHERE is_demo = TRUE LIMIT 1
	`).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("no demo tenant configured")
	}
	return id, err
}

// ListIDs returns every tenant ID, for the daily scheduler sweep.
func (r *TenantRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
