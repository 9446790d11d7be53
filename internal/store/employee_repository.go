package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mawared-backend/internal/models"
)

type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// ExpiringIqamas returns active non-Saudi employees whose Iqama expires in
// [from, to] inclusive, ordered soonest first.
func (r *EmployeeRepository) ExpiringIqamas(ctx context.Context, tenantID string, from, to time.Time) ([]models.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, tenant_id::text, employee_no,
			full_name_en, full_name_ar, job_title,
			iqama_expiry, is_saudi, employment_status
		FROM employees
		WHERE tenant_id = $1
		  AND is_saudi = FALSE
		  AND employment_status = 'active'
		  AND iqama_expiry IS NOT NULL
		  AND iqama_expiry BETWEEN $2 AND $3
		ORDER BY iqama_expiry ASC
	`, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.EmployeeNo,
			&e.FullNameEn, &e.FullNameAr, &e.JobTitle,
			&e.IqamaExpiry, &e.IsSaudi, &e.EmploymentStatus,
		); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
