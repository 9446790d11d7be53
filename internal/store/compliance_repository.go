package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mawared-backend/internal/models"
)

// ComplianceRepository implements the autopilot's task, letter, and run
// sinks. All three tables are append-only: rows are inserted once and never
// touched again by this service.
type ComplianceRepository struct {
	pool *pgxpool.Pool
}

func NewComplianceRepository(pool *pgxpool.Pool) *ComplianceRepository {
	return &ComplianceRepository{pool: pool}
}

func (r *ComplianceRepository) InsertTask(ctx context.Context, task *models.ComplianceTask) (string, error) {
	metadata, err := json.Marshal(task.Metadata)
	if err != nil {
		return "", err
	}

	task.ID = uuid.NewString()
	task.CreatedAt = time.Now().UTC()

	_, err = r.pool.Exec(ctx, `
		INSERT INTO compliance_tasks (
			id, tenant_id, module, title, description,
			due_at, priority, owner_role, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		task.ID, task.TenantID, task.Module, task.Title, task.Description,
		task.DueAt, task.Priority, task.OwnerRole, metadata, task.CreatedAt,
	)
	if err != nil {
		return "", err
	}
	return task.ID, nil
}

func (r *ComplianceRepository) InsertLetter(ctx context.Context, letter *models.ComplianceLetter) error {
	letter.ID = uuid.NewString()
	letter.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO compliance_letters (
			id, tenant_id, employee_id, type, lang,
			expiry_date, reminder_day, storage_path, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		letter.ID, letter.TenantID, letter.EmployeeID, letter.Type, letter.Lang,
		letter.ExpiryDate, letter.ReminderDay, letter.StoragePath, letter.CreatedAt,
	)
	return err
}

func (r *ComplianceRepository) InsertRun(ctx context.Context, run *models.ComplianceRun) error {
	metadata, err := json.Marshal(run.Metadata)
	if err != nil {
		return err
	}

	run.ID = uuid.NewString()
	run.CreatedAt = time.Now().UTC()

	_, err = r.pool.Exec(ctx, `
		INSERT INTO compliance_runs (
			id, tenant_id, run_date, iqama_tasks_count, saudization_tasks_count,
			total_employees_checked, status, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		run.ID, run.TenantID, run.RunDate, run.IqamaTasksCount, run.SaudizationTasksCount,
		run.TotalEmployeesChecked, run.Status, metadata, run.CreatedAt,
	)
	return err
}
