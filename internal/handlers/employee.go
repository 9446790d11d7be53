package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"mawared-backend/internal/database"
	"mawared-backend/internal/models"
)

// EmployeeHandler serves the read-only employee directory.
type EmployeeHandler struct {
	db database.Service
}

func NewEmployeeHandler(db database.Service) *EmployeeHandler {
	return &EmployeeHandler{db: db}
}

// ── List ───────────────────────────────────────────────────────

// List handles GET /api/employees?tenantId=...&status=...&expiringWithin=...
// expiringWithin (days) narrows to non-Saudi employees whose Iqama expires
// within that many days.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		JSONError(w, http.StatusBadRequest, "tenantId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := `
		SELECT id::text, tenant_id::text, employee_no,
			full_name_en, full_name_ar, job_title,
			iqama_expiry, is_saudi, employment_status,
			created_at, updated_at
		FROM employees
		WHERE tenant_id = $1`
	args := []any{tenantID}
	argIdx := 2

	if status := r.URL.Query().Get("status"); status != "" {
		query += ` AND employment_status = $2`
		args = append(args, status)
		argIdx++
	}
	if raw := r.URL.Query().Get("expiringWithin"); raw != "" {
		within, err := strconv.Atoi(raw)
		if err != nil || within <= 0 {
			JSONError(w, http.StatusBadRequest, "expiringWithin must be a positive number of days")
			return
		}
		query += ` AND is_saudi = FALSE AND iqama_expiry IS NOT NULL
			AND iqama_expiry <= CURRENT_DATE + make_interval(days => $` + strconv.Itoa(argIdx) + `)`
		args = append(args, within)
	}
	query += ` ORDER BY employee_no ASC`

	rows, err := h.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch employees")
		JSONError(w, http.StatusInternalServerError, "Failed to fetch employees")
		return
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.EmployeeNo,
			&e.FullNameEn, &e.FullNameAr, &e.JobTitle,
			&e.IqamaExpiry, &e.IsSaudi, &e.EmploymentStatus,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			log.Error().Err(err).Msg("failed to scan employee")
			continue
		}
		employees = append(employees, e)
	}

	JSON(w, http.StatusOK, map[string]any{
		"data":  employees,
		"total": len(employees),
	})
}

// ── GetByID ────────────────────────────────────────────────────

// GetByID handles GET /api/employees/{id}
func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		JSONError(w, http.StatusBadRequest, "Employee ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var e models.Employee
	err := h.db.GetPool().QueryRow(ctx, `
		SELECT id::text, tenant_id::text, employee_no,
			full_name_en, full_name_ar, job_title,
			iqama_expiry, is_saudi, employment_status,
			created_at, updated_at
		FROM employees WHERE id = $1
	`, id).Scan(
		&e.ID, &e.TenantID, &e.EmployeeNo,
		&e.FullNameEn, &e.FullNameAr, &e.JobTitle,
		&e.IqamaExpiry, &e.IsSaudi, &e.EmploymentStatus,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		JSONError(w, http.StatusNotFound, "Employee not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch employee")
		JSONError(w, http.StatusInternalServerError, "Failed to fetch employee")
		return
	}

	JSON(w, http.StatusOK, e)
}
