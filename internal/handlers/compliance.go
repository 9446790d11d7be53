package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"mawared-backend/internal/database"
	"mawared-backend/internal/models"
	"mawared-backend/internal/store"
)

// ComplianceHandler serves the read side of the autopilot's output: past
// runs, open tasks, and the live Saudization status.
type ComplianceHandler struct {
	db       database.Service
	settings *store.SettingsRepository
	status   *store.StatusService
}

func NewComplianceHandler(db database.Service) *ComplianceHandler {
	pool := db.GetPool()
	return &ComplianceHandler{
		db:       db,
		settings: store.NewSettingsRepository(pool),
		status:   store.NewStatusService(pool),
	}
}

// ── ListRuns ───────────────────────────────────────────────────

// ListRuns handles GET /api/compliance/runs?tenantId=...&limit=...
func (h *ComplianceHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		JSONError(w, http.StatusBadRequest, "tenantId is required")
		return
	}
	limit := queryLimit(r, 30)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.db.GetPool().Query(ctx, `
		SELECT id::text, tenant_id::text, run_date, iqama_tasks_count,
			saudization_tasks_count, total_employees_checked, status,
			metadata, created_at
		FROM compliance_runs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch compliance runs")
		JSONError(w, http.StatusInternalServerError, "Failed to fetch runs")
		return
	}
	defer rows.Close()

	type runRow struct {
		models.ComplianceRun
		Metadata json.RawMessage `json:"metadata"`
	}

	runs := []runRow{}
	for rows.Next() {
		var run runRow
		var metadata []byte
		if err := rows.Scan(
			&run.ID, &run.TenantID, &run.RunDate, &run.IqamaTasksCount,
			&run.SaudizationTasksCount, &run.TotalEmployeesChecked, &run.Status,
			&metadata, &run.CreatedAt,
		); err != nil {
			log.Error().Err(err).Msg("failed to scan compliance run")
			continue
		}
		run.Metadata = metadata
		runs = append(runs, run)
	}

	JSON(w, http.StatusOK, map[string]any{
		"data":  runs,
		"total": len(runs),
	})
}

// ── ListTasks ──────────────────────────────────────────────────

// ListTasks handles GET /api/compliance/tasks?tenantId=...&limit=...
func (h *ComplianceHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		JSONError(w, http.StatusBadRequest, "tenantId is required")
		return
	}
	limit := queryLimit(r, 100)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.db.GetPool().Query(ctx, `
		SELECT id::text, tenant_id::text, module, title, description,
			due_at, priority, owner_role, metadata, created_at
		FROM compliance_tasks
		WHERE tenant_id = $1
		ORDER BY due_at ASC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch compliance tasks")
		JSONError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}
	defer rows.Close()

	type taskRow struct {
		models.ComplianceTask
		Metadata json.RawMessage `json:"metadata"`
	}

	tasks := []taskRow{}
	for rows.Next() {
		var task taskRow
		var metadata []byte
		if err := rows.Scan(
			&task.ID, &task.TenantID, &task.Module, &task.Title, &task.Description,
			&task.DueAt, &task.Priority, &task.OwnerRole, &metadata, &task.CreatedAt,
		); err != nil {
			log.Error().Err(err).Msg("failed to scan compliance task")
			continue
		}
		task.Metadata = metadata
		tasks = append(tasks, task)
	}

	JSON(w, http.StatusOK, map[string]any{
		"data":  tasks,
		"total": len(tasks),
	})
}

// ── Saudization ────────────────────────────────────────────────

// Saudization handles GET /api/compliance/saudization?tenantId=...
// Classifies the live workforce ratio with the tenant's configured
// thresholds (or the platform defaults when none are configured yet).
func (h *ComplianceHandler) Saudization(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		JSONError(w, http.StatusBadRequest, "tenantId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	settings, err := h.settings.Get(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch compliance settings")
		JSONError(w, http.StatusInternalServerError, "Failed to fetch saudization status")
		return
	}
	if settings == nil {
		settings = models.DefaultComplianceSettings(tenantID)
	}

	status, err := h.status.CurrentStatus(ctx, tenantID, settings)
	if err != nil {
		log.Error().Err(err).Msg("failed to compute saudization status")
		JSONError(w, http.StatusInternalServerError, "Failed to fetch saudization status")
		return
	}
	if status == nil {
		JSON(w, http.StatusOK, map[string]any{
			"available": false,
			"reason":    "no active employees",
		})
		return
	}

	JSON(w, http.StatusOK, map[string]any{
		"available":        true,
		"rate":             status.Rate,
		"color":            status.Color,
		"green_threshold":  settings.SaudizationGreenThreshold,
		"yellow_threshold": settings.SaudizationYellowThreshold,
	})
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 500 {
		return fallback
	}
	return n
}
