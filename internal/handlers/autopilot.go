package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"mawared-backend/internal/autopilot"
)

// AutopilotHandler exposes the daily compliance job over HTTP so a scheduler
// (or an admin, manually) can trigger it.
type AutopilotHandler struct {
	runner *autopilot.Runner
}

func NewAutopilotHandler(runner *autopilot.Runner) *AutopilotHandler {
	return &AutopilotHandler{runner: runner}
}

type runRequest struct {
	TenantID string `json:"tenantId"`
	RunDate  string `json:"runDate"` // YYYY-MM-DD
	DryRun   bool   `json:"dryRun"`
}

// Run handles POST /api/compliance/autopilot/run.
// An empty body is valid: it runs for the demo tenant, today, live.
func (h *AutopilotHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		JSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var runDate time.Time
	if req.RunDate != "" {
		parsed, err := time.Parse("2006-01-02", req.RunDate)
		if err != nil {
			JSONError(w, http.StatusBadRequest, "runDate must be formatted YYYY-MM-DD")
			return
		}
		runDate = parsed
	}

	result, err := h.runner.Run(ctx, autopilot.Request{
		TenantID: req.TenantID,
		RunDate:  runDate,
		DryRun:   req.DryRun,
	})
	if err != nil {
		log.Error().Err(err).Str("tenant_id", req.TenantID).Msg("autopilot run failed")
		JSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	JSON(w, http.StatusOK, result)
}
