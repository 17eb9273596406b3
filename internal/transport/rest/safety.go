package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/greenplate/foodsafe-backend/internal/domain"
	"github.com/greenplate/foodsafe-backend/pkg/ctxutil"
)

// safetyEngine is the part of the evaluation engine the check endpoint needs.
type safetyEngine interface {
	CheckProduct(ctx context.Context, reportNo string, userID int64) ([]domain.Warning, error)
}

// SafetyHandler serves the single-product safety check.
type SafetyHandler struct {
	engine safetyEngine
	log    *slog.Logger
}

// NewSafetyHandler creates a SafetyHandler.
func NewSafetyHandler(engine safetyEngine, logger *slog.Logger) *SafetyHandler {
	return &SafetyHandler{engine: engine, log: logger.With("handler", "safety")}
}

type warningsResponse struct {
	Warnings []domain.Warning `json:"warnings"`
}

// CheckSafety handles GET /api/product/check-safety?reportNo=...
// Identity comes from the bearer token when present, otherwise from the
// legacy userId query parameter. Anonymous callers get an empty list.
func (h *SafetyHandler) CheckSafety(w http.ResponseWriter, r *http.Request) {
	reportNo := r.URL.Query().Get("reportNo")
	if reportNo == "" {
		writeError(w, http.StatusBadRequest, "reportNo is required")
		return
	}

	userID := resolveUserID(r)

	warnings, err := h.engine.CheckProduct(r.Context(), reportNo, userID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, warningsResponse{Warnings: warnings})
}

// resolveUserID prefers the authenticated identity over the legacy userId
// query parameter. Unparseable or non-positive values mean anonymous.
func resolveUserID(r *http.Request) int64 {
	if id, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
		return id
	}
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
