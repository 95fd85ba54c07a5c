package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bilancio/internal/core"
	"bilancio/internal/report"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondServiceError maps a write-path error to a status code. Domain
// validation failures are the caller's fault; everything else is ours.
func respondServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case strings.Contains(err.Error(), "not found"):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		slog.ErrorContext(ctx, "Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidKind,
		core.ErrInvalidStatus,
		core.ErrEmptyDescription,
		core.ErrEmptyAccount,
		core.ErrEmptyName,
		core.ErrMissingDestination,
		core.ErrSameDestination,
		core.ErrInvalidFlexibility,
		core.ErrInvalidBucket,
		core.ErrEmptyOwner,
		core.ErrEmptyPeriod,
		core.ErrInvalidCadence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondReportError maps engine failures. An unresolved owner is not an
// error to the caller: the report degrades to its empty value.
func respondReportError(ctx context.Context, w http.ResponseWriter, err error, empty any) {
	if errors.Is(err, report.ErrUnresolvedOwner) {
		respondJSON(w, http.StatusOK, empty)
		return
	}
	slog.ErrorContext(ctx, "Report failed", "error", err)
	respondError(w, http.StatusInternalServerError, "internal error")
}
