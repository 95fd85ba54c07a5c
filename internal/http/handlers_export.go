package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bilancio/internal/report"
)

// handleExport streams the window's entries and totals as an xlsx
// workbook. The workbook is built in memory first so a mid-export failure
// never truncates a response already carrying spreadsheet headers.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r.URL.Query())

	var buf bytes.Buffer
	if err := s.exporter.WriteWorkbook(r.Context(), req, &buf); err != nil {
		if errors.Is(err, report.ErrUnresolvedOwner) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Export failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q",
		"bilancio_"+time.Now().UTC().Format("20060102")+".xlsx"))
	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write export response", "error", err)
	}
}
