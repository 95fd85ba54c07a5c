package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/report"
)

type (
	entryResponse struct {
		ID                   string `json:"id"`
		Date                 string `json:"date"`
		AmountCents          int64  `json:"amount"`
		Kind                 string `json:"kind"`
		AccountID            string `json:"accountId"`
		DestinationAccountID string `json:"destinationAccountId,omitempty"`
		CategoryID           string `json:"categoryId,omitempty"`
		BudgetItemID         string `json:"budgetItemId,omitempty"`
		Status               string `json:"status"`
		Description          string `json:"description"`
	}

	accountResponse struct {
		ID                  string `json:"id"`
		Owner               string `json:"owner"`
		Name                string `json:"name"`
		InitialBalanceCents int64  `json:"initialBalance"`
	}

	categoryResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Kind        string `json:"kind"`
		Flexibility string `json:"flexibility"`
		Group       string `json:"group,omitempty"`
		Bucket      string `json:"bucket,omitempty"`
	}
)

// handleListEntries lists entries with optional filters. An owner filter
// narrows to that owner's accounts like the report endpoints do; without
// one every entry is visible.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := report.EntryFilter{
		Search:         strings.TrimSpace(q.Get("q")),
		IncludePending: q.Get("includePending") == "true",
	}
	if v := q.Get("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid start date")
			return
		}
		filter.Start = t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid end date")
			return
		}
		filter.End = t.Add(24*time.Hour - time.Second)
	}
	if v := q.Get("accountId"); v != "" {
		filter.AccountIDs = []string{v}
	}
	if v := q.Get("kind"); v != "" {
		filter.Kinds = []core.EntryKind{core.EntryKind(v)}
	}

	if owner := strings.TrimSpace(q.Get("owner")); owner != "" && filter.AccountIDs == nil {
		scope, err := report.ResolveScope(r.Context(), s.store, owner, owner)
		if err != nil {
			if errors.Is(err, report.ErrUnresolvedOwner) {
				respondJSON(w, http.StatusOK, []entryResponse{})
				return
			}
			slog.ErrorContext(r.Context(), "Failed to resolve owner", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		filter.AccountIDs = scope.AccountIDs()
	}

	entries, err := s.store.QueryEntries(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list entries", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:                   e.ID,
			Date:                 e.Date.Format("2006-01-02"),
			AmountCents:          e.Amount.Cents,
			Kind:                 string(e.Kind),
			AccountID:            e.AccountID,
			DestinationAccountID: e.DestinationAccountID,
			CategoryID:           e.CategoryID,
			BudgetItemID:         e.BudgetItemID,
			Status:               string(e.Status),
			Description:          e.Description,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == report.OwnerAll {
		owner = ""
	}

	accounts, err := s.store.ListAccounts(r.Context(), owner)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list accounts", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{
			ID:                  a.ID,
			Owner:               a.Owner,
			Name:                a.Name,
			InitialBalanceCents: a.InitialBalance.Cents,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list categories", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Kind:        string(c.Kind),
			Flexibility: string(c.Flexibility),
			Group:       c.Group,
			Bucket:      string(c.Bucket),
		})
	}
	respondJSON(w, http.StatusOK, out)
}
