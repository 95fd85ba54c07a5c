package http

import (
	"net/http"
	"time"
)

type idResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var body createEntryRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := body.toEntry(time.Now().UTC())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.ledger.CreateEntry(r.Context(), entry)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusCreated, idResponse{ID: created.ID})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteEntry(r.Context(), id); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	s.invalidateReportCaches()
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCompleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.CompleteEntry(r.Context(), id); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	s.invalidateReportCaches()
	respondJSON(w, http.StatusOK, idResponse{ID: id})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var body createAccountRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := body.toAccount()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.ledger.CreateAccount(r.Context(), account)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusCreated, idResponse{ID: created.ID})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var body createCategoryRequest
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.ledger.CreateCategory(r.Context(), body.toCategory())
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusCreated, idResponse{ID: created.ID})
}
