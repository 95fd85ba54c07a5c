package http

import (
	"net/http"

	"bilancio/internal/report"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r.URL.Query())
	key := reportCacheKey(req)

	if cached, ok := s.summaryCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.engine.Summary(r.Context(), req)
	if err != nil {
		respondReportError(r.Context(), w, err, report.Summary{})
		return
	}
	s.summaryCache.Set(key, summary)
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r.URL.Query())
	points, err := s.engine.Trend(r.Context(), req)
	if err != nil {
		respondReportError(r.Context(), w, err, []report.TrendPoint{})
		return
	}
	if points == nil {
		points = []report.TrendPoint{}
	}
	respondJSON(w, http.StatusOK, points)
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r.URL.Query())
	budget, err := s.engine.Budget(r.Context(), req)
	if err != nil {
		respondReportError(r.Context(), w, err, report.BudgetReport{})
		return
	}
	respondJSON(w, http.StatusOK, budget)
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r.URL.Query())
	nw, err := s.engine.NetWorth(r.Context(), req)
	if err != nil {
		respondReportError(r.Context(), w, err, report.NetWorthReport{})
		return
	}
	respondJSON(w, http.StatusOK, nw)
}

func (s *Server) handleFlows(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r.URL.Query())
	flows, err := s.engine.Flows(r.Context(), req)
	if err != nil {
		respondReportError(r.Context(), w, err, report.FlowGraph{})
		return
	}
	respondJSON(w, http.StatusOK, flows)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r.URL.Query())
	insights, err := s.engine.Insights(r.Context(), req)
	if err != nil {
		respondReportError(r.Context(), w, err, []report.Insight{})
		return
	}
	if insights == nil {
		insights = []report.Insight{}
	}
	respondJSON(w, http.StatusOK, insights)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r.URL.Query())
	key := reportCacheKey(req)

	if cached, ok := s.dashboardCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	dashboard, err := s.engine.Dashboard(r.Context(), req)
	if err != nil {
		respondReportError(r.Context(), w, err, &report.DashboardReport{})
		return
	}
	s.dashboardCache.Set(key, dashboard)
	respondJSON(w, http.StatusOK, dashboard)
}
