package http

import (
	"net/http"

	"bilancio/internal/core"
)

type (
	planPayload struct {
		Owner  string         `json:"owner"`
		Period string         `json:"period"`
		Groups []groupPayload `json:"groups"`
	}

	groupPayload struct {
		Name        string        `json:"name"`
		LimitCents  int64         `json:"limit"`
		Cadence     string        `json:"cadence,omitempty"`
		TargetGroup string        `json:"targetGroup,omitempty"`
		CategoryIDs []string      `json:"categoryIds,omitempty"`
		Items       []itemPayload `json:"items,omitempty"`
	}

	itemPayload struct {
		Name        string   `json:"name"`
		LimitCents  int64    `json:"limit"`
		Cadence     string   `json:"cadence,omitempty"`
		CategoryIDs []string `json:"categoryIds,omitempty"`
	}
)

func planToPayload(p core.BudgetPlan) planPayload {
	out := planPayload{Owner: p.Owner, Period: p.Period, Groups: []groupPayload{}}
	for _, g := range p.Groups {
		gp := groupPayload{
			Name:        g.Name,
			LimitCents:  g.Limit.Cents,
			Cadence:     string(g.Cadence),
			TargetGroup: g.TargetGroup,
			CategoryIDs: g.CategoryIDs,
		}
		for _, it := range g.Items {
			gp.Items = append(gp.Items, itemPayload{
				Name:        it.Name,
				LimitCents:  it.Limit.Cents,
				Cadence:     string(it.Cadence),
				CategoryIDs: it.CategoryIDs,
			})
		}
		out.Groups = append(out.Groups, gp)
	}
	return out
}

func payloadToPlan(owner, period string, p planPayload) core.BudgetPlan {
	plan := core.BudgetPlan{Owner: owner, Period: period}
	for _, gp := range p.Groups {
		if len(gp.Items) > 0 {
			items := make([]core.BudgetItem, 0, len(gp.Items))
			for _, ip := range gp.Items {
				items = append(items, core.BudgetItem{
					Name:        sanitizeInput(ip.Name),
					Limit:       core.Money{Cents: ip.LimitCents},
					Cadence:     core.Cadence(ip.Cadence),
					CategoryIDs: ip.CategoryIDs,
				})
			}
			plan.Groups = append(plan.Groups, core.NewParentGroup(sanitizeInput(gp.Name), items))
			continue
		}
		plan.Groups = append(plan.Groups, core.NewLeafGroup(
			sanitizeInput(gp.Name),
			core.Money{Cents: gp.LimitCents},
			core.Cadence(gp.Cadence),
			gp.TargetGroup,
			gp.CategoryIDs,
		))
	}
	return plan
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	period := r.PathValue("period")

	plan, err := s.plans.GetPlan(r.Context(), owner, period)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}
	if plan == nil {
		respondError(w, http.StatusNotFound, "no plan for "+owner+" "+period)
		return
	}
	respondJSON(w, http.StatusOK, planToPayload(*plan))
}

// handleSavePlan replaces the owner's plan for the period wholesale. The
// path segments win over any owner or period in the body.
func (s *Server) handleSavePlan(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	period := r.PathValue("period")

	var body planPayload
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan := payloadToPlan(owner, period, body)
	if err := s.plans.SavePlan(r.Context(), plan); err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusOK, planToPayload(plan))
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	period := r.PathValue("period")

	plan, err := s.plans.GenerateDefaultPlan(r.Context(), owner, period)
	if err != nil {
		respondServiceError(r.Context(), w, err)
		return
	}

	s.invalidateReportCaches()
	respondJSON(w, http.StatusOK, planToPayload(*plan))
}
