package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/report"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// parseReportRequest extracts the owner filter and raw window parameters
// from a report query string. Validation happens downstream in the window
// resolver; unparsable parameters degrade to the default window there.
func parseReportRequest(query url.Values) report.Request {
	req := report.Request{
		Owner: strings.TrimSpace(query.Get("owner")),
		Window: report.WindowRequest{
			Mode:  report.WindowMode(strings.TrimSpace(query.Get("mode"))),
			Start: strings.TrimSpace(query.Get("start")),
			End:   strings.TrimSpace(query.Get("end")),
			Month: strings.TrimSpace(query.Get("month")),
			Week:  strings.TrimSpace(query.Get("week")),
			Year:  strings.TrimSpace(query.Get("year")),
		},
	}
	if req.Window.Mode == "" {
		switch {
		case req.Window.Month != "":
			req.Window.Mode = report.ModeMonth
		case req.Window.Week != "":
			req.Window.Mode = report.ModeWeek
		case req.Window.Year != "":
			req.Window.Mode = report.ModeYear
		case req.Window.Start != "" || req.Window.End != "":
			req.Window.Mode = report.ModeRange
		default:
			req.Window.Mode = report.ModeMonth
			req.Window.Month = time.Now().UTC().Format("2006-01")
		}
	}
	return req
}

// reportCacheKey identifies one cached report response.
func reportCacheKey(req report.Request) string {
	w := req.Window
	return strings.Join([]string{req.Owner, string(w.Mode), w.Start, w.End, w.Month, w.Week, w.Year}, "|")
}

type (
	createEntryRequest struct {
		Date                 string `json:"date"` // 2006-01-02
		Amount               string `json:"amount"`
		Kind                 string `json:"kind"`
		AccountID            string `json:"accountId"`
		DestinationAccountID string `json:"destinationAccountId"`
		CategoryID           string `json:"categoryId"`
		BudgetItemID         string `json:"budgetItemId"`
		Status               string `json:"status"`
		Description          string `json:"description"`
	}

	createAccountRequest struct {
		Owner          string `json:"owner"`
		Name           string `json:"name"`
		InitialBalance string `json:"initialBalance"`
	}

	createCategoryRequest struct {
		Name        string `json:"name"`
		Kind        string `json:"kind"`
		Flexibility string `json:"flexibility"`
		Group       string `json:"group"`
		Bucket      string `json:"bucket"`
	}
)

func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func (req createEntryRequest) toEntry(now time.Time) (core.Entry, error) {
	date := now
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return core.Entry{}, fmt.Errorf("parse date %q: %w", req.Date, err)
		}
		date = parsed
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse amount %q: %w", req.Amount, err)
	}

	status := core.EntryStatus(req.Status)
	if req.Status == "" {
		status = core.Completed
	}

	return core.Entry{
		Date:                 date,
		Amount:               core.Money{Cents: cents},
		Kind:                 core.EntryKind(req.Kind),
		AccountID:            strings.TrimSpace(req.AccountID),
		DestinationAccountID: strings.TrimSpace(req.DestinationAccountID),
		CategoryID:           strings.TrimSpace(req.CategoryID),
		BudgetItemID:         strings.TrimSpace(req.BudgetItemID),
		Status:               status,
		Description:          sanitizeInput(req.Description),
	}, nil
}

func (req createAccountRequest) toAccount() (core.Account, error) {
	a := core.Account{
		Owner: sanitizeInput(req.Owner),
		Name:  sanitizeInput(req.Name),
	}
	if req.InitialBalance != "" {
		cents, err := core.ParseDecimalToCents(req.InitialBalance)
		if err != nil {
			return core.Account{}, fmt.Errorf("parse initial balance %q: %w", req.InitialBalance, err)
		}
		a.InitialBalance = core.Money{Cents: cents}
	}
	return a, nil
}

func (req createCategoryRequest) toCategory() core.Category {
	return core.Category{
		Name:        sanitizeInput(req.Name),
		Kind:        core.EntryKind(req.Kind),
		Flexibility: core.Flexibility(req.Flexibility),
		Group:       sanitizeInput(req.Group),
		Bucket:      core.Bucket(req.Bucket),
	}
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
