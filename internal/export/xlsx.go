// Package export renders a reporting window as an xlsx workbook with an
// entries sheet and a summary sheet.
package export

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"bilancio/internal/core"
	"bilancio/internal/report"
)

// Store is the read surface the exporter needs.
type Store interface {
	report.EntryProvider
	report.AccountProvider
	report.CategoryProvider
}

// Exporter writes xlsx workbooks for reporting windows. Now is
// overridable for tests; defaults to time.Now.
type Exporter struct {
	store        Store
	defaultOwner string
	now          func() time.Time
}

func NewExporter(store Store, defaultOwner string) *Exporter {
	return &Exporter{store: store, defaultOwner: defaultOwner, now: time.Now}
}

const (
	entriesSheet = "Entries"
	summarySheet = "Summary"
)

// WriteWorkbook exports every completed entry visible to the scope within
// the window, plus the window totals, to w. An unparsable window degrades
// to the default window like the report endpoints do.
func (x *Exporter) WriteWorkbook(ctx context.Context, req report.Request, w io.Writer) error {
	now := x.now().UTC()

	scope, err := report.ResolveScope(ctx, x.store, req.Owner, x.defaultOwner)
	if err != nil {
		return fmt.Errorf("resolve scope: %w", err)
	}

	var earliest time.Time
	if req.Window.Mode == report.ModeAll {
		t, ok, err := x.store.EarliestEntryDate(ctx, scope.AccountIDs())
		if err != nil {
			return fmt.Errorf("earliest entry date: %w", err)
		}
		if ok {
			earliest = t
		}
	}

	window, err := report.ResolveWindow(req.Window, now, earliest)
	if err != nil {
		window = report.DefaultWindow(now)
	}

	entries, err := x.store.QueryEntries(ctx, report.EntryFilter{
		Start:      window.Start,
		End:        window.End,
		AccountIDs: scope.AccountIDs(),
	})
	if err != nil {
		return fmt.Errorf("query entries: %w", err)
	}

	cats, err := x.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	accounts, err := x.store.ListAccounts(ctx, "")
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeEntriesSheet(f, entries, cats, accounts); err != nil {
		return err
	}
	index := report.BuildSpendIndex(entries, cats, scope)
	if err := writeSummarySheet(f, window, index); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeEntriesSheet(f *excelize.File, entries []core.Entry, cats []core.Category, accounts []core.Account) error {
	index, err := f.NewSheet(entriesSheet)
	if err != nil {
		return fmt.Errorf("create entries sheet: %w", err)
	}
	f.SetActiveSheet(index)

	catNames := make(map[string]string, len(cats))
	for _, c := range cats {
		catNames[c.ID] = c.Name
	}
	accountNames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}

	headers := []string{"Date", "Kind", "Amount", "Account", "Destination", "Category", "Description"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(entriesSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for idx, e := range entries {
		row := idx + 2
		setCell(f, entriesSheet, "A", row, e.Date.Format("2006-01-02"))
		setCell(f, entriesSheet, "B", row, string(e.Kind))
		setCell(f, entriesSheet, "C", row, formatAmount(e.Amount.Cents))
		setCell(f, entriesSheet, "D", row, accountNames[e.AccountID])
		setCell(f, entriesSheet, "E", row, accountNames[e.DestinationAccountID])
		setCell(f, entriesSheet, "F", row, catNames[e.CategoryID])
		setCell(f, entriesSheet, "G", row, e.Description)
	}

	_ = f.SetColWidth(entriesSheet, "A", "B", 12)
	_ = f.SetColWidth(entriesSheet, "C", "C", 12)
	_ = f.SetColWidth(entriesSheet, "D", "F", 18)
	_ = f.SetColWidth(entriesSheet, "G", "G", 40)
	return nil
}

func writeSummarySheet(f *excelize.File, window report.Window, index *report.SpendIndex) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := [][2]string{
		{"Window start", window.Start.Format("2006-01-02")},
		{"Window end", window.End.Format("2006-01-02")},
		{"Income", formatAmount(index.IncomeCents)},
		{"Expense", formatAmount(index.ExpenseCents)},
		{"Net", formatAmount(index.NetCents())},
		{"Fixed expense", formatAmount(index.FixedExpenseCents)},
		{"Variable expense", formatAmount(index.VariableExpenseCents)},
	}
	for i, r := range rows {
		setCell(f, summarySheet, "A", i+1, r[0])
		setCell(f, summarySheet, "B", i+1, r[1])
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 14)
	return nil
}

func setCell(f *excelize.File, sheet, col string, row int, value string) {
	_ = f.SetCellValue(sheet, col+strconv.Itoa(row), value)
}

func formatAmount(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100.0, 'f', 2, 64)
}
