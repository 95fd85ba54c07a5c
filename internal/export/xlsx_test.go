package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"bilancio/internal/core"
	"bilancio/internal/memory"
	"bilancio/internal/report"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seededExporter() *Exporter {
	store := memory.New()
	store.Seed(
		[]core.Account{
			{ID: "a1", Owner: "mario", Name: "Conto", InitialBalance: core.Money{Cents: 100000}},
		},
		[]core.Category{
			{ID: "c1", Name: "Spesa", Kind: core.Expense, Flexibility: core.Variable, Group: "Food", Bucket: core.Needs},
		},
		[]core.Entry{
			{ID: "e1", Date: day(2025, 3, 2), Amount: core.Money{Cents: 300000}, Kind: core.Income, AccountID: "a1", Status: core.Completed, Description: "Stipendio marzo"},
			{ID: "e2", Date: day(2025, 3, 5), Amount: core.Money{Cents: 4550}, Kind: core.Expense, AccountID: "a1", CategoryID: "c1", Status: core.Completed, Description: "Supermercato"},
		},
		nil,
	)
	x := NewExporter(store, "mario")
	x.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return x
}

func TestWriteWorkbook(t *testing.T) {
	x := seededExporter()

	var buf bytes.Buffer
	req := report.Request{
		Owner:  "mario",
		Window: report.WindowRequest{Mode: report.ModeMonth, Month: "2025-03"},
	}
	if err := x.WriteWorkbook(context.Background(), req, &buf); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("sheet count = %d (%v), want 2", len(sheets), sheets)
	}

	rows, err := f.GetRows("Entries")
	if err != nil {
		t.Fatalf("read entries sheet: %v", err)
	}
	// Header plus two entries, dates ascending.
	if len(rows) != 3 {
		t.Fatalf("entries rows = %d, want 3", len(rows))
	}
	if got, want := rows[1][0], "2025-03-02"; got != want {
		t.Errorf("first entry date = %q, want %q", got, want)
	}
	if got, want := rows[2][2], "45.50"; got != want {
		t.Errorf("expense amount = %q, want %q", got, want)
	}
	if got, want := rows[2][5], "Spesa"; got != want {
		t.Errorf("expense category = %q, want %q", got, want)
	}

	sum, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("read summary sheet: %v", err)
	}
	got := make(map[string]string, len(sum))
	for _, row := range sum {
		if len(row) >= 2 {
			got[row[0]] = row[1]
		}
	}
	if got["Income"] != "3000.00" {
		t.Errorf("summary income = %q, want 3000.00", got["Income"])
	}
	if got["Expense"] != "45.50" {
		t.Errorf("summary expense = %q, want 45.50", got["Expense"])
	}
	if got["Net"] != "2954.50" {
		t.Errorf("summary net = %q, want 2954.50", got["Net"])
	}
	if got["Window start"] != "2025-03-01" {
		t.Errorf("window start = %q, want 2025-03-01", got["Window start"])
	}
}

func TestWriteWorkbookUnknownOwner(t *testing.T) {
	x := seededExporter()

	var buf bytes.Buffer
	req := report.Request{
		Owner:  "nessuno",
		Window: report.WindowRequest{Mode: report.ModeMonth, Month: "2025-03"},
	}
	err := x.WriteWorkbook(context.Background(), req, &buf)
	if err == nil {
		t.Fatal("WriteWorkbook() error = nil, want unresolved owner")
	}
}

func TestWriteWorkbookInvalidWindowFallsBack(t *testing.T) {
	x := seededExporter()

	var buf bytes.Buffer
	req := report.Request{
		Owner:  "mario",
		Window: report.WindowRequest{Mode: report.ModeRange, Start: "garbage", End: "also-garbage"},
	}
	if err := x.WriteWorkbook(context.Background(), req, &buf); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("workbook is empty")
	}
}
