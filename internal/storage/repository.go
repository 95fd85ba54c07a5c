package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/core"
	"bilancio/internal/report"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the persistent backend. It implements every report
// provider port plus the write operations the services layer needs.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// QueryEntries implements report.EntryProvider. The date bounds narrow the
// scan in SQL; the rest of the filter is applied through
// report.EntryFilter.Matches so the SQLite and in-memory backends can never
// disagree on what an entry filter means.
func (r *SQLiteRepository) QueryEntries(ctx context.Context, f report.EntryFilter) ([]core.Entry, error) {
	query := `SELECT id, date, amount_cents, kind, account_id, destination_account_id,
		category_id, budget_item_id, status, description, deleted, created_at
		FROM entries WHERE deleted = 0`
	var args []any
	if !f.Start.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.Start.UTC().Format(time.RFC3339))
	}
	if !f.End.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.End.UTC().Format(time.RFC3339))
	}
	query += " ORDER BY date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

// EarliestEntryDate implements report.EntryProvider.
func (r *SQLiteRepository) EarliestEntryDate(ctx context.Context, accountIDs []string) (time.Time, bool, error) {
	query := "SELECT MIN(date) FROM entries WHERE deleted = 0"
	var args []any
	if len(accountIDs) > 0 {
		ph := placeholders(len(accountIDs))
		query += fmt.Sprintf(" AND (account_id IN (%s) OR destination_account_id IN (%s))", ph, ph)
		for i := 0; i < 2; i++ {
			for _, id := range accountIDs {
				args = append(args, id)
			}
		}
	}

	var raw sql.NullString
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		return time.Time{}, false, fmt.Errorf("earliest entry date: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse earliest date %q: %w", raw.String, err)
	}
	return t, true, nil
}

// ListAccounts implements report.AccountProvider. An empty owner lists
// every account.
func (r *SQLiteRepository) ListAccounts(ctx context.Context, owner string) ([]core.Account, error) {
	query := "SELECT id, owner, name, initial_balance_cents FROM accounts"
	var args []any
	if owner != "" {
		query += " WHERE owner = ?"
		args = append(args, owner)
	}
	query += " ORDER BY owner, name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Owner, &a.Name, &a.InitialBalance.Cents); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListCategories implements report.CategoryProvider.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, kind, flexibility, group_label, bucket FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var flexibility, group, bucket sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind, &flexibility, &group, &bucket); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Flexibility = core.Flexibility(flexibility.String)
		c.Group = group.String
		c.Bucket = core.Bucket(bucket.String)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetPlan implements report.PlanProvider. A missing plan is (nil, nil).
// Groups are stored as a JSON document: a plan is always read and replaced
// wholesale, so the nested structure never needs row-level addressing.
func (r *SQLiteRepository) GetPlan(ctx context.Context, owner, period string) (*core.BudgetPlan, error) {
	var groupsJSON string
	err := r.db.QueryRowContext(ctx,
		"SELECT groups FROM budget_plans WHERE owner = ? AND period = ?",
		owner, period).Scan(&groupsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s/%s: %w", owner, period, err)
	}

	plan := &core.BudgetPlan{Owner: owner, Period: period}
	if err := json.Unmarshal([]byte(groupsJSON), &plan.Groups); err != nil {
		return nil, fmt.Errorf("decode plan groups %s/%s: %w", owner, period, err)
	}
	return plan, nil
}

// SavePlan stores a plan wholesale, replacing any previous version for the
// same owner and period.
func (r *SQLiteRepository) SavePlan(ctx context.Context, plan core.BudgetPlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	groupsJSON, err := json.Marshal(plan.Groups)
	if err != nil {
		return fmt.Errorf("encode plan groups: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO budget_plans (owner, period, groups, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner, period) DO UPDATE SET groups = excluded.groups, updated_at = excluded.updated_at`,
		plan.Owner, plan.Period, string(groupsJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save plan %s/%s: %w", plan.Owner, plan.Period, err)
	}

	slog.InfoContext(ctx, "Budget plan saved",
		"owner", plan.Owner, "period", plan.Period, "groups", len(plan.Groups))
	return nil
}

// ListPlans returns every stored plan for an owner, newest period first.
func (r *SQLiteRepository) ListPlans(ctx context.Context, owner string) ([]core.BudgetPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT owner, period, groups FROM budget_plans WHERE owner = ? ORDER BY period DESC", owner)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetPlan
	for rows.Next() {
		var plan core.BudgetPlan
		var groupsJSON string
		if err := rows.Scan(&plan.Owner, &plan.Period, &groupsJSON); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if err := json.Unmarshal([]byte(groupsJSON), &plan.Groups); err != nil {
			return nil, fmt.Errorf("decode plan groups %s/%s: %w", plan.Owner, plan.Period, err)
		}
		out = append(out, plan)
	}
	return out, rows.Err()
}

// PlanOwners returns the distinct owners with at least one stored plan.
func (r *SQLiteRepository) PlanOwners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT owner FROM budget_plans")
	if err != nil {
		return nil, fmt.Errorf("list plan owners: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("scan plan owner: %w", err)
		}
		out = append(out, owner)
	}
	sort.Strings(out)
	return out, rows.Err()
}

// CreateEntry validates and stores a new entry, assigning an id when the
// caller did not.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (id, date, amount_cents, kind, account_id, destination_account_id,
			category_id, budget_item_id, status, description, deleted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		e.ID,
		e.Date.UTC().Format(time.RFC3339),
		e.Amount.Cents,
		string(e.Kind),
		e.AccountID,
		nullString(e.DestinationAccountID),
		nullString(e.CategoryID),
		nullString(e.BudgetItemID),
		string(e.Status),
		e.Description,
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Entry{}, fmt.Errorf("create entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID, "kind", e.Kind, "amount_cents", e.Amount.Cents, "account_id", e.AccountID)
	return e, nil
}

// SoftDeleteEntry flags an entry as deleted. The row stays so historical
// reconstructions remain reproducible.
func (r *SQLiteRepository) SoftDeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE entries SET deleted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("soft delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %s not found", id)
	}
	slog.InfoContext(ctx, "Entry soft-deleted", "id", id)
	return nil
}

// CompleteEntry transitions a pending entry to completed.
func (r *SQLiteRepository) CompleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE entries SET status = ? WHERE id = ? AND deleted = 0",
		string(core.Completed), id)
	if err != nil {
		return fmt.Errorf("complete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %s not found", id)
	}
	return nil
}

// CreateAccount validates and stores a new account.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (id, owner, name, initial_balance_cents) VALUES (?, ?, ?, ?)",
		a.ID, a.Owner, a.Name, a.InitialBalance.Cents)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "id", a.ID, "owner", a.Owner, "name", a.Name)
	return a, nil
}

// CreateCategory validates and stores a new category.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, kind, flexibility, group_label, bucket)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(c.Kind), nullString(string(c.Flexibility)),
		nullString(c.Group), nullString(string(c.Bucket)))
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		"id", c.ID, "name", c.Name, "kind", c.Kind, "group", c.Group)
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e               core.Entry
		date, createdAt string
		kind, status    string
		dst, cat, item  sql.NullString
		deleted         int64
	)
	err := row.Scan(&e.ID, &date, &e.Amount.Cents, &kind, &e.AccountID, &dst,
		&cat, &item, &status, &e.Description, &deleted, &createdAt)
	if err != nil {
		return core.Entry{}, err
	}
	e.Kind = core.EntryKind(kind)
	e.Status = core.EntryStatus(status)
	e.DestinationAccountID = dst.String
	e.CategoryID = cat.String
	e.BudgetItemID = item.String
	e.Deleted = deleted != 0
	if e.Date, err = time.Parse(time.RFC3339, date); err != nil {
		return core.Entry{}, fmt.Errorf("parse entry date %q: %w", date, err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.Entry{}, fmt.Errorf("parse entry created_at %q: %w", createdAt, err)
	}
	return e, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
