package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   EntryKind = "income"
	Expense  EntryKind = "expense"
	Transfer EntryKind = "transfer"
)

const (
	Pending   EntryStatus = "pending"
	Completed EntryStatus = "completed"
)

const (
	Fixed    Flexibility = "fixed"
	Variable Flexibility = "variable"
)

const (
	Needs   Bucket = "needs"
	Wants   Bucket = "wants"
	Savings Bucket = "savings"
)

type (
	EntryKind   string
	EntryStatus string
	Flexibility string
	Bucket      string

	Money struct {
		Cents int64
	}

	// Entry is one posted ledger record. Amount is always positive; the
	// sign is implied by Kind. Once completed an entry is only ever
	// soft-deleted, never altered.
	Entry struct {
		ID                   string
		Date                 time.Time
		Amount               Money
		Kind                 EntryKind
		AccountID            string
		DestinationAccountID string // transfers only, distinct from AccountID
		CategoryID           string
		BudgetItemID         string
		Status               EntryStatus
		Description          string
		Deleted              bool
		CreatedAt            time.Time
	}

	// Account is a named balance holder. The current balance is always
	// derived from InitialBalance plus completed entries; it is never stored.
	Account struct {
		ID             string
		Owner          string
		Name           string
		InitialBalance Money
	}

	// Category classifies entries. Group is a free-form label ("Food",
	// "Housing"); Bucket is the coarse budgeting axis and only meaningful
	// for expense categories. The two axes are independent.
	Category struct {
		ID          string
		Name        string
		Kind        EntryKind
		Flexibility Flexibility
		Group       string
		Bucket      Bucket
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidKind        = errors.New("invalid entry kind")
	ErrInvalidStatus      = errors.New("invalid entry status")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyAccount       = errors.New("empty account id")
	ErrEmptyName          = errors.New("empty name")
	ErrMissingDestination = errors.New("transfer requires a destination account")
	ErrSameDestination    = errors.New("transfer destination must differ from source")
	ErrInvalidFlexibility = errors.New("invalid flexibility")
	ErrInvalidBucket      = errors.New("invalid bucket")
)

func (k EntryKind) Valid() bool {
	switch k {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (s EntryStatus) Valid() bool {
	return s == Pending || s == Completed
}

func (f Flexibility) Valid() bool {
	return f == Fixed || f == Variable
}

func (b Bucket) Valid() bool {
	switch b {
	case Needs, Wants, Savings:
		return true
	}
	return false
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(e.AccountID) == "" {
		return ErrEmptyAccount
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.Kind == Transfer {
		if strings.TrimSpace(e.DestinationAccountID) == "" {
			return ErrMissingDestination
		}
		if e.DestinationAccountID == e.AccountID {
			return ErrSameDestination
		}
	} else if e.DestinationAccountID != "" {
		return errors.New("destination account only valid for transfers")
	}
	return nil
}

// Signed returns the entry amount with the sign it contributes to its
// source account: income adds, expense and transfer-out subtract.
func (e Entry) Signed() int64 {
	if e.Kind == Income {
		return e.Amount.Cents
	}
	return -e.Amount.Cents
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Owner) == "" {
		return errors.New("empty owner")
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	if !c.Flexibility.Valid() {
		return ErrInvalidFlexibility
	}
	if c.Kind == Expense && !c.Bucket.Valid() {
		return ErrInvalidBucket
	}
	return nil
}
