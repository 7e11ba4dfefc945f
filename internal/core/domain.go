package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar day. The zero value means "absent".
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry is one immutable tracker record. It carries an expense leg, a
	// saving leg, or exactly one of the two; Validate rejects the
	// fully-empty case.
	Entry struct {
		ID            string
		OwnerID       string
		ExpenseItem   string // empty = absent
		ExpenseAmount Money
		ExpenseDate   Date
		SavingOption  string // empty = absent
		SavingAmount  Money
		SavingDate    Date
	}

	Totals struct {
		Expense Money
		Saving  Money
		Net     Money // saving minus expense, may be negative
	}
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO date ("2006-01-02") or RFC3339 timestamp.
// Anything else yields the zero Date and ok=false; malformed dates are a
// documented coercion, never an error.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t.UTC()}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), true
	}
	return Date{}, false
}

// IsEmpty reports whether the date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format("2006-01-02")
}

// HasExpense reports whether the expense leg is present.
func (e Entry) HasExpense() bool {
	return e.ExpenseItem != ""
}

// HasSaving reports whether the saving leg is present.
func (e Entry) HasSaving() bool {
	return e.SavingOption != ""
}

// ApplicableDate returns the date used for window tests: the expense date
// when present, else the saving date. ok=false means the entry has no date
// to test and fails any window.
func (e Entry) ApplicableDate() (Date, bool) {
	if !e.ExpenseDate.IsEmpty() {
		return e.ExpenseDate, true
	}
	if !e.SavingDate.IsEmpty() {
		return e.SavingDate, true
	}
	return Date{}, false
}

func (e Entry) Validate() error {
	if !e.HasExpense() && !e.HasSaving() {
		return ErrValidation
	}
	return nil
}
