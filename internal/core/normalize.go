package core

import (
	"fmt"
	"strings"
	"time"
)

// Submission is the raw field set of one tracker form submission. All fields
// arrive as strings; the HTTP layer is responsible for flattening JSON
// numbers into their string form before handing the payload over.
type Submission struct {
	ExpenseItem   string
	ExpenseAmount string
	ExpenseDate   string
	SavingOption  string
	SavingAmount  string
	SavingDate    string
}

// Normalize canonicalizes a raw submission into persisted entries.
//
// A submission with only an expense item yields one expense-only entry; only
// a saving option yields one saving-only entry; both present yield two
// independent entries (the dual-row policy). Both absent fails with
// ErrValidation. Amounts coerce leniently to cents and a missing or
// malformed date on a present leg defaults to now's calendar day. Normalize
// is pure: now is injected and nothing is persisted here.
func Normalize(raw Submission, now time.Time) ([]Entry, error) {
	item := cleanLabel(raw.ExpenseItem)
	option := cleanLabel(raw.SavingOption)

	if item == "" && option == "" {
		return nil, fmt.Errorf("%w: at least one of expense item or saving option is required", ErrValidation)
	}

	today := DateOf(now)
	entries := make([]Entry, 0, 2)

	if item != "" {
		date, ok := ParseDate(raw.ExpenseDate)
		if !ok {
			date = today
		}
		entries = append(entries, Entry{
			ExpenseItem:   item,
			ExpenseAmount: Money{Cents: ParseLenientCents(raw.ExpenseAmount)},
			ExpenseDate:   date,
		})
	}

	if option != "" {
		date, ok := ParseDate(raw.SavingDate)
		if !ok {
			date = today
		}
		entries = append(entries, Entry{
			SavingOption: option,
			SavingAmount: Money{Cents: ParseLenientCents(raw.SavingAmount)},
			SavingDate:   date,
		})
	}

	return entries, nil
}

// cleanLabel trims a submitted label and drops the legacy "-" placeholder
// some old clients send for an empty field.
func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "-" {
		return ""
	}
	return s
}
