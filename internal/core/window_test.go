package core

import (
	"errors"
	"testing"
	"time"
)

func expenseOn(date Date) Entry {
	return Entry{ExpenseItem: "x", ExpenseDate: date}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"day", "week", "month", "half-year", "year", "custom-month"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseMode("fortnight"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestSelectWeekBoundary(t *testing.T) {
	anchor := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		expenseOn(NewDate(2024, time.June, 8)), // boundary, included
		expenseOn(NewDate(2024, time.June, 7)), // one day too old
	}
	got := Select(entries, FilterSpec{Mode: ModeWeek, Anchor: anchor})
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].ExpenseDate != NewDate(2024, time.June, 8) {
		t.Errorf("kept wrong entry: %v", got[0].ExpenseDate)
	}
}

func TestSelectDay(t *testing.T) {
	anchor := time.Date(2024, time.June, 15, 23, 0, 0, 0, time.UTC)
	entries := []Entry{
		expenseOn(NewDate(2024, time.June, 15)),
		expenseOn(NewDate(2024, time.June, 14)),
		expenseOn(NewDate(2024, time.June, 16)),
	}
	got := Select(entries, FilterSpec{Mode: ModeDay, Anchor: anchor})
	if len(got) != 1 || got[0].ExpenseDate != NewDate(2024, time.June, 15) {
		t.Fatalf("day window must contain exactly the anchor's calendar day, got %v", got)
	}
}

func TestSelectCustomMonth(t *testing.T) {
	entries := []Entry{
		expenseOn(NewDate(2024, time.February, 1)),
		expenseOn(NewDate(2024, time.February, 29)), // leap day
		expenseOn(NewDate(2024, time.March, 1)),
		expenseOn(NewDate(2024, time.January, 31)),
	}
	got := Select(entries, FilterSpec{Mode: ModeCustomMonth, Month: time.February, Year: 2024})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries in February, got %d", len(got))
	}
}

func TestSelectHalfYear(t *testing.T) {
	anchor := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		expenseOn(NewDate(2024, time.January, 1)),  // first day of window
		expenseOn(NewDate(2023, time.December, 31)), // just before
		expenseOn(NewDate(2024, time.June, 30)),    // last day of anchor month
		expenseOn(NewDate(2024, time.July, 1)),     // after
	}
	got := Select(entries, FilterSpec{Mode: ModeHalfYear, Anchor: anchor})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
}

func TestSelectYearIsDurationBased(t *testing.T) {
	anchor := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		expenseOn(NewDate(2023, time.June, 17)), // 364 days old
		expenseOn(NewDate(2023, time.June, 15)), // 366 days old
	}
	got := Select(entries, FilterSpec{Mode: ModeYear, Anchor: anchor})
	if len(got) != 1 || got[0].ExpenseDate != NewDate(2023, time.June, 17) {
		t.Fatalf("year window is the 365 days ending at the anchor, got %v", got)
	}
}

// The saving date is the fallback applicable date.
func TestSelectUsesSavingDateFallback(t *testing.T) {
	anchor := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{SavingOption: "FD", SavingDate: NewDate(2024, time.June, 14)},
		{SavingOption: "FD", SavingDate: NewDate(2024, time.May, 1)},
	}
	got := Select(entries, FilterSpec{Mode: ModeWeek, Anchor: anchor})
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
}

// Entries without any usable date fail the window test silently.
func TestSelectExcludesDatelessEntries(t *testing.T) {
	anchor := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	malformed, _ := ParseDate("13/06/2024") // unsupported format -> zero date
	entries := []Entry{
		{ExpenseItem: "no date"},
		{ExpenseItem: "bad date", ExpenseDate: malformed},
		expenseOn(NewDate(2024, time.June, 15)),
	}
	got := Select(entries, FilterSpec{Mode: ModeWeek, Anchor: anchor})
	if len(got) != 1 {
		t.Fatalf("expected only the dated entry, got %d", len(got))
	}
}

func TestSelectDeterministic(t *testing.T) {
	anchor := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		expenseOn(NewDate(2024, time.June, 10)),
		expenseOn(NewDate(2024, time.June, 12)),
		expenseOn(NewDate(2024, time.May, 1)),
	}
	spec := FilterSpec{Mode: ModeWeek, Anchor: anchor}
	first := Select(entries, spec)
	for i := 0; i < 10; i++ {
		again := Select(entries, spec)
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d entries, want %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: entry %d differs", i, j)
			}
		}
	}
}
