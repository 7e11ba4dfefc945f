package google

import (
	"testing"

	"kharcha/internal/core"
)

func TestEntryRow(t *testing.T) {
	e := core.Entry{
		ID:            "e1",
		OwnerID:       "u1",
		ExpenseItem:   "groceries",
		ExpenseAmount: core.Money{Cents: 4550},
		ExpenseDate:   core.NewDate(2024, 6, 15),
	}

	row := entryRow(e)
	if len(row) != 8 {
		t.Fatalf("entryRow() len = %d, want 8", len(row))
	}
	if row[0] != "e1" || row[1] != "u1" || row[2] != "groceries" {
		t.Errorf("entryRow() identity columns = %v", row[:3])
	}
	if row[3] != 45.50 {
		t.Errorf("entryRow() expense amount = %v, want 45.50", row[3])
	}
	if row[4] != "2024-06-15" {
		t.Errorf("entryRow() expense date = %v, want 2024-06-15", row[4])
	}
	if row[6] != 0.0 {
		t.Errorf("entryRow() saving amount = %v, want 0", row[6])
	}
	if row[7] != "" {
		t.Errorf("entryRow() saving date = %v, want empty", row[7])
	}
}
