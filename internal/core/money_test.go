package core

import "testing"

func TestParseLenientCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"100", 10000},
		{"12.34", 1234},
		{"12,34", 1234},
		{"12.345", 1234}, // rounds down
		{"12.346", 1235}, // rounds up
		{".5", 50},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"12abc", 0},
		{"-5", 0},
		{"1.2.3", 0},
		{"+7", 700},
	}
	for _, tc := range cases {
		if got := ParseLenientCents(tc.in); got != tc.want {
			t.Errorf("ParseLenientCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyUnits(t *testing.T) {
	if got := (Money{Cents: 1234}).Units(); got != 12.34 {
		t.Fatalf("Units() = %v, want 12.34", got)
	}
	if got := (Money{Cents: -300000}).Units(); got != -3000 {
		t.Fatalf("Units() = %v, want -3000", got)
	}
}
