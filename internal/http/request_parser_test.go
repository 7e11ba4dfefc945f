package http

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBodyParserFlattensTypes(t *testing.T) {
	tests := []struct {
		name string
		body string
		key  string
		want string
	}{
		{"string value", `{"expenseAmount": "12.50"}`, "expenseAmount", "12.50"},
		{"number value", `{"expenseAmount": 12.5}`, "expenseAmount", "12.5"},
		{"integer value", `{"expenseAmount": 100}`, "expenseAmount", "100"},
		{"bool value", `{"flag": true}`, "flag", "true"},
		{"missing key", `{"other": "x"}`, "expenseAmount", ""},
		{"null value", `{"expenseAmount": null}`, "expenseAmount", ""},
		{"whitespace trimmed", `{"expenseItem": "  coffee  "}`, "expenseItem", "coffee"},
		{"control chars stripped", "{\"expenseItem\": \"cof\\u0001fee\"}", "expenseItem", "coffee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/entries", strings.NewReader(tt.body))
			p := parseBody(req)
			if err := p.Err(); err != nil {
				t.Fatalf("parseBody() error = %v", err)
			}
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestBodyParserEmptyAndInvalid(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/entries", strings.NewReader(""))
	p := parseBody(req)
	if err := p.Err(); err != nil {
		t.Fatalf("parseBody() on empty body error = %v", err)
	}
	if got := p.Get("anything"); got != "" {
		t.Errorf("Get() on empty body = %q, want empty", got)
	}

	req = httptest.NewRequest("POST", "/api/entries", strings.NewReader("not json"))
	p = parseBody(req)
	if p.Err() == nil {
		t.Error("parseBody() should fail on malformed JSON")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"no token", "Bearer ", "", false},
		{"scheme only", "Bearer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/entries", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := bearerToken(req)
			if ok != tt.ok || got != tt.want {
				t.Errorf("bearerToken() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
