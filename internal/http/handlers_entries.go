package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/log"
)

type entryResponse struct {
	ID            string  `json:"id"`
	ExpenseItem   string  `json:"expenseItem,omitempty"`
	ExpenseAmount float64 `json:"expenseAmount"`
	ExpenseDate   string  `json:"expenseDate,omitempty"`
	SavingOption  string  `json:"savingOption,omitempty"`
	SavingAmount  float64 `json:"savingAmount"`
	SavingDate    string  `json:"savingDate,omitempty"`
}

func toEntryResponse(e core.Entry) entryResponse {
	return entryResponse{
		ID:            e.ID,
		ExpenseItem:   e.ExpenseItem,
		ExpenseAmount: e.ExpenseAmount.Units(),
		ExpenseDate:   e.ExpenseDate.String(),
		SavingOption:  e.SavingOption,
		SavingAmount:  e.SavingAmount.Units(),
		SavingDate:    e.SavingDate.String(),
	}
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateEntry(w, r)
	case http.MethodGet:
		s.handleListEntries(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	body := parseBody(r)
	if body.Err() != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub := core.Submission{
		ExpenseItem:   body.Get("expenseItem"),
		ExpenseAmount: body.Get("expenseAmount"),
		ExpenseDate:   body.Get("expenseDate"),
		SavingOption:  body.Get("savingOption"),
		SavingAmount:  body.Get("savingAmount"),
		SavingDate:    body.Get("savingDate"),
	}

	stored, err := s.tracker.SubmitEntry(r.Context(), userIDFromContext(r.Context()), sub)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, core.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Create entry failed", log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	created := make([]entryResponse, len(stored))
	for i, e := range stored {
		created[i] = toEntryResponse(e)
	}

	writeJSON(w, http.StatusCreated, map[string]any{"created": created})
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.tracker.ListEntries(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "List entries failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e)
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

type bucketResponse struct {
	Label   string  `json:"label"`
	Start   string  `json:"start"`
	End     string  `json:"end"`
	Expense float64 `json:"expense"`
	Saving  float64 `json:"saving"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	spec, err := parseFilterSpec(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Computing summary",
		log.FieldFilterMode, string(spec.Mode))

	totals, series, err := s.tracker.Summary(r.Context(), userIDFromContext(r.Context()), spec)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Summary failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	buckets := make([]bucketResponse, len(series))
	for i, b := range series {
		buckets[i] = bucketResponse{
			Label:   b.Label,
			Start:   b.Start.Format("2006-01-02"),
			End:     b.End.Format("2006-01-02"),
			Expense: b.Expense.Units(),
			Saving:  b.Saving.Units(),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totals": map[string]float64{
			"expense": totals.Expense.Units(),
			"saving":  totals.Saving.Units(),
			"net":     totals.Net.Units(),
		},
		"series": buckets,
	})
}

// parseFilterSpec builds a window spec from query parameters. Mode defaults
// to month anchored at today; custom-month needs explicit month and year.
func parseFilterSpec(r *http.Request) (core.FilterSpec, error) {
	query := r.URL.Query()

	modeStr := strings.TrimSpace(query.Get("mode"))
	if modeStr == "" {
		modeStr = string(core.ModeMonth)
	}
	mode, err := core.ParseMode(modeStr)
	if err != nil {
		return core.FilterSpec{}, err
	}

	spec := core.FilterSpec{
		Mode:   mode,
		Anchor: time.Now().UTC(),
	}

	if v := strings.TrimSpace(query.Get("date")); v != "" {
		d, ok := core.ParseDate(v)
		if !ok {
			return core.FilterSpec{}, errInvalidParam("date", v)
		}
		spec.Anchor = d.Time
	}

	if mode == core.ModeCustomMonth {
		month, err := strconv.Atoi(strings.TrimSpace(query.Get("month")))
		if err != nil || month < 1 || month > 12 {
			return core.FilterSpec{}, errInvalidParam("month", query.Get("month"))
		}
		year, err := strconv.Atoi(strings.TrimSpace(query.Get("year")))
		if err != nil || year < 1 {
			return core.FilterSpec{}, errInvalidParam("year", query.Get("year"))
		}
		spec.Month = time.Month(month)
		spec.Year = year
	}

	return spec, nil
}
