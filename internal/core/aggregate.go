package core

import (
	"strconv"
	"time"
)

// Bucket is one slot of a time-aligned aggregation series.
type Bucket struct {
	Label   string
	Start   time.Time // inclusive
	End     time.Time // exclusive
	Expense Money
	Saving  Money
}

// BucketedSeries is an ordered series of buckets, oldest first, aligned to a
// FilterSpec's granularity.
type BucketedSeries []Bucket

// Sum reduces entries into running totals. Absent amounts count as zero and
// negative stored cents, the only malformed shape historical rows can take,
// clamp to zero rather than failing.
func Sum(entries []Entry) Totals {
	var expense, saving int64
	for _, e := range entries {
		expense += clampCents(e.ExpenseAmount.Cents)
		saving += clampCents(e.SavingAmount.Cents)
	}
	return Totals{
		Expense: Money{Cents: expense},
		Saving:  Money{Cents: saving},
		Net:     Money{Cents: saving - expense},
	}
}

// Buckets partitions entries into the series shape of the spec's mode:
// day buckets for day/week/month windows, month buckets for half-year and
// year windows. Entries without a usable date, or whose date falls outside
// every bucket, are silently dropped; the upstream Select normally removes
// those already, but Buckets does not rely on it.
func Buckets(entries []Entry, spec FilterSpec) BucketedSeries {
	series := emptySeries(spec)
	for _, e := range entries {
		d, ok := e.ApplicableDate()
		if !ok {
			continue
		}
		for i := range series {
			if !d.Before(series[i].Start) && d.Before(series[i].End) {
				series[i].Expense.Cents += clampCents(e.ExpenseAmount.Cents)
				series[i].Saving.Cents += clampCents(e.SavingAmount.Cents)
				break
			}
		}
	}
	return series
}

func emptySeries(spec FilterSpec) BucketedSeries {
	anchor := spec.Anchor.UTC()
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)

	switch spec.Mode {
	case ModeDay:
		return dayBuckets(day, 1, shortDateLabel)
	case ModeWeek:
		// 7 buckets, oldest first, ending at the anchor day.
		return dayBuckets(day.AddDate(0, 0, -6), 7, shortDateLabel)
	case ModeMonth, ModeCustomMonth:
		start, end := spec.Window()
		n := int(end.Sub(start).Hours() / 24)
		return dayBuckets(start, n, dayOfMonthLabel)
	case ModeHalfYear:
		return monthBuckets(anchor, 6)
	case ModeYear:
		return monthBuckets(anchor, 12)
	}
	return nil
}

func dayBuckets(start time.Time, n int, label func(time.Time) string) BucketedSeries {
	series := make(BucketedSeries, n)
	for i := 0; i < n; i++ {
		s := start.AddDate(0, 0, i)
		series[i] = Bucket{Label: label(s), Start: s, End: s.AddDate(0, 0, 1)}
	}
	return series
}

// monthBuckets builds n month buckets ending at the anchor's month, oldest
// first, labeled month+year.
func monthBuckets(anchor time.Time, n int) BucketedSeries {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	series := make(BucketedSeries, n)
	for i := 0; i < n; i++ {
		s := first.AddDate(0, i, 0)
		series[i] = Bucket{Label: s.Format("Jan 2006"), Start: s, End: s.AddDate(0, 1, 0)}
	}
	return series
}

func shortDateLabel(t time.Time) string {
	return t.Format("02 Jan")
}

func dayOfMonthLabel(t time.Time) string {
	return strconv.Itoa(t.Day())
}

func clampCents(c int64) int64 {
	if c < 0 {
		return 0
	}
	return c
}
