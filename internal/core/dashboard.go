package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRecentFeedSize is how many entries the dashboard's recent
// transactions table shows.
const DefaultRecentFeedSize = 7

// MonthlySeries is the chart-ready output of BucketByMonth. Labels is
// sorted chronologically ascending and the two series are aligned to it.
type MonthlySeries struct {
	Labels      []string          `json:"labels"`
	Pendapatan  []decimal.Decimal `json:"pendapatan"`
	Pengeluaran []decimal.Decimal `json:"pengeluaran"`
}

// BucketByMonth folds the two transaction lists into per-month totals.
// Records whose tanggal cannot be parsed carry no month and are left out.
// Empty inputs produce empty labels and series, never an error.
func BucketByMonth(pendapatan, pengeluaran []Transaction) MonthlySeries {
	type bucket struct {
		masuk  decimal.Decimal
		keluar decimal.Decimal
	}
	buckets := make(map[string]*bucket)

	add := func(txs []Transaction, expense bool) {
		for _, tx := range txs {
			t, ok := ParseTanggal(tx.Tanggal)
			if !ok {
				continue
			}
			label := MonthLabel(t)
			b := buckets[label]
			if b == nil {
				b = &bucket{}
				buckets[label] = b
			}
			if expense {
				b.keluar = b.keluar.Add(tx.Jumlah)
			} else {
				b.masuk = b.masuk.Add(tx.Jumlah)
			}
		}
	}
	add(pendapatan, false)
	add(pengeluaran, true)

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return monthLabelSortKey(labels[i]).Before(monthLabelSortKey(labels[j]))
	})

	series := MonthlySeries{
		Labels:      labels,
		Pendapatan:  make([]decimal.Decimal, len(labels)),
		Pengeluaran: make([]decimal.Decimal, len(labels)),
	}
	for i, label := range labels {
		series.Pendapatan[i] = buckets[label].masuk
		series.Pengeluaran[i] = buckets[label].keluar
	}
	return series
}

// TodayComposition sums both sides for transactions dated on the calendar
// day of now. Both totals default to zero.
func TodayComposition(pendapatan, pengeluaran []Transaction, now time.Time) (masuk, keluar decimal.Decimal) {
	sum := func(txs []Transaction) decimal.Decimal {
		total := decimal.Zero
		for _, tx := range txs {
			t, ok := ParseTanggal(tx.Tanggal)
			if ok && SameDay(t, now) {
				total = total.Add(tx.Jumlah)
			}
		}
		return total
	}
	return sum(pendapatan), sum(pengeluaran)
}

// MonthTotals sums both sides for transactions falling in the given
// calendar month.
func MonthTotals(pendapatan, pengeluaran []Transaction, year int, month time.Month) (masuk, keluar decimal.Decimal) {
	sum := func(txs []Transaction) decimal.Decimal {
		total := decimal.Zero
		for _, tx := range txs {
			t, ok := ParseTanggal(tx.Tanggal)
			if ok && t.Year() == year && t.Month() == month {
				total = total.Add(tx.Jumlah)
			}
		}
		return total
	}
	return sum(pendapatan), sum(pengeluaran)
}

// RecentFeed merges both lists and returns the limit most recent entries,
// newest first. Unknown dates clamp to the zero-time sentinel and end up
// at the old end of the ordering; ties break by descending ID so the
// result is deterministic.
func RecentFeed(pendapatan, pengeluaran []Transaction, limit int) []Transaction {
	if limit <= 0 {
		limit = DefaultRecentFeedSize
	}
	merged := make([]Transaction, 0, len(pendapatan)+len(pengeluaran))
	merged = append(merged, pendapatan...)
	merged = append(merged, pengeluaran...)

	when := func(tx Transaction) time.Time {
		t, _ := ParseTanggal(tx.Tanggal) // zero time on failure
		return t
	}
	sort.SliceStable(merged, func(i, j int) bool {
		ti, tj := when(merged[i]), when(merged[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return merged[i].ID > merged[j].ID
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
