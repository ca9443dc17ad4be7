// Package store holds per-period task counts and derives totals from them.
//
// A [Store] is an in-memory map keyed by [period.Period]; [File] persists it
// as the "<year>-<month>" -> task id -> count JSON document.
package store

import (
	"maps"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/calvinalkan/pontos/internal/catalog"
	"github.com/calvinalkan/pontos/internal/period"

	"github.com/shopspring/decimal"
)

// MaxCount caps a single stored count so totals cannot overflow.
const MaxCount = math.MaxInt32

// Record maps task id to count for one period. Absent means 0.
type Record map[int]int

// Store is the productivity store. The zero value is not usable; use [New].
//
// Store is not safe for concurrent use. The tracker owns it and serialises
// all access.
type Store struct {
	data map[period.Period]Record
}

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[period.Period]Record)}
}

// SeedPeriod is the period pre-filled on first run.
var SeedPeriod = period.New(2026, period.Fev)

// seedRecord is the February 2026 report the tracker ships with. The values
// are historical data and are kept exactly as recorded.
var seedRecord = Record{
	1: 11, 2: 1, 4: 16, 10: 13, 13: 1, 14: 24, 15: 1, 292: 38, 30: 26,
	31: 24, 33: 39, 37: 23, 38: 10, 39: 27, 40: 114, 44: 41, 48: 3, 49: 41,
}

// Seeded returns a store holding the first-run record.
func Seeded() *Store {
	s := New()
	s.data[SeedPeriod] = maps.Clone(seedRecord)

	return s
}

// Count returns the count for (p, taskID), 0 when absent.
func (s *Store) Count(p period.Period, taskID int) int {
	return s.data[p][taskID]
}

// SetCount coerces raw to a non-negative integer, stores it and returns the
// stored value. Input that does not start with a number stores 0.
func (s *Store) SetCount(p period.Period, taskID int, raw string) int {
	value := ParseCount(raw)
	s.set(p, taskID, value)

	return value
}

func (s *Store) set(p period.Period, taskID, value int) {
	rec, ok := s.data[p]
	if !ok {
		rec = make(Record)
		s.data[p] = rec
	}

	rec[taskID] = value
}

// MergeRecord overwrites the counts named in entries and leaves all other
// counts of p untouched. Merging the same entries twice is a no-op.
func (s *Store) MergeRecord(p period.Period, entries map[int]int) {
	for taskID, n := range entries {
		s.set(p, taskID, clamp(n))
	}
}

// Totals sums counts per task across all periods, or only the periods in
// [start, end] when filterActive. Every catalog task has a key. Counts
// stored under ids outside the catalog are kept but not totalled, so the
// totals agree with [Store.MonthTotal].
func (s *Store) Totals(filterActive bool, start, end period.Period) map[int]int {
	totals := make(map[int]int, catalog.Len())
	for _, task := range catalog.Tasks() {
		totals[task.ID] = 0
	}

	for p, rec := range s.data {
		if filterActive && !period.InRange(p, start, end) {
			continue
		}

		for taskID, n := range rec {
			if _, ok := totals[taskID]; ok {
				totals[taskID] += n
			}
		}
	}

	return totals
}

// TotalEffort is the unweighted sum of totals.
func TotalEffort(totals map[int]int) int {
	sum := 0
	for _, n := range totals {
		sum += n
	}

	return sum
}

// TotalPoints weights each catalog task total by its unit value.
// Ids outside the catalog carry no points.
func TotalPoints(totals map[int]int) decimal.Decimal {
	sum := decimal.Zero
	for _, task := range catalog.Tasks() {
		sum = sum.Add(Points(task, totals[task.ID]))
	}

	return sum
}

// Points is n occurrences of task weighted by its unit value.
func Points(task catalog.Task, n int) decimal.Decimal {
	return task.UnitValue.Mul(decimal.NewFromInt(int64(n)))
}

// MonthTotal sums the catalog task counts of p.
func (s *Store) MonthTotal(p period.Period) int {
	sum := 0
	for _, task := range catalog.Tasks() {
		sum += s.data[p][task.ID]
	}

	return sum
}

// HasData reports whether any count is positive.
func (s *Store) HasData() bool {
	for _, rec := range s.data {
		for _, n := range rec {
			if n > 0 {
				return true
			}
		}
	}

	return false
}

// Periods returns the stored periods in order.
func (s *Store) Periods() []period.Period {
	ps := make([]period.Period, 0, len(s.data))
	for p := range s.data {
		ps = append(ps, p)
	}

	period.Sort(ps)

	return ps
}

// Record returns a copy of p's record, nil when p was never visited.
func (s *Store) Record(p period.Period) Record {
	rec, ok := s.data[p]
	if !ok {
		return nil
	}

	return maps.Clone(rec)
}

// Snapshot returns a deep copy of the store contents.
func (s *Store) Snapshot() map[period.Period]Record {
	out := make(map[period.Period]Record, len(s.data))
	for p, rec := range s.data {
		out[p] = maps.Clone(rec)
	}

	return out
}

// ParseCount reads a leading base-10 integer the way a lenient form field
// would: surrounding space is ignored, parsing stops at the first non-digit,
// anything unparsable is 0, negatives clamp to 0 and huge values to
// [MaxCount].
func ParseCount(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	negative := false

	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == 0 || negative {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return MaxCount
	}

	return clamp(n)
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}

	if n > MaxCount {
		return MaxCount
	}

	return n
}
