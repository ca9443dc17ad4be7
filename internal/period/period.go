// Package period models the (year, month) buckets productivity is tracked in.
package period

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Month is one of the twelve three-letter month codes.
type Month string

// Month codes in calendar order.
const (
	Jan Month = "jan"
	Fev Month = "fev"
	Mar Month = "mar"
	Abr Month = "abr"
	Mai Month = "mai"
	Jun Month = "jun"
	Jul Month = "jul"
	Ago Month = "ago"
	Set Month = "set"
	Out Month = "out"
	Nov Month = "nov"
	Dez Month = "dez"
)

var months = []Month{Jan, Fev, Mar, Abr, Mai, Jun, Jul, Ago, Set, Out, Nov, Dez}

// fullNames maps case-folded Portuguese month names to codes.
var fullNames = map[string]Month{
	"janeiro":   Jan,
	"fevereiro": Fev,
	"março":     Mar,
	"abril":     Abr,
	"maio":      Mai,
	"junho":     Jun,
	"julho":     Jul,
	"agosto":    Ago,
	"setembro":  Set,
	"outubro":   Out,
	"novembro":  Nov,
	"dezembro":  Dez,
}

// Years are the years offered for selection.
var Years = []int{2026, 2027}

var (
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidKey   = errors.New("invalid period key")
)

// Months returns the month codes in calendar order.
func Months() []Month {
	return slices.Clone(months)
}

// Index returns the zero-based calendar index of m, or -1.
func (m Month) Index() int {
	return slices.Index(months, m)
}

// Valid reports whether m is one of the twelve codes.
func (m Month) Valid() bool {
	return m.Index() >= 0
}

// Upper returns the code in upper case, as shown in column headers.
func (m Month) Upper() string {
	return strings.ToUpper(string(m))
}

// MonthAt returns the month for a 1-based calendar number.
func MonthAt(n int) (Month, bool) {
	if n < 1 || n > len(months) {
		return "", false
	}

	return months[n-1], true
}

// NormalizeMonthToken maps raw to a month code. Codes and full Portuguese
// names are accepted in any case. Everything else is rejected.
func NormalizeMonthToken(raw string) (Month, bool) {
	token := cases.Fold().String(strings.TrimSpace(raw))

	if m := Month(token); m.Valid() {
		return m, true
	}

	m, ok := fullNames[token]

	return m, ok
}

// Period identifies one tracked month.
type Period struct {
	Year  int   `json:"year"`
	Month Month `json:"month"`
}

// New returns the period for year and month.
func New(year int, month Month) Period {
	return Period{Year: year, Month: month}
}

// Order returns a scalar giving periods a total order.
func (p Period) Order() int {
	return p.Year*12 + p.Month.Index()
}

// Order is the function form of [Period.Order].
func Order(p Period) int {
	return p.Order()
}

// Before reports whether p sorts strictly before other.
func (p Period) Before(other Period) bool {
	return p.Order() < other.Order()
}

// InRange reports whether start <= p <= end.
func InRange(p, start, end Period) bool {
	o := p.Order()

	return start.Order() <= o && o <= end.Order()
}

// Key encodes p as the persisted "<year>-<month>" key.
func (p Period) Key() string {
	return strconv.Itoa(p.Year) + "-" + string(p.Month)
}

// String renders p as "FEV/2026".
func (p Period) String() string {
	return fmt.Sprintf("%s/%d", p.Month.Upper(), p.Year)
}

// ParseKey decodes a "<year>-<month>" key.
func ParseKey(key string) (Period, error) {
	yearStr, monthStr, ok := strings.Cut(key, "-")
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	month := Month(monthStr)
	if !month.Valid() {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return Period{Year: year, Month: month}, nil
}

// Parse reads a user-supplied period such as "fev/2026", "fevereiro/2026"
// or "2026-fev".
func Parse(s string) (Period, error) {
	if p, err := ParseKey(strings.ToLower(strings.TrimSpace(s))); err == nil {
		return p, nil
	}

	monthStr, yearStr, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Period{}, fmt.Errorf("%w: %q (use mon/yyyy)", ErrInvalidKey, s)
	}

	month, ok := NormalizeMonthToken(monthStr)
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidMonth, monthStr)
	}

	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	return Period{Year: year, Month: month}, nil
}

// Sort orders ps by [Period.Order].
func Sort(ps []Period) {
	slices.SortFunc(ps, func(a, b Period) int {
		return a.Order() - b.Order()
	})
}
