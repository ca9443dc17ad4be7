// Package settings holds the tracker's user settings and their persisted
// document.
package settings

import (
	"strings"
	"time"

	"github.com/calvinalkan/pontos/internal/period"

	"github.com/shopspring/decimal"
)

// DefaultDailyGoal is the daily points goal used until the user sets one.
var DefaultDailyGoal = decimal.RequireFromString("10.1")

// DefaultYear is the year shown when nothing else selected one.
const DefaultYear = 2026

// Settings is the persisted settings document. JSON field names match the
// document layout written by earlier versions.
type Settings struct {
	DailyEffortGoal decimal.Decimal `json:"dailyEffortGoal"`
	DaysWorked      int             `json:"daysWorked"`
	FilterStart     period.Period   `json:"filterStart"`
	FilterEnd       period.Period   `json:"filterEnd"`
	IsFilterActive  bool            `json:"isFilterActive"`
	ServerName      string          `json:"serverName"`
	ActiveYear      int             `json:"activeYear"`
}

// Defaults returns the settings for a fresh install. DaysWorked is the
// business days tracked before now.
func Defaults(now time.Time) Settings {
	return Settings{
		DailyEffortGoal: DefaultDailyGoal,
		DaysWorked:      period.DaysWorkedUntil(now),
		FilterStart:     period.New(DefaultYear, period.Fev),
		FilterEnd:       period.New(DefaultYear, period.Dez),
		IsFilterActive:  false,
		ServerName:      "",
		ActiveYear:      DefaultYear,
	}
}

// TargetPoints is the goal for the days worked.
func (s Settings) TargetPoints() decimal.Decimal {
	return s.DailyEffortGoal.Mul(decimal.NewFromInt(int64(s.DaysWorked)))
}

// NormalizeServerName upper-cases and trims a server name.
func NormalizeServerName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// repair replaces fields a hand-edited or older document may carry in an
// unusable shape with their default.
func (s *Settings) repair(def Settings) {
	if !s.FilterStart.Month.Valid() {
		s.FilterStart = def.FilterStart
	}

	if !s.FilterEnd.Month.Valid() {
		s.FilterEnd = def.FilterEnd
	}

	if s.DaysWorked < 0 {
		s.DaysWorked = 0
	}

	if s.DailyEffortGoal.IsNegative() {
		s.DailyEffortGoal = def.DailyEffortGoal
	}

	if s.ActiveYear < 1900 || s.ActiveYear > 9999 {
		s.ActiveYear = def.ActiveYear
	}
}
