package tracker

import "github.com/shopspring/decimal"

// Standing grades the percentage of the points goal reached.
type Standing int

const (
	StandingNone Standing = iota
	StandingBelow
	StandingClose
	StandingReached
	StandingExcellent
)

var (
	closeThreshold     = decimal.NewFromInt(85)
	reachedThreshold   = decimal.NewFromInt(100)
	excellentThreshold = decimal.NewFromInt(130)
)

// StandingFor grades pct. Zero or less is [StandingNone].
func StandingFor(pct decimal.Decimal) Standing {
	switch {
	case !pct.IsPositive():
		return StandingNone
	case pct.GreaterThanOrEqual(excellentThreshold):
		return StandingExcellent
	case pct.GreaterThanOrEqual(reachedThreshold):
		return StandingReached
	case pct.GreaterThanOrEqual(closeThreshold):
		return StandingClose
	default:
		return StandingBelow
	}
}

func (s Standing) String() string {
	switch s {
	case StandingBelow:
		return "below"
	case StandingClose:
		return "close"
	case StandingReached:
		return "reached"
	case StandingExcellent:
		return "excellent"
	default:
		return "none"
	}
}

// Message is the encouragement shown for s. Empty for [StandingNone].
func (s Standing) Message() string {
	switch s {
	case StandingBelow:
		return "Você precisa melhorar a sua produção, vamos lá, você consegue!!!!"
	case StandingClose:
		return "Só mais um pouco e você consegue seu objetivo"
	case StandingReached:
		return "Parabéns, meta alcançada!!!!!"
	case StandingExcellent:
		return "Excelente desempenho, continue assim!!!!"
	default:
		return ""
	}
}
