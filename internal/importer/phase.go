package importer

import "fmt"

// Phase is the stage an import is in.
type Phase int32

const (
	Idle Phase = iota
	Reading
	Extracting
	Normalizing
	Merging
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Reading:
		return "reading"
	case Extracting:
		return "extracting"
	case Normalizing:
		return "normalizing"
	case Merging:
		return "merging"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}

// transitions lists the phases reachable from each phase.
var transitions = map[Phase][]Phase{
	Idle:        {Reading},
	Reading:     {Extracting, Failed},
	Extracting:  {Normalizing, Failed},
	Normalizing: {Merging, Failed},
	Merging:     {Idle},
	Failed:      {Idle},
}

// CanTransition reports whether an import may move from one phase to another.
func CanTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
