package priors

// State is the lifecycle stage of a prior definition.
//
//	Raw -> Validated -> Resolved -> Promoted (repeatable)
//	Raw -> Rejected
//
// Each stage has its own carrier type: RawDefinition, Definition (generation
// 0), Resolution, and Definition (generation > 0). Rejected leaves exist only
// as Issues inside a LoadError.
type State int

const (
	StateRaw State = iota
	StateValidated
	StateResolved
	StatePromoted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateRaw:
		return "raw"
	case StateValidated:
		return "validated"
	case StateResolved:
		return "resolved"
	case StatePromoted:
		return "promoted"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}
