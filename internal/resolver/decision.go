package resolver

// Mode selects the operating behavior of the decision policy.
type Mode string

// Known modes.
const (
	ModeAutomatic Mode = "automatic"
	ModeManual    Mode = "manual"
	ModeSmart     Mode = "smart"
)

// ValidMode reports whether s names a known mode.
func ValidMode(s string) bool {
	switch Mode(s) {
	case ModeAutomatic, ModeManual, ModeSmart:
		return true
	}
	return false
}

// Policy holds the confidence thresholds for smart mode.
type Policy struct {
	// HighConfidence is the floor above which smart mode behaves
	// automatically.
	HighConfidence float64 `yaml:"high_confidence"`
	// LowConfidence marks matches that are firmly manual-review territory.
	// Defaults to the resolver's acceptance floor.
	LowConfidence float64 `yaml:"low_confidence"`
}

// DefaultPolicy returns the documented default policy.
func DefaultPolicy() Policy {
	return Policy{HighConfidence: 0.9, LowConfidence: 0.6}
}

// Decide maps (mode, confidence, nameChanged) to a terminal decision. Pure
// function, evaluated once per resolved match.
//
//	Automatic: any match is renamed when the name differs, else skipped.
//	Manual:    every match goes to the operator.
//	Smart:     high confidence behaves automatically; everything below,
//	           including the band between the floors, goes to review.
func Decide(mode Mode, confidence float64, nameChanged bool, p Policy) Decision {
	auto := func() Decision {
		if nameChanged {
			return DecisionRename
		}
		return DecisionSkip
	}

	switch mode {
	case ModeAutomatic:
		return auto()
	case ModeManual:
		return DecisionManualReview
	case ModeSmart:
		if confidence >= p.HighConfidence {
			return auto()
		}
		return DecisionManualReview
	default:
		return DecisionManualReview
	}
}
