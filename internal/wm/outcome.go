package wm

// Outcome reports whether handling an event changed state that requires a
// re-layout pass.
type Outcome int

const (
	Unchanged Outcome = iota
	NeedsRelayout
)

// NeedsRelayout reports whether the outcome asks for a re-layout.
func (o Outcome) NeedsRelayout() bool { return o == NeedsRelayout }

func (o Outcome) String() string {
	if o == NeedsRelayout {
		return "needs-relayout"
	}
	return "unchanged"
}

func outcomeOf(changed bool) Outcome {
	if changed {
		return NeedsRelayout
	}
	return Unchanged
}
