// Package evals holds the three itinerary evaluators and their shared
// verdict model. Evaluators are pure functions over their inputs: every
// failure mode resolves to a status plus violations, never an error.
package evals

// Status is an evaluator's overall judgement.
type Status string

const (
	StatusPass      Status = "pass"
	StatusFail      Status = "fail"
	StatusUncertain Status = "uncertain"
)

// Kind identifies a violation category.
type Kind string

const (
	KindOutOfWindow        Kind = "out_of_window"
	KindOverlap            Kind = "overlap"
	KindTravelOverrun      Kind = "travel_overrun"
	KindPacingImbalance    Kind = "pacing_imbalance"
	KindEmptyDay           Kind = "empty_day"
	KindInsufficientData   Kind = "insufficient_data"
	KindUnintendedChange   Kind = "unintended_change"
	KindScopeNotApplied    Kind = "scope_not_applied"
	KindAmbiguousScope     Kind = "ambiguous_scope"
	KindUngroundedPOI      Kind = "ungrounded_poi"
	KindUnsupportedClaim   Kind = "unsupported_claim"
	KindEvidenceGap        Kind = "evidence_gap"
	KindMissingUncertainty Kind = "missing_uncertainty"
)

// Informational kinds never fail a verdict on their own.
func (k Kind) Informational() bool {
	switch k {
	case KindEmptyDay, KindScopeNotApplied, KindAmbiguousScope, KindEvidenceGap, KindMissingUncertainty:
		return true
	}
	return false
}

// Violation is one concrete problem found by an evaluator.
type Violation struct {
	Kind     Kind   `json:"kind"`
	Day      int    `json:"day,omitempty"`
	Activity string `json:"activity,omitempty"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
}

// Verdict is a single evaluator's result.
type Verdict struct {
	Evaluator  string      `json:"evaluator"`
	Status     Status      `json:"status"`
	Violations []Violation `json:"violations,omitempty"`
	Checks     int         `json:"checks"`
}

// ResolveStatus derives pass/fail from a violation list: any
// non-informational violation fails the verdict.
func ResolveStatus(violations []Violation) Status {
	for _, v := range violations {
		if !v.Kind.Informational() {
			return StatusFail
		}
	}
	return StatusPass
}

// Aggregate folds component verdicts into an overall status:
// fail beats uncertain beats pass. Nil entries (evaluators that did not
// run) are skipped.
func Aggregate(verdicts ...*Verdict) Status {
	overall := StatusPass
	for _, v := range verdicts {
		if v == nil {
			continue
		}
		switch v.Status {
		case StatusFail:
			return StatusFail
		case StatusUncertain:
			overall = StatusUncertain
		}
	}
	return overall
}
