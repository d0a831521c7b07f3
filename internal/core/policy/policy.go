// Package policy decides whether a classification result is hidden at a given sensitivity
package policy

import (
	"strings"

	"replyguard/internal/core/classifier"
)

// Sensitivity selects the hide threshold
type Sensitivity string

const (
	// Low hides only obvious spam
	Low Sensitivity = "low"
	// Medium is the default threshold
	Medium Sensitivity = "medium"
	// High hides aggressively
	High Sensitivity = "high"
)

// Default is used for unset or unknown sensitivities
const Default = Medium

// Thresholds for the score-based levels
const (
	MediumMinScore = 2.0
	HighMinScore   = 1.5
	LowShortMin    = 2.0
)

// Values lists the known sensitivities in slider order
func Values() []Sensitivity { return []Sensitivity{Low, Medium, High} }

// Parse maps a raw string onto a known Sensitivity, reporting false for unknown input
func Parse(s string) (Sensitivity, bool) {
	switch Sensitivity(strings.ToLower(strings.TrimSpace(s))) {
	case Low:
		return Low, true
	case Medium:
		return Medium, true
	case High:
		return High, true
	default:
		return Default, false
	}
}

// Valid reports whether s is one of the known values
func (s Sensitivity) Valid() bool {
	_, ok := Parse(string(s))
	return ok
}

// String implements fmt.Stringer
func (s Sensitivity) String() string { return string(s) }

// ShouldHide is pure. Unknown sensitivities fall back to the medium rule
func ShouldHide(res classifier.Result, s Sensitivity) bool {
	switch s {
	case Low:
		// hashtag spam alone qualifies, otherwise short plus at least one more full rule
		return res.Has(classifier.ReasonHashtagSpam) ||
			(res.Has(classifier.ReasonShort) && res.Total >= LowShortMin)
	case High:
		return res.Total >= HighMinScore
	default:
		return res.Total >= MediumMinScore
	}
}
