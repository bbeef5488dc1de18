// pkg/strength/evaluate.go

package strength

import (
	"strings"
)

const (
	// MinLength is the threshold of the "length" criterion.
	MinLength = 8
	// RecommendedLength is the threshold of the "min_length" criterion.
	RecommendedLength = 12

	// PositiveMarker is the word that distinguishes the single "all good" feedback
	// line from deficiency lines. Display layers match on it.
	PositiveMarker = "Excellent"

	positiveFeedback = PositiveMarker + "! This is a strong password."
	nearlyFeedback   = "Good password. Add a few more characters to make it even stronger."
)

// Report is the strength report for one password.
type Report struct {
	Strength Level          `json:"strength" yaml:"strength"`
	Score    int            `json:"score" yaml:"score"`
	Length   int            `json:"length" yaml:"length"`
	Entropy  float64        `json:"entropy" yaml:"entropy"`
	Criteria CriteriaResult `json:"criteria" yaml:"criteria"`
	Feedback []string       `json:"feedback" yaml:"feedback"`
}

// IsPositive reports whether line is the "all good" feedback message.
func IsPositive(line string) bool {
	return strings.Contains(line, PositiveMarker)
}

// Evaluator scores passwords. The zero value is not usable; build one with
// NewEvaluator. An Evaluator is immutable and safe for concurrent use.
type Evaluator struct {
	denylist map[string]struct{}
}

// Option customises an Evaluator.
type Option func(*evaluatorOptions)

type evaluatorOptions struct {
	common []string
}

// WithCommonPasswords adds entries to the seed denylist of common passwords.
func WithCommonPasswords(passwords ...string) Option {
	return func(o *evaluatorOptions) {
		o.common = append(o.common, passwords...)
	}
}

// NewEvaluator builds an Evaluator with the seed denylist plus any extras.
func NewEvaluator(opts ...Option) *Evaluator {
	var o evaluatorOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Evaluator{denylist: newDenylist(o.common)}
}

var defaultEvaluator = NewEvaluator()

// Evaluate scores password with the seed denylist.
func Evaluate(password string) Report {
	return defaultEvaluator.Evaluate(password)
}

// CommonPatterns returns the weak-pattern issues found in password with the seed denylist.
func CommonPatterns(password string, hints ...string) []string {
	return findIssues(password, defaultEvaluator.denylist, hints)
}

// Evaluate scores password. Hints are user-specific strings (username, e-mail)
// that must not appear in the password. It never fails.
func (e *Evaluator) Evaluate(password string, hints ...string) Report {
	comp, p := classify(password)
	comp.issues = findIssues(password, e.denylist, hints)

	var met CriteriaResult
	for i := range criteria {
		met[i] = criteria[i].met(&comp)
	}

	entropy := entropyBits(comp.length, p)
	score := computeScore(met, entropy)

	return Report{
		Strength: LevelForScore(score),
		Score:    score,
		Length:   comp.length,
		Entropy:  entropy,
		Criteria: met,
		Feedback: feedback(met, comp.issues, score),
	}
}

// feedback lists one line per unmet criterion in display order. Pattern issues
// stand in for the generic no_common_patterns advice when any were found.
func feedback(met CriteriaResult, issues []string, score int) []string {
	if met.All() {
		if LevelForScore(score) == VeryStrong {
			return []string{positiveFeedback}
		}
		return []string{nearlyFeedback}
	}

	var lines []string
	for i := range criteria {
		c := Criterion(i)
		if met.Met(c) {
			continue
		}
		if c == CriterionNoCommonPatterns && len(issues) > 0 {
			lines = append(lines, issues...)
			continue
		}
		lines = append(lines, c.Advice())
	}
	return lines
}
