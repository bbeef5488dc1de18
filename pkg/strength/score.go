// pkg/strength/score.go

package strength

import (
	"math"

	cerr "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Scoring weights. Each satisfied criterion is worth criterionWeight points and
// the entropy bonus scales linearly up to entropyBonusMax at entropyBonusBits.
// A password that matches a weak pattern is capped at patternCap.
const (
	MaxScore         = 100
	criterionWeight  = 10
	entropyBonusMax  = 30
	entropyBonusBits = 80.0
	patternCap       = 15
)

// Level is the qualitative strength label. Levels are ordered: a higher Level is stronger.
type Level int

const (
	VeryWeak Level = iota
	Weak
	Fair
	Strong
	VeryStrong
)

// band maps the inclusive lower bound of a score range to its Level.
type band struct {
	min   int
	level Level
	label string
}

// bands covers [0,100] without gaps; each band ends where the next begins.
var bands = []band{
	{min: 0, level: VeryWeak, label: "Very Weak"},
	{min: 20, level: Weak, label: "Weak"},
	{min: 40, level: Fair, label: "Fair"},
	{min: 60, level: Strong, label: "Strong"},
	{min: 80, level: VeryStrong, label: "Very Strong"},
}

// LevelForScore returns the band containing score. Out-of-range scores are clamped.
func LevelForScore(score int) Level {
	score = clamp(score, 0, MaxScore)
	level := bands[0].level
	for _, b := range bands {
		if score >= b.min {
			level = b.level
		}
	}
	return level
}

// Levels returns every level from weakest to strongest.
func Levels() []Level {
	out := make([]Level, len(bands))
	for i, b := range bands {
		out[i] = b.level
	}
	return out
}

// MinScore returns the lowest score that yields l.
func (l Level) MinScore() int {
	for _, b := range bands {
		if b.level == l {
			return b.min
		}
	}
	return 0
}

func (l Level) String() string {
	for _, b := range bands {
		if b.level == l {
			return b.label
		}
	}
	return "Unknown"
}

// ParseLevel maps a label such as "Very Strong" back to its Level.
func ParseLevel(label string) (Level, error) {
	for _, b := range bands {
		if b.label == label {
			return b.level, nil
		}
	}
	return 0, cerr.Newf("unknown strength label %q", label)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Level) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	return l.UnmarshalText([]byte(value.Value))
}

// computeScore combines satisfied criteria and entropy into 0..100.
func computeScore(met CriteriaResult, entropy float64) int {
	bonus := int(math.Floor(entropy * entropyBonusMax / entropyBonusBits))
	bonus = clamp(bonus, 0, entropyBonusMax)

	score := met.Count()*criterionWeight + bonus
	if !met.Met(CriterionNoCommonPatterns) && score > patternCap {
		score = patternCap
	}
	return clamp(score, 0, MaxScore)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
