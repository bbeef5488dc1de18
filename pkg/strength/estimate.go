// pkg/strength/estimate.go

package strength

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// GuessEstimate is a second opinion from the zxcvbn pattern matcher. It is
// reported alongside a Report and does not feed into the score.
type GuessEstimate struct {
	// Score is zxcvbn's 0..4 rating.
	Score int `json:"score" yaml:"score"`
	// Entropy is zxcvbn's minimum-entropy match, in bits.
	Entropy float64 `json:"entropy" yaml:"entropy"`
	// CrackTime is a human string such as "3 hours" or "centuries".
	CrackTime string `json:"crack_time" yaml:"crack_time"`
}

// Estimate runs zxcvbn over password, treating hints as user-specific inputs.
func Estimate(password string, hints ...string) GuessEstimate {
	if password == "" {
		return GuessEstimate{CrackTime: "instant"}
	}
	m := zxcvbn.PasswordStrength(password, hints)
	return GuessEstimate{
		Score:     m.Score,
		Entropy:   m.Entropy,
		CrackTime: m.CrackTimeDisplay,
	}
}
