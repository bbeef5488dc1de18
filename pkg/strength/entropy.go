// pkg/strength/entropy.go

package strength

import (
	"math"
	"unicode"
)

// Pool sizes used for the entropy estimate.
const (
	poolLower  = 26
	poolUpper  = 26
	poolDigit  = 10
	poolSymbol = 33
	// caseless letters (CJK, Arabic, ...) get a coarse pool of their own
	poolOther = 64
)

type pools struct {
	lower, upper, digit, symbol, other bool
}

func (p pools) size() int {
	n := 0
	if p.lower {
		n += poolLower
	}
	if p.upper {
		n += poolUpper
	}
	if p.digit {
		n += poolDigit
	}
	if p.symbol {
		n += poolSymbol
	}
	if p.other {
		n += poolOther
	}
	return n
}

// classify walks password once and records its length and the pools it draws from.
func classify(password string) (composition, pools) {
	var c composition
	var p pools
	for _, r := range password {
		c.length++
		switch {
		case unicode.IsUpper(r):
			c.hasUpper = true
			p.upper = true
		case unicode.IsLower(r):
			c.hasLower = true
			p.lower = true
		case unicode.IsDigit(r):
			c.hasDigit = true
			p.digit = true
		case unicode.IsLetter(r):
			p.other = true
		default:
			c.hasSpecial = true
			p.symbol = true
		}
	}
	return c, p
}

// entropyBits is length * log2(pool size), rounded to one decimal place.
func entropyBits(length int, p pools) float64 {
	size := p.size()
	if length == 0 || size == 0 {
		return 0
	}
	bits := float64(length) * math.Log2(float64(size))
	return math.Round(bits*10) / 10
}

// Entropy estimates the bits of randomness in password.
func Entropy(password string) float64 {
	c, p := classify(password)
	return entropyBits(c.length, p)
}
