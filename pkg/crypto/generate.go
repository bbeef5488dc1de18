/* pkg/crypto/generate.go */

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
)

// ----------------------------
// 🔐 Character categories
// ----------------------------

const (
	LowercaseAlphabet = "abcdefghijklmnopqrstuvwxyz"
	UppercaseAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DigitAlphabet     = "0123456789"
	SpecialAlphabet   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// DefaultLength is the length of a password built from DefaultSpec.
	DefaultLength = 16
)

// Category is a named pool of characters. Pools may overlap.
type Category struct {
	Name     string `json:"name" yaml:"name"`
	Alphabet string `json:"alphabet" yaml:"alphabet"`
}

var (
	Lowercase = Category{Name: "lowercase", Alphabet: LowercaseAlphabet}
	Uppercase = Category{Name: "uppercase", Alphabet: UppercaseAlphabet}
	Digits    = Category{Name: "digits", Alphabet: DigitAlphabet}
	Special   = Category{Name: "special", Alphabet: SpecialAlphabet}
)

// DefaultCategories returns lowercase, uppercase, digits and special, in that order.
func DefaultCategories() []Category {
	return []Category{Lowercase, Uppercase, Digits, Special}
}

// CategoryByName resolves a built-in category. "numbers" and "symbols" are accepted aliases.
func CategoryByName(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lowercase", "lower":
		return Lowercase, nil
	case "uppercase", "upper":
		return Uppercase, nil
	case "digits", "numbers":
		return Digits, nil
	case "special", "symbols":
		return Special, nil
	}
	return Category{}, cerr.Newf("unknown character category %q", name)
}

// Spec describes the password to generate.
type Spec struct {
	Length     int        `json:"length" yaml:"length"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// DefaultSpec is 16 characters over the four default categories.
func DefaultSpec() Spec {
	return Spec{Length: DefaultLength, Categories: DefaultCategories()}
}

// ConfigurationError reports every problem found in a Spec. Callers must fix the
// spec before retrying.
type ConfigurationError struct {
	Length     int
	Categories int
	errs       *multierror.Error
}

func (e *ConfigurationError) Error() string {
	return "invalid generation spec: " + e.errs.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.errs
}

// Problems lists the individual violations.
func (e *ConfigurationError) Problems() []string {
	out := make([]string, 0, len(e.errs.Errors))
	for _, err := range e.errs.Errors {
		out = append(out, err.Error())
	}
	return out
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return cerr.As(err, &ce)
}

// Validate returns a *ConfigurationError if the spec cannot be satisfied.
func (s Spec) Validate() error {
	var errs *multierror.Error
	if len(s.Categories) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("at least one category is required"))
	}
	for i, c := range s.Categories {
		if c.Alphabet == "" {
			errs = multierror.Append(errs, fmt.Errorf("category %d (%q) has an empty alphabet", i, c.Name))
		}
	}
	if s.Length < len(s.Categories) {
		errs = multierror.Append(errs, fmt.Errorf(
			"length %d is shorter than the %d required categories", s.Length, len(s.Categories)))
	}
	if errs == nil {
		return nil
	}
	errs.ErrorFormat = joinErrors
	return &ConfigurationError{Length: s.Length, Categories: len(s.Categories), errs: errs}
}

func joinErrors(es []error) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// ----------------------------
// 🔐 Passwords
// ----------------------------

// Generator draws passwords from a random source. The default source is crypto/rand.
type Generator struct {
	random io.Reader
}

// NewGenerator returns a Generator reading from random, or crypto/rand when nil.
func NewGenerator(random io.Reader) *Generator {
	if random == nil {
		random = rand.Reader
	}
	return &Generator{random: random}
}

var defaultGenerator = NewGenerator(nil)

// Generate builds a password for spec using crypto/rand.
func Generate(spec Spec) (string, error) {
	return defaultGenerator.Generate(spec)
}

// GeneratePassword creates a strong random password of the given length with at
// least one character from each default category.
func GeneratePassword(length int) (string, error) {
	return Generate(Spec{Length: length, Categories: DefaultCategories()})
}

// Generate guarantees one character per category, fills the rest from the union
// of all alphabets, then shuffles so the guaranteed characters land anywhere.
func (g *Generator) Generate(spec Spec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}

	pw := make([]rune, 0, spec.Length)

	// Guarantee 1 character from each category
	for _, c := range spec.Categories {
		r, err := g.randomRune([]rune(c.Alphabet))
		if err != nil {
			return "", cerr.Wrapf(err, "draw from category %q", c.Name)
		}
		pw = append(pw, r)
	}

	// Fill the rest
	all := union(spec.Categories)
	for len(pw) < spec.Length {
		r, err := g.randomRune(all)
		if err != nil {
			return "", cerr.Wrap(err, "draw from combined alphabet")
		}
		pw = append(pw, r)
	}

	if err := g.shuffle(pw); err != nil {
		return "", cerr.Wrap(err, "shuffle password")
	}

	return string(pw), nil
}

// union concatenates the alphabets, keeping the first occurrence of each rune.
func union(categories []Category) []rune {
	seen := make(map[rune]struct{})
	var out []rune
	for _, c := range categories {
		for _, r := range c.Alphabet {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

func (g *Generator) randomRune(charset []rune) (rune, error) {
	i, err := g.randomIndex(len(charset))
	if err != nil {
		return 0, err
	}
	return charset[i], nil
}

// randomIndex returns a uniform int in [0, n).
func (g *Generator) randomIndex(n int) (int, error) {
	v, err := rand.Int(g.random, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// shuffle is a Fisher-Yates shuffle: walk from the last slot down, swapping each
// with a uniformly chosen slot at or before it.
func (g *Generator) shuffle(b []rune) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := g.randomIndex(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
