// pkg/config/derive.go

package config

import (
	"bufio"
	"os"
	"strings"

	cerr "github.com/cockroachdb/errors"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/pwq_err"
	"github.com/CodeMonkeyCybersecurity/pwq/pkg/strength"
)

// GeneratorSpec turns the generator section into a crypto.Spec.
func (c *Config) GeneratorSpec() (crypto.Spec, error) {
	return SpecFrom(c.Generator.Length, c.Generator.Categories, c.Generator.Special)
}

// SpecFrom resolves category names. special, when set, replaces the special alphabet.
func SpecFrom(length int, names []string, special string) (crypto.Spec, error) {
	spec := crypto.Spec{Length: length}
	for _, name := range names {
		cat, err := crypto.CategoryByName(name)
		if err != nil {
			return crypto.Spec{}, pwq_err.NewValidationError(err.Error(),
				"Valid categories: lowercase, uppercase, digits, special")
		}
		if cat.Name == crypto.Special.Name && special != "" {
			cat.Alphabet = special
		}
		spec.Categories = append(spec.Categories, cat)
	}
	return spec, nil
}

// Evaluator builds the strength evaluator, adding common_passwords_file to the seed denylist.
func (c *Config) Evaluator() (*strength.Evaluator, error) {
	if c.CommonPasswordsFile == "" {
		return strength.NewEvaluator(), nil
	}
	extra, err := ReadCommonPasswords(c.CommonPasswordsFile)
	if err != nil {
		return nil, pwq_err.NewConfigurationError("cannot load common passwords", err)
	}
	return strength.NewEvaluator(strength.WithCommonPasswords(extra...)), nil
}

// ReadCommonPasswords reads one password per line; blank lines and # comments are skipped.
func ReadCommonPasswords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerr.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, cerr.Wrapf(err, "read %s", path)
	}
	return out, nil
}
