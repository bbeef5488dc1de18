// pkg/strength/criteria.go

package strength

import (
	"bytes"
	"encoding/json"
	"fmt"

	cerr "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Criterion identifies one named composition check. The set is closed and its
// order is the display order used by every report.
type Criterion int

const (
	CriterionLength Criterion = iota
	CriterionMinLength
	CriterionUppercase
	CriterionLowercase
	CriterionNumbers
	CriterionSpecialChars
	CriterionNoCommonPatterns

	criterionCount
)

// composition holds the facts the predicates read. It is computed once per password.
type composition struct {
	length     int
	hasUpper   bool
	hasLower   bool
	hasDigit   bool
	hasSpecial bool
	issues     []string
}

// criterionRow is one row of the static criterion table.
type criterionRow struct {
	id     string
	label  string
	advice string
	met    func(c *composition) bool
}

// criteria is indexed by Criterion; the array length pins the table to exactly seven rows.
var criteria = [criterionCount]criterionRow{
	CriterionLength: {
		id:     "length",
		label:  "At least 8 characters",
		advice: "Password should be at least 8 characters long",
		met:    func(c *composition) bool { return c.length >= MinLength },
	},
	CriterionMinLength: {
		id:     "min_length",
		label:  "At least 12 characters",
		advice: "Consider using 12+ characters for better security",
		met:    func(c *composition) bool { return c.length >= RecommendedLength },
	},
	CriterionUppercase: {
		id:     "uppercase",
		label:  "Uppercase letters (A-Z)",
		advice: "Add uppercase letters (A-Z)",
		met:    func(c *composition) bool { return c.hasUpper },
	},
	CriterionLowercase: {
		id:     "lowercase",
		label:  "Lowercase letters (a-z)",
		advice: "Add lowercase letters (a-z)",
		met:    func(c *composition) bool { return c.hasLower },
	},
	CriterionNumbers: {
		id:     "numbers",
		label:  "Numbers (0-9)",
		advice: "Add numbers (0-9)",
		met:    func(c *composition) bool { return c.hasDigit },
	},
	CriterionSpecialChars: {
		id:     "special_chars",
		label:  "Special characters (!@#$...)",
		advice: "Add special characters (!@#$%^&*)",
		met:    func(c *composition) bool { return c.hasSpecial },
	},
	CriterionNoCommonPatterns: {
		id:     "no_common_patterns",
		label:  "No common patterns",
		advice: "Avoid common passwords, keyboard sequences and repeated characters",
		met:    func(c *composition) bool { return c.length > 0 && len(c.issues) == 0 },
	},
}

// AllCriteria returns every criterion in display order.
func AllCriteria() []Criterion {
	out := make([]Criterion, criterionCount)
	for i := range out {
		out[i] = Criterion(i)
	}
	return out
}

// String returns the wire identifier, e.g. "min_length".
func (c Criterion) String() string {
	if !c.valid() {
		return fmt.Sprintf("criterion(%d)", int(c))
	}
	return criteria[c].id
}

// Label returns the human label shown next to the check.
func (c Criterion) Label() string {
	if !c.valid() {
		return ""
	}
	return criteria[c].label
}

// Advice returns the generic feedback line used when the criterion is unmet.
func (c Criterion) Advice() string {
	if !c.valid() {
		return ""
	}
	return criteria[c].advice
}

func (c Criterion) valid() bool {
	return c >= 0 && c < criterionCount
}

// ParseCriterion maps a wire identifier back to its Criterion.
func ParseCriterion(id string) (Criterion, error) {
	for i := range criteria {
		if criteria[i].id == id {
			return Criterion(i), nil
		}
	}
	return 0, cerr.Newf("unknown criterion %q", id)
}

// CriteriaResult holds the met state of every criterion, indexed by Criterion.
type CriteriaResult [criterionCount]bool

// Met reports whether c is satisfied.
func (r CriteriaResult) Met(c Criterion) bool {
	if !c.valid() {
		return false
	}
	return r[c]
}

// Count returns how many criteria are satisfied.
func (r CriteriaResult) Count() int {
	n := 0
	for _, ok := range r {
		if ok {
			n++
		}
	}
	return n
}

// All reports whether every criterion is satisfied.
func (r CriteriaResult) All() bool {
	return r.Count() == int(criterionCount)
}

// Map returns the result keyed by wire identifier. Iteration order of the map is
// not the display order; use AllCriteria for that.
func (r CriteriaResult) Map() map[string]bool {
	out := make(map[string]bool, criterionCount)
	for i, ok := range r {
		out[criteria[i].id] = ok
	}
	return out
}

// MarshalJSON writes the seven keys in display order.
func (r CriteriaResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ok := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(criteria[i].id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if ok {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object carrying exactly the seven known keys.
func (r *CriteriaResult) UnmarshalJSON(data []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return cerr.Wrap(err, "decode criteria")
	}
	return r.fromMap(raw)
}

// MarshalYAML renders an ordered mapping node.
func (r CriteriaResult) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, ok := range r {
		value := "false"
		if ok {
			value = "true"
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: criteria[i].id},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: value},
		)
	}
	return node, nil
}

// UnmarshalYAML mirrors UnmarshalJSON.
func (r *CriteriaResult) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]bool
	if err := value.Decode(&raw); err != nil {
		return cerr.Wrap(err, "decode criteria")
	}
	return r.fromMap(raw)
}

func (r *CriteriaResult) fromMap(raw map[string]bool) error {
	if len(raw) != int(criterionCount) {
		return cerr.Newf("criteria must carry exactly %d keys, got %d", criterionCount, len(raw))
	}
	var out CriteriaResult
	for id, ok := range raw {
		c, err := ParseCriterion(id)
		if err != nil {
			return err
		}
		out[c] = ok
	}
	*r = out
	return nil
}
