// pkg/strength/patterns.go

package strength

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Issue messages reported under no_common_patterns.
const (
	IssueCommonPassword = "This is a commonly used password"
	IssueCommonWord     = "Contains common words"
	IssueKeyboard       = "Contains keyboard sequences"
	IssueRepeated       = "Contains repeated characters"
	IssueSequential     = "Contains sequential characters"
	IssuePersonal       = "Contains personal information"
)

const (
	repeatRunLength   = 3
	sequenceRunLength = 4
	minHintLength     = 3
)

// seedCommonPasswords is matched against the whole case-folded password.
var seedCommonPasswords = []string{
	"password", "123456", "123456789", "qwerty", "abc123",
	"password123", "admin", "letmein", "welcome", "monkey",
	"dragon", "master", "hello", "freedom", "whatever",
	"qazwsx", "trustno1", "jordan23", "harley", "robert",
	"12345678", "1234567890", "111111", "123123", "000000",
	"iloveyou", "sunshine", "princess", "football", "baseball",
	"shadow", "superman", "starwars", "passw0rd", "p@ssw0rd",
	"1q2w3e4r", "zaq12wsx", "qwerty123", "changeme", "secret",
}

// commonWords are matched as substrings.
var commonWords = []string{
	"password", "admin", "user", "login", "qwerty", "letmein", "welcome",
}

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm", "1234567890"}

// keyboardTriples holds every three-key walk along a row plus the literal "abc".
var keyboardTriples = buildTriples(append([]string{"abc"}, keyboardRows...))

func buildTriples(rows []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, row := range rows {
		r := []rune(row)
		for i := 0; i+3 <= len(r); i++ {
			out[string(r[i:i+3])] = struct{}{}
		}
	}
	return out
}

// fold returns the Unicode case-folded form used by every pattern check.
// A Caser is stateful, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func newDenylist(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(seedCommonPasswords)+len(extra))
	for _, list := range [][]string{seedCommonPasswords, extra} {
		for _, p := range list {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			set[fold(p)] = struct{}{}
		}
	}
	return set
}

// findIssues returns the weak-pattern issues of password, de-duplicated in
// discovery order. The empty password has no issues; it fails the criterion by length.
func findIssues(password string, denylist map[string]struct{}, hints []string) []string {
	if password == "" {
		return nil
	}
	folded := fold(password)
	runes := []rune(folded)

	var issues []string
	add := func(msg string) {
		for _, existing := range issues {
			if existing == msg {
				return
			}
		}
		issues = append(issues, msg)
	}

	if _, ok := denylist[folded]; ok {
		add(IssueCommonPassword)
	}
	for _, w := range commonWords {
		if strings.Contains(folded, w) {
			add(IssueCommonWord)
			break
		}
	}
	if hasKeyboardTriple(runes) {
		add(IssueKeyboard)
	}
	if hasRepeatRun(runes, repeatRunLength) {
		add(IssueRepeated)
	}
	if hasSequenceRun(runes, sequenceRunLength) {
		add(IssueSequential)
	}
	for _, h := range hints {
		h = fold(strings.TrimSpace(h))
		if utf8.RuneCountInString(h) < minHintLength {
			continue
		}
		if strings.Contains(folded, h) {
			add(IssuePersonal)
			break
		}
	}
	return issues
}

func hasKeyboardTriple(runes []rune) bool {
	for i := 0; i+3 <= len(runes); i++ {
		if _, ok := keyboardTriples[string(runes[i:i+3])]; ok {
			return true
		}
	}
	return false
}

func hasRepeatRun(runes []rune, n int) bool {
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

// hasSequenceRun looks for n or more consecutive ASCII letters or digits that
// step by exactly +1 or -1, e.g. "abcd" or "9876".
func hasSequenceRun(runes []rune, n int) bool {
	up, down := 1, 1
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		if !sameSequenceClass(prev, cur) {
			up, down = 1, 1
			continue
		}
		switch cur - prev {
		case 1:
			up++
			down = 1
		case -1:
			down++
			up = 1
		default:
			up, down = 1, 1
		}
		if up >= n || down >= n {
			return true
		}
	}
	return false
}

func sameSequenceClass(a, b rune) bool {
	isLower := func(r rune) bool { return r >= 'a' && r <= 'z' }
	isDigit := func(r rune) bool { return r >= '0' && r <= '9' }
	return (isLower(a) && isLower(b)) || (isDigit(a) && isDigit(b))
}
