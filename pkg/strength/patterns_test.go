// pkg/strength/patterns_test.go

package strength

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonPatterns(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{name: "empty", password: "", want: nil},
		{name: "clean", password: "Tr0ub4dor&3xyz!", want: nil},
		{name: "denylisted", password: "password", want: []string{IssueCommonPassword, IssueCommonWord}},
		{name: "denylisted any case", password: "PaSsWoRd", want: []string{IssueCommonPassword, IssueCommonWord}},
		{name: "digit run", password: "12345678", want: []string{IssueCommonPassword, IssueKeyboard, IssueSequential}},
		{name: "word inside", password: "Xk9!loginZ", want: []string{IssueCommonWord}},
		{name: "keyboard walk", password: "Zp!asdQ9", want: []string{IssueKeyboard}},
		{name: "repeated run", password: "Zp!aaaQ9", want: []string{IssueRepeated}},
		{name: "repeated across case", password: "Zp!aAaQ9", want: []string{IssueRepeated}},
		{name: "descending letters", password: "Zp!hgfeQ9", want: []string{IssueSequential}},
		{name: "three-step letters allowed", password: "Zp!xyz#Q9", want: nil},
		{name: "mixed class does not chain", password: "Zp!89ab#Q", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommonPatterns(tt.password))
		})
	}
}

func TestCommonPatterns_Hints(t *testing.T) {
	assert.Equal(t, []string{IssuePersonal}, CommonPatterns("Zp!Alice#Q9", "alice@example.com", "ALICE"))
	assert.Nil(t, CommonPatterns("Zp!Alice#Q9", "bob"))
}

func TestHasSequenceRun(t *testing.T) {
	assert.True(t, hasSequenceRun([]rune("abcd"), 4))
	assert.True(t, hasSequenceRun([]rune("x6543"), 4))
	assert.False(t, hasSequenceRun([]rune("abce"), 4))
	assert.False(t, hasSequenceRun([]rune("ab12"), 4))
	assert.False(t, hasSequenceRun([]rune("abab"), 4))
}

func TestHasRepeatRun(t *testing.T) {
	assert.True(t, hasRepeatRun([]rune("xx!!!"), 3))
	assert.False(t, hasRepeatRun([]rune("xx!!"), 3))
	assert.False(t, hasRepeatRun(nil, 3))
}
