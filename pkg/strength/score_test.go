// pkg/strength/score_test.go

package strength

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForScore_CoversRangeMonotonically(t *testing.T) {
	prev := LevelForScore(0)
	assert.Equal(t, VeryWeak, prev)

	for score := 0; score <= MaxScore; score++ {
		level := LevelForScore(score)
		assert.NotEqual(t, "Unknown", level.String(), "score %d", score)
		assert.GreaterOrEqual(t, level, prev, "score %d", score)
		prev = level
	}
	assert.Equal(t, VeryStrong, LevelForScore(MaxScore))
}

func TestLevelForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{-5, VeryWeak},
		{19, VeryWeak},
		{20, Weak},
		{39, Weak},
		{40, Fair},
		{59, Fair},
		{60, Strong},
		{79, Strong},
		{80, VeryStrong},
		{250, VeryStrong},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestLevel_MinScoreMatchesBands(t *testing.T) {
	for _, l := range Levels() {
		assert.Equal(t, l, LevelForScore(l.MinScore()))
		if l.MinScore() > 0 {
			assert.Less(t, LevelForScore(l.MinScore()-1), l)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels() {
		got, err := ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	_, err := ParseLevel("Moderate")
	assert.Error(t, err)
}

func TestComputeScore(t *testing.T) {
	all := CriteriaResult{true, true, true, true, true, true, true}

	t.Run("criteria floor plus entropy bonus", func(t *testing.T) {
		assert.Equal(t, 70, computeScore(all, 0))
		assert.Equal(t, 85, computeScore(all, 40))
		assert.Equal(t, MaxScore, computeScore(all, 500))
	})

	t.Run("weak pattern caps the score", func(t *testing.T) {
		capped := all
		capped[CriterionNoCommonPatterns] = false
		assert.Equal(t, patternCap, computeScore(capped, 120))
	})

	t.Run("monotonic in entropy", func(t *testing.T) {
		prev := -1
		for bits := 0.0; bits <= 120; bits += 0.5 {
			s := computeScore(all, bits)
			assert.GreaterOrEqual(t, s, prev)
			prev = s
		}
	})

	t.Run("monotonic in criteria", func(t *testing.T) {
		var met CriteriaResult
		for _, entropy := range []float64{0, 20, 60, 100} {
			met = CriteriaResult{}
			prev := computeScore(met, entropy)
			for _, c := range AllCriteria() {
				met[c] = true
				s := computeScore(met, entropy)
				assert.GreaterOrEqual(t, s, prev, "adding %s at %.0f bits", c, entropy)
				prev = s
			}
		}
	})
}

func TestEntropy(t *testing.T) {
	assert.Equal(t, 0.0, Entropy(""))
	assert.InDelta(t, 37.6, Entropy("password"), 0.05)
	assert.InDelta(t, 98.5, Entropy("Tr0ub4dor&3xyz!"), 0.05)

	// grows with length and with diversity
	assert.Greater(t, Entropy("abcdefgh1"), Entropy("abcdefgh"))
	assert.Greater(t, Entropy("abcdefgH"), Entropy("abcdefgh"))
}
