package candidate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfxrecover/internal/candidate"
)

func TestNewPatternNoWildcardsIgnoresEmptyAlphabet(t *testing.T) {
	pat, err := candidate.NewPattern([]rune("summer2024"), '@', nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, pat.Tiers())
	assert.Equal(t, "summer2024", string(pat.At(0, 0)))
}

func TestNewPatternWildcardsRequireAlphabet(t *testing.T) {
	_, err := candidate.NewPattern([]rune("summer@@@@"), '@', nil)
	assert.Error(t, err)
}

func TestPatternCardinalityMatchesWildcardCount(t *testing.T) {
	alphabet := []rune("01")
	pat, err := candidate.NewPattern([]rune("pin@@"), '@', alphabet)
	require.NoError(t, err)

	// Two wildcard positions over a 2-symbol alphabet: 2^2 = 4 candidates.
	assert.Equal(t, []int64{4}, pat.Tiers())
}

func TestPatternEnumeratesEveryAssignmentExactlyOnce(t *testing.T) {
	alphabet := []rune("01")
	pat, err := candidate.NewPattern([]rune("x@@"), '@', alphabet)
	require.NoError(t, err)

	seen := make(map[string]bool)
	size := pat.Tiers()[0]
	for idx := int64(0); idx < size; idx++ {
		cand := string(pat.At(0, idx))
		assert.False(t, seen[cand], "candidate %q produced twice", cand)
		seen[cand] = true
		assert.Equal(t, byte('x'), cand[0])
	}
	assert.Len(t, seen, 4)
}

func TestPatternLeftmostWildcardVariesSlowest(t *testing.T) {
	alphabet := []rune("01")
	pat, err := candidate.NewPattern([]rune("@@"), '@', alphabet)
	require.NoError(t, err)

	want := []string{"00", "01", "10", "11"}
	for i, w := range want {
		assert.Equal(t, w, string(pat.At(0, int64(i))))
	}
}

func TestPatternPreservesNonWildcardPositions(t *testing.T) {
	alphabet := []rune("ab")
	pat, err := candidate.NewPattern([]rune("P@55@"), '@', alphabet)
	require.NoError(t, err)

	for idx := int64(0); idx < pat.Tiers()[0]; idx++ {
		cand := string(pat.At(0, idx))
		assert.Equal(t, "P", string(cand[0]))
		assert.Equal(t, "55", cand[2:4])
	}
}

func TestPatternModeIsPattern(t *testing.T) {
	pat, err := candidate.NewPattern([]rune("abc"), '@', nil)
	require.NoError(t, err)
	assert.Equal(t, candidate.ModePattern, pat.Mode())
}
