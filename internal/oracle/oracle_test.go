package oracle_test

import (
	"testing"

	"github.com/gematik/zero-lab/go/pkcs12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfxrecover/internal/oracle"
)

func encodeFixture(t *testing.T, password string) []byte {
	t.Helper()
	data, err := pkcs12.Encode(&pkcs12.Bags{}, []byte(password))
	require.NoError(t, err)
	return data
}

func TestOracleVerifyMatch(t *testing.T) {
	archive := encodeFixture(t, "correct-horse-battery-staple")

	oc, err := oracle.New(archive)
	require.NoError(t, err)

	res, err := oc.Verify([]byte("correct-horse-battery-staple"))
	require.NoError(t, err)
	assert.Equal(t, oracle.Match, res)
}

func TestOracleVerifyNoMatch(t *testing.T) {
	archive := encodeFixture(t, "correct-horse-battery-staple")

	oc, err := oracle.New(archive)
	require.NoError(t, err)

	res, err := oc.Verify([]byte("wrong-password"))
	require.NoError(t, err)
	assert.Equal(t, oracle.NoMatch, res)
}

func TestOracleVerifyIsSafeForConcurrentUse(t *testing.T) {
	archive := encodeFixture(t, "concurrent-pw")
	oc, err := oracle.New(archive)
	require.NoError(t, err)

	done := make(chan oracle.Result, 8)
	for i := 0; i < 8; i++ {
		go func(n int) {
			candidate := "concurrent-pw"
			if n%2 == 0 {
				candidate = "not-it"
			}
			res, err := oc.Verify([]byte(candidate))
			require.NoError(t, err)
			done <- res
		}(i)
	}

	matches, noMatches := 0, 0
	for i := 0; i < 8; i++ {
		switch <-done {
		case oracle.Match:
			matches++
		case oracle.NoMatch:
			noMatches++
		}
	}
	assert.Equal(t, 4, matches)
	assert.Equal(t, 4, noMatches)
}

func TestNewRejectsGarbage(t *testing.T) {
	_, err := oracle.New([]byte("not a pkcs12 archive"))
	assert.Error(t, err)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "match", oracle.Match.String())
	assert.Equal(t, "no-match", oracle.NoMatch.String())
}
