package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gematik/zero-lab/go/pkcs12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfxrecover/internal/config"
	"pfxrecover/internal/orchestrator"
)

func writeArchive(t *testing.T, password string) string {
	t.Helper()
	data, err := pkcs12.Encode(&pkcs12.Bags{}, []byte(password))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "secret.p12")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writeWordlist(t *testing.T, words ...string) string {
	t.Helper()
	contents := ""
	for _, w := range words {
		contents += w + "\n"
	}
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

// S1: dictionary mode finds a password present in the wordlist.
func TestRunDictionaryModeFindsPassword(t *testing.T) {
	archivePath := writeArchive(t, "correcthorse")
	dictPath := writeWordlist(t, "aardvark", "correcthorse", "zebra")

	cfg, err := config.FromFlags(config.RawOptions{
		ArchivePath:    archivePath,
		DictionaryPath: dictPath,
	})
	require.NoError(t, err)

	res, err := orchestrator.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, orchestrator.Found, res.Outcome)
	assert.Equal(t, "correcthorse", string(res.Password))
}

// S2: dictionary mode exhausts the wordlist without a match.
func TestRunDictionaryModeExhausted(t *testing.T) {
	archivePath := writeArchive(t, "correcthorse")
	dictPath := writeWordlist(t, "aardvark", "zebra")

	cfg, err := config.FromFlags(config.RawOptions{
		ArchivePath:    archivePath,
		DictionaryPath: dictPath,
	})
	require.NoError(t, err)

	res, err := orchestrator.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, orchestrator.Exhausted, res.Outcome)
}

// S4: pattern mode finds a password matching the template.
func TestRunPatternModeFindsPassword(t *testing.T) {
	archivePath := writeArchive(t, "pin0042")

	cfg, err := config.FromFlags(config.RawOptions{
		ArchivePath:     archivePath,
		Pattern:         "pin@@@@",
		CharsetSelector: "n",
	})
	require.NoError(t, err)

	res, err := orchestrator.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, orchestrator.Found, res.Outcome)
	assert.Equal(t, "pin0042", string(res.Password))
}

// A pattern with no wildcards needs no charset and still matches.
func TestRunPatternModeWithoutWildcards(t *testing.T) {
	archivePath := writeArchive(t, "staticpassword")

	cfg, err := config.FromFlags(config.RawOptions{
		ArchivePath: archivePath,
		Pattern:     "staticpassword",
	})
	require.NoError(t, err)

	res, err := orchestrator.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, orchestrator.Found, res.Outcome)
	assert.Equal(t, "staticpassword", string(res.Password))
}

// S3: brute force finds a short password.
func TestRunBruteForceModeFindsPassword(t *testing.T) {
	archivePath := writeArchive(t, "ab")

	cfg, err := config.FromFlags(config.RawOptions{
		ArchivePath:     archivePath,
		BruteForce:      true,
		CharsetSelector: "a",
		MinLength:       1,
		MaxLength:       2,
	})
	require.NoError(t, err)

	res, err := orchestrator.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, orchestrator.Found, res.Outcome)
	assert.Equal(t, "ab", string(res.Password))
}

// An archive that fails to open surfaces as ArchiveOpenError.
func TestRunMissingArchiveFile(t *testing.T) {
	cfg, err := config.FromFlags(config.RawOptions{
		ArchivePath: filepath.Join(t.TempDir(), "does-not-exist.p12"),
		BruteForce:  true,
		CharsetSelector: "a",
		MinLength:       1,
		MaxLength:       2,
	})
	require.NoError(t, err)

	_, err = orchestrator.Run(context.Background(), cfg)
	require.Error(t, err)
	var archiveErr *orchestrator.ArchiveOpenError
	assert.ErrorAs(t, err, &archiveErr)
}

func TestRunCancelledContextAborts(t *testing.T) {
	archivePath := writeArchive(t, "zzzzzzzzzzzzzzzzzzzzzzzz")

	cfg, err := config.FromFlags(config.RawOptions{
		ArchivePath:     archivePath,
		BruteForce:      true,
		CharsetSelector: "a",
		MinLength:       8,
		MaxLength:       8,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = orchestrator.Run(ctx, cfg)
	require.Error(t, err)
	var hardErr *orchestrator.HardOracleError
	assert.ErrorAs(t, err, &hardErr)
}
