// Package orchestrator wires a validated Config into an Archive Handle, a
// candidate generator, and the Search Driver, then reports the outcome.
// Grounded on the teacher's main(): read the archive, build the candidate
// source, run the workers, report — relocated out of main into a reusable
// package the way the reference pack's cmd/* trees call down into library
// code instead of inlining it.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"pfxrecover/internal/archive"
	"pfxrecover/internal/candidate"
	"pfxrecover/internal/charset"
	"pfxrecover/internal/config"
	"pfxrecover/internal/oracle"
	"pfxrecover/internal/search"
)

// Outcome classifies how a Run call ended. It mirrors search.Outcome but
// lives in the Orchestrator's own vocabulary since Aborted is reported
// through the error return, not as an Outcome value.
type Outcome int

const (
	Exhausted Outcome = iota
	Found
)

// Result is the Orchestrator's report to its caller (the CLI layer).
type Result struct {
	Outcome  Outcome
	Password []byte
}

// ArchiveOpenError wraps a failure to read, map, or parse the archive file
// itself, independent of any candidate password.
type ArchiveOpenError struct{ Err error }

func (e *ArchiveOpenError) Error() string { return fmt.Sprintf("cannot open archive: %s", e.Err) }
func (e *ArchiveOpenError) Unwrap() error { return e.Err }

// HardOracleError wraps a failure inside the Oracle that is independent of
// the candidate tried — an unsupported or missing MAC. Run also reports a
// search stopped by ctx through it, wrapping ctx's error.
type HardOracleError struct{ Err error }

func (e *HardOracleError) Error() string { return fmt.Sprintf("oracle error: %s", e.Err) }
func (e *HardOracleError) Unwrap() error { return e.Err }

// Run performs one full search: load the archive, build the Effective
// Alphabet and Generator for cfg.Mode, drive the search, and report.
func Run(ctx context.Context, cfg *config.Config) (Result, error) {
	handle, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		return Result{}, &ArchiveOpenError{Err: err}
	}
	defer handle.Close()

	oc, err := oracle.New(handle.Bytes())
	if err != nil {
		if errors.Is(err, oracle.ErrNoMAC) {
			return Result{}, &HardOracleError{Err: err}
		}
		return Result{}, &ArchiveOpenError{Err: err}
	}

	src, cleanup, err := buildGenerator(cfg)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	slog.Info("starting search", "mode", src.Mode(), "archive", cfg.ArchivePath, "threads", threads)

	driver := search.New(cfg.ChunkSize)
	res, err := driver.Search(ctx, src, oc, threads)
	if err != nil {
		return Result{}, &HardOracleError{Err: err}
	}

	switch res.Outcome {
	case search.Found:
		slog.Info("password found")
		return Result{Outcome: Found, Password: res.Password}, nil
	default:
		slog.Info("candidate space exhausted without a match")
		return Result{Outcome: Exhausted}, nil
	}
}

// buildGenerator constructs the candidate.Source for cfg.Mode and a cleanup
// function releasing any resources it opened (a memory map, for
// dictionary mode; a no-op for the indexable generators).
func buildGenerator(cfg *config.Config) (candidate.Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Mode {
	case config.ModeDictionary:
		dict, err := candidate.OpenDictionary(cfg.DictionaryPath, cfg.Delimiter)
		if err != nil {
			return nil, noop, &ArchiveOpenError{Err: err}
		}
		return dict, dict.Close, nil

	case config.ModePattern:
		// A pattern with no wildcards needs no alphabet at all (it yields
		// itself exactly once), so the alphabet is only required when the
		// pattern actually has a variable position.
		alphabet, err := resolveAlphabet(cfg, patternHasWildcard(cfg.Pattern, cfg.PatternSymbol))
		if err != nil {
			return nil, noop, err
		}
		pat, err := candidate.NewPattern(cfg.Pattern, cfg.PatternSymbol, []rune(alphabet))
		if err != nil {
			return nil, noop, &config.InvalidConfigurationError{Err: err}
		}
		return pat, noop, nil

	case config.ModeBruteForce:
		alphabet, err := resolveAlphabet(cfg, true)
		if err != nil {
			return nil, noop, err
		}
		bf, err := candidate.NewBruteForce([]rune(alphabet), cfg.MinLength, cfg.MaxLength)
		if err != nil {
			return nil, noop, &config.InvalidConfigurationError{Err: err}
		}
		return bf, noop, nil

	default:
		return nil, noop, fmt.Errorf("orchestrator: unknown mode %v", cfg.Mode)
	}
}

// resolveAlphabet builds the Effective Alphabet, failing with
// InvalidConfiguration if it turns out empty and required is true
// (brute-force and a pattern with wildcards both require a non-empty
// alphabet; a pattern without wildcards does not).
func resolveAlphabet(cfg *config.Config, required bool) (charset.Alphabet, error) {
	alphabet, err := charset.Resolve(cfg.CharsetSelector, cfg.CustomChars)
	if err != nil {
		return nil, err
	}
	if required && len(alphabet) == 0 {
		return nil, &config.InvalidConfigurationError{
			Err: fmt.Errorf("no --charset or --custom-chars given"),
		}
	}
	return alphabet, nil
}

// patternHasWildcard reports whether pattern contains at least one
// occurrence of symbol.
func patternHasWildcard(pattern []rune, symbol rune) bool {
	for _, r := range pattern {
		if r == symbol {
			return true
		}
	}
	return false
}
