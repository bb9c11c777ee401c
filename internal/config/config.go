// Package config validates and normalizes the raw command-line/environment
// values into the Orchestrator's Config record. This is the out-of-core
// "external collaborator" layer the spec delegates argument parsing to; it
// never runs an Oracle call, only structural validation.
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Mode selects exactly one attack mode.
type Mode int

const (
	ModeDictionary Mode = iota
	ModePattern
	ModeBruteForce
)

// RawOptions mirrors the command surface in SPEC_FULL.md §6, exactly as
// bound by cobra/pflag, before any validation or normalization.
type RawOptions struct {
	ArchivePath string

	DictionaryPath string
	Pattern        string
	PatternSymbol  string
	BruteForce     bool

	CharsetSelector string
	CustomChars     string

	MinLength int
	MaxLength int
	Delimiter string

	Threads   int
	ChunkSize int
}

// Config is the validated, immutable configuration record the Orchestrator
// consumes.
type Config struct {
	ArchivePath string
	Mode        Mode

	DictionaryPath string
	Delimiter      byte

	Pattern       []rune
	PatternSymbol rune

	CharsetSelector string
	CustomChars     string

	MinLength int
	MaxLength int

	Threads   int
	ChunkSize int
}

// InvalidConfigurationError wraps one or more structural problems with the
// raw options; every field named here maps to SPEC_FULL.md §7's
// InvalidConfiguration error kind (exit code 2).
type InvalidConfigurationError struct {
	Err error
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Err)
}

func (e *InvalidConfigurationError) Unwrap() error { return e.Err }

// FromFlags validates raw and returns the normalized Config, or an
// InvalidConfigurationError describing every problem found (not just the
// first).
func FromFlags(raw RawOptions) (*Config, error) {
	var errs error

	if raw.ArchivePath == "" {
		errs = multierr.Append(errs, fmt.Errorf("archive path is required"))
	}

	mode, modeErr := selectMode(raw)
	errs = multierr.Append(errs, modeErr)

	cfg := &Config{
		ArchivePath:     raw.ArchivePath,
		Mode:            mode,
		DictionaryPath:  raw.DictionaryPath,
		CharsetSelector: raw.CharsetSelector,
		CustomChars:     raw.CustomChars,
		MinLength:       raw.MinLength,
		MaxLength:       raw.MaxLength,
		Threads:         raw.Threads,
		ChunkSize:       raw.ChunkSize,
	}

	if modeErr == nil {
		switch mode {
		case ModeDictionary:
			delim, err := normalizeDelimiter(raw.Delimiter)
			if err != nil {
				errs = multierr.Append(errs, err)
			}
			cfg.Delimiter = delim

		case ModePattern:
			symbol, err := normalizePatternSymbol(raw.PatternSymbol)
			if err != nil {
				errs = multierr.Append(errs, err)
			}
			cfg.Pattern = []rune(raw.Pattern)
			cfg.PatternSymbol = symbol

		case ModeBruteForce:
			if raw.MinLength < 1 {
				errs = multierr.Append(errs, fmt.Errorf("min length must be positive, got %d", raw.MinLength))
			}
			if raw.MinLength > raw.MaxLength {
				errs = multierr.Append(errs, fmt.Errorf("min length %d exceeds max length %d", raw.MinLength, raw.MaxLength))
			}
		}
	}

	if errs != nil {
		return nil, &InvalidConfigurationError{Err: errs}
	}
	return cfg, nil
}

// selectMode enforces "exactly one of --dictionary, --pattern,
// --brute-force must be active".
func selectMode(raw RawOptions) (Mode, error) {
	active := 0
	var mode Mode

	if raw.DictionaryPath != "" {
		active++
		mode = ModeDictionary
	}
	if raw.Pattern != "" {
		active++
		mode = ModePattern
	}
	if raw.BruteForce {
		active++
		mode = ModeBruteForce
	}

	switch active {
	case 0:
		return 0, fmt.Errorf("no attack mode selected: use --dictionary, --pattern, or --brute-force")
	case 1:
		return mode, nil
	default:
		return 0, fmt.Errorf("more than one attack mode selected: --dictionary, --pattern, and --brute-force are mutually exclusive")
	}
}

func normalizeDelimiter(raw string) (byte, error) {
	if raw == "" {
		return '\n', nil
	}
	if len(raw) != 1 {
		return 0, fmt.Errorf("--delimiter must be exactly one byte, got %q", raw)
	}
	return raw[0], nil
}

func normalizePatternSymbol(raw string) (rune, error) {
	if raw == "" {
		return '@', nil
	}
	runes := []rune(raw)
	if len(runes) != 1 {
		return 0, fmt.Errorf("--pattern-symbol must be exactly one character, got %q", raw)
	}
	return runes[0], nil
}
