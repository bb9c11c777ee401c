// Command pfxrecover recovers the password protecting a PKCS#12 archive by
// dictionary attack, pattern attack, or brute force.
//
// This file is the CLI layer the core spec treats as an external
// collaborator (see SPEC_FULL.md §4.7): it owns flag parsing, logging setup,
// signal handling, and the process exit code, and hands everything else off
// to internal/config and internal/orchestrator.
//
// Grounded on
// _examples/gematik-zero-lab/go/epa/cmd/zero-epa/cmd/root.go for the
// cobra+viper+console-slog+godotenv wiring, and on
// _examples/other_examples/cyclone-github-atomic_pwn__main.go's
// signal-driven stopChan for the shutdown path, translated to a canceled
// context.Context.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	console "github.com/phsym/console-slog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pfxrecover/internal/charset"
	"pfxrecover/internal/config"
	"pfxrecover/internal/orchestrator"
)

// errExhausted signals a normal, unsuccessful search: the candidate space
// was drained and none of it matched.
var errExhausted = errors.New("password not found")

var verbose bool

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	cmd := newRootCmd()
	err := cmd.Execute()
	return exitCode(err)
}

func newRootCmd() *cobra.Command {
	var opts rawFlags

	cmd := &cobra.Command{
		Use:   "pfxrecover <archive.p12>",
		Short: "Recover the password protecting a PKCS#12 archive",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &config.InvalidConfigurationError{Err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)

			rawOpts := opts.toRawOptions(viper.GetViper())
			rawOpts.ArchivePath = args[0]

			cfg, err := config.FromFlags(rawOpts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := orchestrator.Run(ctx, cfg)
			if err != nil {
				return err
			}
			if result.Outcome != orchestrator.Found {
				return errExhausted
			}

			fmt.Println(string(result.Password))
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.InvalidConfigurationError{Err: err}
	})

	return cmd
}

// rawFlags holds the pflag-bound Go values; bind wires them to the command
// and to viper so environment variables (PFXRECOVER_*) can fill in any flag
// the user left unset.
type rawFlags struct {
	dictionaryPath  string
	pattern         string
	patternSymbol   string
	bruteForce      bool
	charsetSelector string
	customChars     string
	minLength       int
	maxLength       int
	delimiter       string
	threads         int
	chunkSize       int
}

func (o *rawFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.dictionaryPath, "dictionary", "d", "", "enable dictionary mode with this wordlist")
	flags.StringVar(&o.pattern, "pattern", "", "enable pattern mode with this template")
	flags.StringVar(&o.patternSymbol, "pattern-symbol", "@", "wildcard scalar within the pattern")
	flags.BoolVar(&o.bruteForce, "brute-force", false, "enable brute-force mode")
	flags.StringVarP(&o.charsetSelector, "charset", "c", "", "charset selector from {a,A,n,s,x}")
	flags.StringVar(&o.customChars, "custom-chars", "", "extra alphabet characters")
	flags.IntVar(&o.minLength, "min-length", 1, "brute-force minimum length")
	flags.IntVar(&o.maxLength, "max-length", 6, "brute-force maximum length")
	flags.StringVar(&o.delimiter, "delimiter", "\n", "dictionary entry separator")
	flags.IntVarP(&o.threads, "threads", "t", 0, "worker count (default: logical CPU count)")
	flags.IntVar(&o.chunkSize, "chunk-size", 0, "candidates per coordination chunk (default 1024)")

	v := viper.GetViper()
	v.SetEnvPrefix("PFXRECOVER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{
		"dictionary", "pattern", "pattern-symbol", "brute-force", "charset",
		"custom-chars", "min-length", "max-length", "delimiter", "threads", "chunk-size",
	} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

func (o *rawFlags) toRawOptions(v *viper.Viper) config.RawOptions {
	return config.RawOptions{
		DictionaryPath:  v.GetString("dictionary"),
		Pattern:         v.GetString("pattern"),
		PatternSymbol:   v.GetString("pattern-symbol"),
		BruteForce:      v.GetBool("brute-force"),
		CharsetSelector: v.GetString("charset"),
		CustomChars:     v.GetString("custom-chars"),
		MinLength:       v.GetInt("min-length"),
		MaxLength:       v.GetInt("max-length"),
		Delimiter:       v.GetString("delimiter"),
		Threads:         v.GetInt("threads"),
		ChunkSize:       v.GetInt("chunk-size"),
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := console.NewHandler(os.Stderr, &console.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// exitCode maps the RunE error (or nil) to the process exit codes defined
// in SPEC_FULL.md §6.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var invalidCfg *config.InvalidConfigurationError
	var invalidCharset *charset.InvalidSelectorError
	var archiveErr *orchestrator.ArchiveOpenError
	var hardErr *orchestrator.HardOracleError

	switch {
	case errors.Is(err, errExhausted):
		fmt.Fprintln(os.Stderr, "password not found")
		return 1

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(os.Stderr, "interrupted")
		return 130

	case errors.As(err, &invalidCfg), errors.As(err, &invalidCharset):
		fmt.Fprintln(os.Stderr, err)
		return 2

	case errors.As(err, &archiveErr), errors.As(err, &hardErr):
		fmt.Fprintln(os.Stderr, err)
		return 3

	default:
		fmt.Fprintln(os.Stderr, err)
		return 3
	}
}
