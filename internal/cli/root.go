// Package cli implements the sboxforge command-line interface.
//
// Command state lives in package globals, the usual Cobra layout. The globals
// are initialized in PersistentPreRunE and released in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sboxforge/internal/config"
	"github.com/mrz1836/sboxforge/internal/output"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// Command group IDs for the root help output.
const (
	groupSBox   = "sbox"
	groupCipher = "cipher"
	groupConfig = "config"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
	messenger *output.Messenger

	// buildInfo is set by Execute
	buildInfo BuildInfo

	enrichOnce sync.Once
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sboxforge",
	Short: "Parametric AES S-box generator, cipher and analyzer",
	Long: `sboxforge builds AES-128 substitution boxes from a field polynomial, an
affine multiplier and an affine constant, runs AES-128 with any bijective box,
and scores boxes by differential, linear and boomerang uniformity.

The search command explores the full parameter space in parallel and reports
the best-scoring boxes.`,
	Example: `  sboxforge sbox generate --poly 0x11d --mult 0x05 --out sbox.bin
  sboxforge sbox evaluate sbox.bin --boomerang
  sboxforge encrypt --key 000102030405060708090a0b0c0d0e0f --hex 00112233445566778899aabbccddeeff --block
  sboxforge search --polys all --mults 1-255 --consts 0x63 --top 5`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute(info BuildInfo) error {
	buildInfo = info
	enrichOnce.Do(func() { walkCommands(rootCmd, enrichParentLong) })

	// cobra only passes the root context to commands whose context is nil
	walkCommands(rootCmd, func(c *cobra.Command) {
		c.SetContext(nil) //nolint:staticcheck // SA1012: nil lets cobra inherit the root context
	})

	// an interrupt cancels a running search instead of killing the process
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		format := output.FormatText
		if formatter != nil {
			format = formatter.Format()
		}
		_ = output.FormatError(rootCmd.ErrOrStderr(), err, format)
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return forgeerr.ExitCode(err)
}

// initGlobals initializes global configuration, logger, formatter and
// messenger for the command about to run.
func initGlobals(cmd *cobra.Command) error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	switch {
	case err == nil:
	case forgeerr.Is(err, forgeerr.ErrConfigNotFound):
		cfg = config.Defaults()
	default:
		// a broken config file is reported, not silently replaced
		return err
	}

	config.ApplyEnvironment(cfg)

	// the directory the config was read from wins over its home field
	cfg.Home = home
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}

	if err = cfg.Validate(); err != nil {
		return err
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	if err != nil {
		logger = config.NullLogger()
		if cfg.Output.Verbose {
			logger.SetLevel(config.LogLevelDebug)
		}
	}
	if cfg.Output.Verbose {
		logger.SetMirror(cmd.ErrOrStderr())
	}

	w := cmd.OutOrStdout()
	explicit := output.ParseFormat(cfg.Output.DefaultFormat)
	formatter = output.NewFormatter(output.DetectFormat(w, explicit), w)
	messenger = output.NewMessenger(w, cmd.ErrOrStderr(), cfg.Output.Color)

	return nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupSBox, Title: "S-box Operations:"},
		&cobra.Group{ID: groupCipher, Title: "Cipher:"},
		&cobra.Group{ID: groupConfig, Title: "Configuration:"},
	)
	rootCmd.SetHelpCommandGroupID(groupConfig)

	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "sboxforge data directory (default: ~/.sboxforge)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output and debug logging on stderr")
}
