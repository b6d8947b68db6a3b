package cli

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/mrz1836/sboxforge/internal/config"
	"github.com/mrz1836/sboxforge/internal/output"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// configKeys lists every settable path in display order.
//
//nolint:gochecknoglobals // read-only lookup table
var configKeys = []string{
	"home",
	"search.workers",
	"search.polynomials",
	"search.multipliers",
	"search.constants",
	"search.boomerang",
	"search.top",
	"search.score_cache",
	"cipher.polynomial",
	"cipher.multiplier",
	"cipher.constant",
	"cipher.sbox_file",
	"output.default_format",
	"output.color",
	"output.verbose",
	"logging.level",
	"logging.file",
}

// maxKeyTypoDistance is the largest edit distance suggestKey still reports.
const maxKeyTypoDistance = 4

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage configuration",
	GroupID: groupConfig,
	Long:    `View and modify sboxforge configuration settings.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.sboxforge/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.`,
	Example: `  sboxforge config init
  sboxforge config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after environment overrides.`,
	Example: `  sboxforge config show
  sboxforge config show -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.`,
	Example: `  sboxforge config get search.multipliers
  sboxforge config get cipher.polynomial
  sboxforge config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree. The value is
validated before the configuration file is rewritten.`,
	Example: `  sboxforge config set search.constants 0-255
  sboxforge config set cipher.sbox_file ~/boxes/best.bin
  sboxforge config set output.default_format json`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configGetCmd, configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	cc := currentContext()
	configPath := config.Path(cc.Config.Home)

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return forgeerr.WithSuggestion(
			forgeerr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = cc.Config.Home

	if err := config.Save(defaultCfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(map[string]string{"path": configPath})
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - search.*: default search space, workers and ranking")
	outln(w, "  - cipher.*: S-box used by encrypt and decrypt")
	outln(w, "  - output.default_format: Output format (text/json)")
	outln(w, "  - logging.level: Log level (off/error/info/debug)")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cc := currentContext()

	if cc.Fmt.IsJSON() {
		values := make(map[string]string, len(configKeys))
		for _, key := range configKeys {
			v, _ := getConfigValue(cc.Config, key)
			values[key] = v
		}
		return cc.Fmt.Print(values)
	}

	table := output.NewTable("KEY", "VALUE")
	for _, key := range configKeys {
		v, _ := getConfigValue(cc.Config, key)
		if v == "" {
			v = "(not set)"
		}
		table.AddRow(key, v)
	}
	return table.Render(cmd.OutOrStdout())
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, err := getConfigValue(cfg, args[0])
	if err != nil {
		return err
	}
	outln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, value := args[0], args[1]

	if _, err := getConfigValue(cfg, path); err != nil {
		return err
	}

	configPath := config.Path(cfg.Home)
	currentCfg, err := config.Load(configPath)
	if err != nil {
		if !forgeerr.Is(err, forgeerr.ErrConfigNotFound) {
			return err
		}
		currentCfg = config.Defaults()
		currentCfg.Home = cfg.Home
	}

	if err = setConfigValue(currentCfg, path, value); err != nil {
		return err
	}
	if err = currentCfg.Validate(); err != nil {
		return err
	}

	if err = config.Save(currentCfg, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out(cmd.OutOrStdout(), "Set %s = %s\n", path, value)
	return nil
}

// getConfigValue retrieves a value from the config using dot notation.
func getConfigValue(c *config.Config, path string) (string, error) {
	section, key, found := strings.Cut(path, ".")
	if !found {
		if section == "home" {
			return c.Home, nil
		}
		return "", unknownKey(path)
	}

	switch section {
	case "search":
		return getSearchValue(c, key)
	case "cipher":
		return getCipherValue(c, key)
	case "output":
		return getOutputValue(c, key)
	case "logging":
		return getLoggingValue(c, key)
	default:
		return "", unknownKey(path)
	}
}

func getSearchValue(c *config.Config, key string) (string, error) {
	switch key {
	case "workers":
		return strconv.Itoa(c.Search.Workers), nil
	case "polynomials":
		return c.Search.Polynomials, nil
	case "multipliers":
		return c.Search.Multipliers, nil
	case "constants":
		return c.Search.Constants, nil
	case "boomerang":
		return strconv.FormatBool(c.Search.Boomerang), nil
	case "top":
		return strconv.Itoa(c.Search.Top), nil
	case "score_cache":
		return strconv.Itoa(c.Search.ScoreCache), nil
	default:
		return "", unknownKey("search." + key)
	}
}

func getCipherValue(c *config.Config, key string) (string, error) {
	switch key {
	case "polynomial":
		return c.Cipher.Polynomial, nil
	case "multiplier":
		return c.Cipher.Multiplier, nil
	case "constant":
		return c.Cipher.Constant, nil
	case "sbox_file":
		return c.Cipher.SBoxFile, nil
	default:
		return "", unknownKey("cipher." + key)
	}
}

func getOutputValue(c *config.Config, key string) (string, error) {
	switch key {
	case "default_format":
		return c.Output.DefaultFormat, nil
	case "verbose":
		return strconv.FormatBool(c.Output.Verbose), nil
	case "color":
		return c.Output.Color, nil
	default:
		return "", unknownKey("output." + key)
	}
}

func getLoggingValue(c *config.Config, key string) (string, error) {
	switch key {
	case "level":
		return c.Logging.Level, nil
	case "file":
		return c.Logging.File, nil
	default:
		return "", unknownKey("logging." + key)
	}
}

// setConfigValue sets a value in the config using dot notation. Range and
// parameter syntax is checked afterwards by Config.Validate.
func setConfigValue(c *config.Config, path, value string) error {
	switch path {
	case "home":
		c.Home = value
	case "search.workers":
		return setInt(&c.Search.Workers, path, value)
	case "search.polynomials":
		c.Search.Polynomials = value
	case "search.multipliers":
		c.Search.Multipliers = value
	case "search.constants":
		c.Search.Constants = value
	case "search.boomerang":
		return setBool(&c.Search.Boomerang, path, value)
	case "search.top":
		return setInt(&c.Search.Top, path, value)
	case "search.score_cache":
		return setInt(&c.Search.ScoreCache, path, value)
	case "cipher.polynomial":
		c.Cipher.Polynomial = value
	case "cipher.multiplier":
		c.Cipher.Multiplier = value
	case "cipher.constant":
		c.Cipher.Constant = value
	case "cipher.sbox_file":
		c.Cipher.SBoxFile = value
	case "output.default_format":
		return setChoice(&c.Output.DefaultFormat, path, value, "text", "json", "auto")
	case "output.color":
		return setChoice(&c.Output.Color, path, value, "auto", "always", "never")
	case "output.verbose":
		return setBool(&c.Output.Verbose, path, value)
	case "logging.level":
		return setChoice(&c.Logging.Level, path, value, "off", "error", "info", "debug")
	case "logging.file":
		c.Logging.File = value
	default:
		return unknownKey(path)
	}
	return nil
}

func setInt(dst *int, path, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return forgeerr.WithDetails(forgeerr.ErrInvalidInput, map[string]string{
			"key": path, "value": value, "valid": "a non-negative integer",
		})
	}
	*dst = n
	return nil
}

func setBool(dst *bool, path, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return forgeerr.WithDetails(forgeerr.ErrInvalidInput, map[string]string{
			"key": path, "value": value, "valid": "true or false",
		})
	}
	*dst = b
	return nil
}

func setChoice(dst *string, path, value string, valid ...string) error {
	for _, v := range valid {
		if value == v {
			*dst = value
			return nil
		}
	}
	return forgeerr.WithDetails(forgeerr.ErrInvalidFormat, map[string]string{
		"key": path, "value": value, "valid": strings.Join(valid, ", "),
	})
}

func unknownKey(path string) error {
	err := forgeerr.WithDetails(forgeerr.ErrUnknownConfigKey, map[string]string{"key": path})
	if key := suggestKey(path); key != "" {
		return forgeerr.WithSuggestion(err, fmt.Sprintf("did you mean %s?", key))
	}
	return forgeerr.WithSuggestion(err, "run 'sboxforge config show' to list the keys")
}

// suggestKey returns the settable key closest to path by Levenshtein
// distance, or "" when none is within maxKeyTypoDistance.
func suggestKey(path string) string {
	path = strings.ToLower(strings.TrimSpace(path))

	minDist := math.MaxInt
	var suggestion string
	for _, key := range configKeys {
		dist := levenshtein.ComputeDistance(path, key)
		if dist < minDist {
			minDist = dist
			suggestion = key
		}
	}

	if minDist <= maxKeyTypoDistance {
		return suggestion
	}
	return ""
}
