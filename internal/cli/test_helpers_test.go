package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sboxforge/internal/config"
)

// testBuildInfo is passed to Execute by runCLI.
//
//nolint:gochecknoglobals // test fixture
var testBuildInfo = BuildInfo{Version: "v0.9.0-test", Commit: "abc1234", Date: "2026-01-01"}

// cliResult captures one command invocation.
type cliResult struct {
	Stdout string
	Stderr string
	Err    error
}

// cliEnv is an isolated home directory for command tests.
type cliEnv struct {
	t    *testing.T
	home string
}

// newCLIEnv points HOME and the sboxforge home at temp directories so no
// test touches the real user configuration or log file.
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	userHome := t.TempDir()
	t.Setenv("HOME", userHome)
	t.Setenv(config.EnvHome, "")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvVerbose, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvWorkers, "")
	return &cliEnv{t: t, home: filepath.Join(userHome, ".sboxforge")}
}

// path returns a file path inside the test home's parent directory.
func (e *cliEnv) path(name string) string {
	return filepath.Join(filepath.Dir(e.home), name)
}

// run executes the root command with args and the env's --home.
func (e *cliEnv) run(args ...string) cliResult {
	e.t.Helper()
	restore := saveGlobals(e.t)
	defer restore()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--home", e.home}, args...))
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := Execute(testBuildInfo)
	return cliResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// runJSON executes the command with -o json and decodes stdout into v.
func (e *cliEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	res := e.run(append(args, "-o", "json")...)
	require.NoError(e.t, res.Err, "stderr: %s", res.Stderr)
	require.NoError(e.t, json.Unmarshal([]byte(res.Stdout), v), "stdout: %s", res.Stdout)
}

// writeFile writes data into the env and returns its path.
func (e *cliEnv) writeFile(name string, data []byte) string {
	e.t.Helper()
	p := e.path(name)
	require.NoError(e.t, os.WriteFile(p, data, 0o600))
	return p
}

// readFile reads a file written by a command.
func (e *cliEnv) readFile(p string) []byte {
	e.t.Helper()
	data, err := os.ReadFile(p) //nolint:gosec // test path from t.TempDir
	require.NoError(e.t, err)
	return data
}

// saveGlobals snapshots package state and returns a restore func.
func saveGlobals(t *testing.T) func() {
	t.Helper()
	origCfg := cfg
	origLogger := logger
	origFormatter := formatter
	origMessenger := messenger
	origHomeDir := homeDir
	origOutputFormat := outputFormat
	origVerbose := verbose
	origBuildInfo := buildInfo
	return func() {
		cfg = origCfg
		logger = origLogger
		formatter = origFormatter
		messenger = origMessenger
		homeDir = origHomeDir
		outputFormat = origOutputFormat
		verbose = origVerbose
		buildInfo = origBuildInfo
	}
}

// resetFlags restores every flag in the tree to its default so one test's
// flags do not leak into the next invocation.
func resetFlags(root *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	walkCommands(root, func(cmd *cobra.Command) {
		cmd.Flags().VisitAll(reset)
		cmd.PersistentFlags().VisitAll(reset)
	})
}
