package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// BuildInfo carries version metadata injected at link time.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// VersionResponse is the JSON form of the version command.
type VersionResponse struct {
	BuildInfo

	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print version information",
	GroupID: groupConfig,
	Long:    `Print the sboxforge version, commit and build date.`,
	Example: `  sboxforge version
  sboxforge version -o json`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	cc := currentContext()
	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(VersionResponse{
			BuildInfo: normalizeBuildInfo(buildInfo),
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		})
	}

	out(cmd.OutOrStdout(), "sboxforge %s\n", formatVersion(buildInfo))
	return nil
}

// formatVersion renders build info as "v1.2.3 (commit: abc, built: date)".
func formatVersion(info BuildInfo) string {
	info = normalizeBuildInfo(info)
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

func normalizeBuildInfo(info BuildInfo) BuildInfo {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}
