package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// subcommandsHeading introduces the list appended by enrichParentLong.
const subcommandsHeading = "Subcommands:"

// walkCommands calls fn on cmd, then recurses into its children in order.
func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, sub := range cmd.Commands() {
		walkCommands(sub, fn)
	}
}

// enrichParentLong appends the available subcommands to the Long text of a
// group command such as sbox or config. The root command, leaves and
// commands already enriched are left alone.
func enrichParentLong(cmd *cobra.Command) {
	if cmd == rootCmd || !cmd.HasSubCommands() || strings.Contains(cmd.Long, subcommandsHeading) {
		return
	}

	lines := []string{cmd.Long, "", subcommandsHeading}
	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %-10s %s", sub.Name(), sub.Short))
	}
	cmd.Long = strings.Join(lines, "\n")
}
