package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// contextWithTimeout derives a deadline from the command context, which
// carries interrupt cancellation when run through Execute.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(base, d)
}
