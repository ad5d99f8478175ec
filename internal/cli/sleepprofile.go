package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tracebait/tracebait/internal/operations"
)

func sleepprofileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sleepprofile [flags]",
		Short:   "Measure the mean latency of back-to-back minimal sleeps",
		Example: "  tracebait sleepprofile --iterations 1000 --quantum 1ms",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			iterations, _ := cmd.Flags().GetInt("iterations")
			quantum, _ := cmd.Flags().GetDuration("quantum")

			if err := operations.SleepProfile(&operations.SleepProfileOpts{
				Iterations: iterations,
				Quantum:    quantum,
			}); err != nil {
				return fmt.Errorf("sleepprofile: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().IntP("iterations", "n", 1000, "Number of timed sleeps")
	cmd.Flags().DurationP("quantum", "q", time.Millisecond, "Requested duration of each sleep")

	return cmd
}
