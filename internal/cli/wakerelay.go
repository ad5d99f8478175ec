package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tracebait/tracebait/internal/operations"
)

func wakerelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wakerelay [flags]",
		Short:   "Relay a condvar signal around a ring of waiting threads",
		Example: "  tracebait wakerelay --threads 5 --kicker 3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, _ := cmd.Flags().GetInt("threads")
			kicker, _ := cmd.Flags().GetInt("kicker")
			delay, _ := cmd.Flags().GetDuration("delay")
			joinTimeout, _ := cmd.Flags().GetDuration("join-timeout")

			if err := operations.WakeRelay(&operations.WakeRelayOpts{
				Threads:     threads,
				Kicker:      kicker,
				Delay:       delay,
				JoinTimeout: joinTimeout,
			}); err != nil {
				return fmt.Errorf("wakerelay: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().IntP("threads", "t", 5, "Number of ring positions")
	cmd.Flags().IntP("kicker", "k", 3, "Ring position the driver signals")
	cmd.Flags().DurationP("delay", "", 100*time.Millisecond, "Driver sleep before signaling")
	cmd.Flags().DurationP("join-timeout", "j", 5*time.Second, "Bound on joining workers")

	return cmd
}
