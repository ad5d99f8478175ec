package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/tracebait/tracebait/internal/operations"
)

func sharedmapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sharedmap [flags]",
		Short:   "Write thread ids into a fixed-address shared mapping",
		Example: "  tracebait sharedmap --threads 10 --addr 0x67000000",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, _ := cmd.Flags().GetInt("threads")
			addr, _ := cmd.Flags().GetString("addr")
			size, _ := cmd.Flags().GetString("size")
			idle, _ := cmd.Flags().GetDuration("idle")
			joinTimeout, _ := cmd.Flags().GetDuration("join-timeout")

			addrValue, err := strconv.ParseUint(addr, 0, 64)
			if err != nil {
				return fmt.Errorf("parse addr %q: %w", addr, err)
			}

			sizeValue, err := strconv.ParseUint(size, 0, 64)
			if err != nil {
				return fmt.Errorf("parse size %q: %w", size, err)
			}

			if err := operations.SharedMap(&operations.SharedMapOpts{
				Threads:     threads,
				Addr:        addrValue,
				Size:        sizeValue,
				Idle:        idle,
				JoinTimeout: joinTimeout,
			}); err != nil {
				return fmt.Errorf("sharedmap: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().IntP("threads", "t", 10, "Number of worker threads")
	cmd.Flags().StringP("addr", "a", "0x67000000", "Fixed virtual address for the region")
	cmd.Flags().StringP("size", "s", "0x2000", "Region size in bytes")
	cmd.Flags().DurationP("idle", "i", 100*time.Millisecond, "Idle sleep per worker")
	cmd.Flags().DurationP("join-timeout", "j", 5*time.Second, "Bound on joining workers")

	return cmd
}
