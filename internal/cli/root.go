package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tracebait/tracebait/internal/logging"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tracebait",
		Short:        "Conformance scenarios for syscall tracers.",
		Long:         "Conformance scenarios for syscall tracers; concurrent workloads with known observable outcomes that an interposition layer must reproduce exactly.",
		Example:      "",
		Version:      "0.0.1",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logfile, _ := cmd.Flags().GetString("log")
			debug, _ := cmd.Flags().GetBool("debug")

			if err := logging.Configure(logfile, debug); err != nil {
				return fmt.Errorf("initialise logging: %w", err)
			}

			if logfile != "" {
				cmd.Root().SetErr(logging.NewErrorWriter())
			}

			return nil
		},
	}

	cmd.AddCommand(
		sharedmapCmd(),
		wakerelayCmd(),
		sleepprofileCmd(),
	)

	cmd.PersistentFlags().StringP(
		"log",
		"l",
		"",
		"Destination to write diagnostic logs (default is stderr)",
	)

	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	cmd.CompletionOptions.HiddenDefaultCmd = true

	return cmd
}
