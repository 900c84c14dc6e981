// Command manage runs maintenance tasks: schema migration, role seeding,
// superuser creation and the invitation email worker.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:           "manage",
		Short:         "Business management API maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load variables from this file before the environment")

	cmd.AddCommand(
		newMigrateCmd(&envFile),
		newSeedCmd(&envFile),
		newCreateSuperuserCmd(&envFile),
		newWorkerCmd(&envFile),
	)
	return cmd
}
