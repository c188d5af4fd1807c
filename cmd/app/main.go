package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "holou",
		Short:         "Holou learning plan service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (migrates on start)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServer()
			},
		},
		newMigrateCmd(),
		newPlansCmd(),
		newStaffCmd(),
	)
	return root
}
