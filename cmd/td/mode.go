package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zulandar/taskdeck/internal/board"
)

func newModeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Inspect or pin the server's sync mode",
	}

	cmd.AddCommand(newModeShowCmd())
	cmd.AddCommand(newModeSetCmd())
	cmd.AddCommand(newModeClearCmd())
	return cmd
}

func newModeShowCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current sync mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := board.NewClient(serverURL, nil)
			status, err := client.Mode(cmd.Context())
			if err != nil {
				return err
			}
			printMode(cmd, status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	return cmd
}

func newModeSetCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "set <LOCAL|CLOUD>",
		Short: "Pin the sync mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := board.NewClient(serverURL, nil)
			status, err := client.SetMode(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			printMode(cmd, status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	return cmd
}

func newModeClearCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the mode override",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := board.NewClient(serverURL, nil)
			status, err := client.SetMode(cmd.Context(), "")
			if err != nil {
				return err
			}
			printMode(cmd, status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	return cmd
}

func printMode(cmd *cobra.Command, status *board.ModeStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Mode: %s\n", status.Mode)
	if status.CloudConfigured {
		fmt.Fprintln(out, "Cloud mirror configured")
	} else {
		fmt.Fprintln(out, "No cloud mirror configured")
	}
}
