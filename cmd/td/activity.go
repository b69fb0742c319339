package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/taskdeck/internal/board"
)

func newActivityCmd() *cobra.Command {
	var (
		serverURL string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the recent activity feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := board.NewClient(serverURL, nil)
			activities, err := client.ListActivities(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tTYPE\tACTION\tDESCRIPTION")
			for _, a := range activities {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					a.CreatedAt.Format("2006-01-02 15:04"), a.Type, a.Action, a.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "max entries to show (default 100, max 500)")
	return cmd
}
