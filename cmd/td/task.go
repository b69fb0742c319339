package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/taskdeck/internal/board"
	"github.com/zulandar/taskdeck/internal/models"
)

const defaultServerURL = "http://localhost:3001"

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task management commands",
	}

	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskShowCmd())
	cmd.AddCommand(newTaskUpdateCmd())
	cmd.AddCommand(newTaskMoveCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	return cmd
}

func newTaskCreateCmd() *cobra.Command {
	var (
		serverURL   string
		name        string
		description string
		column      string
		assignee    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := board.NewClient(serverURL, nil)
			t, err := client.CreateTask(cmd.Context(), board.CreateTaskRequest{
				Name:        name,
				Description: description,
				Column:      column,
				Assignee:    assignee,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %d in %s\n", t.ID, t.Column)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	cmd.Flags().StringVar(&name, "name", "", "task name (required)")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&column, "column", "backlog", "board column (backlog, todo, doing, review, done)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee name")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	var (
		serverURL string
		column    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks on the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := board.NewClient(serverURL, nil)
			tasks, err := client.ListTasks(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCOLUMN\tASSIGNEE\tNAME")
			for _, t := range tasks {
				if column != "" && t.Column != column {
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Column, t.Assignee, t.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	cmd.Flags().StringVar(&column, "column", "", "filter by column")
	return cmd
}

func newTaskShowCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			client := board.NewClient(serverURL, nil)
			t, err := client.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			printTask(cmd, t)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	return cmd
}

func newTaskUpdateCmd() *cobra.Command {
	var (
		serverURL   string
		name        string
		description string
		assignee    string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			var req board.UpdateTaskRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("assignee") {
				req.Assignee = &assignee
			}

			client := board.NewClient(serverURL, nil)
			t, err := client.UpdateTask(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	cmd.Flags().StringVar(&name, "name", "", "new task name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&assignee, "assignee", "", "new assignee")
	return cmd
}

func newTaskMoveCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "move <id> <column>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			client := board.NewClient(serverURL, nil)
			t, err := client.MoveTask(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved task %d to %s\n", t.ID, t.Column)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			client := board.NewClient(serverURL, nil)
			if err := client.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", defaultServerURL, "taskdeck server URL")
	return cmd
}

func parseIDArg(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", value)
	}
	return uint(id), nil
}

func printTask(cmd *cobra.Command, t *models.Task) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Task %d: %s\n", t.ID, t.Name)
	fmt.Fprintf(out, "Column:   %s\n", t.Column)
	fmt.Fprintf(out, "Assignee: %s\n", t.Assignee)
	if t.Description != nil {
		fmt.Fprintf(out, "\n%s\n", *t.Description)
	}
	fmt.Fprintf(out, "\nCreated %s, updated %s\n",
		t.CreatedAt.Format("2006-01-02 15:04"), t.UpdatedAt.Format("2006-01-02 15:04"))
}
