package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dreamware/nodectl/internal/clierr"
	"github.com/dreamware/nodectl/internal/tasks"
)

func newActiveTasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activetasks <cluster|url> [filter]",
		Short: "List the background tasks a node is running",
		Long: `Lists replications, compactions and indexers running on a node. A
cluster name queries the cluster's first node. The optional filter keeps
tasks whose type, source or target equals it exactly.`,
		Example: `  nodectl activetasks http://127.0.0.1:5984
  nodectl activetasks production replication
  nodectl activetasks production mydatabase`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args) > 2 {
				return clierr.Usage("Usage: activetasks <url|cluster> [filter]")
			}
			var filter string
			if len(args) == 2 {
				filter = args[1]
			}

			_, fetcher, err := a.components()
			if err != nil {
				return err
			}
			list, err := fetcher.Active(cmd.Context(), args[0], filter)
			if err != nil {
				return err
			}

			if a.structured() {
				return a.printStructured(list)
			}
			printTasks(a.stdout, list, filter)
			return nil
		},
	}
}

// printTasks writes a human readable task listing.
func printTasks(w io.Writer, list []tasks.Task, filter string) {
	if len(list) == 0 {
		if filter != "" {
			fmt.Fprintln(w, "There are no active tasks for that filter")
			return
		}
		fmt.Fprintln(w, "There are no active tasks")
		return
	}

	fmt.Fprintln(w, "Active Tasks:")
	for _, t := range list {
		fmt.Fprintf(w, "\n  %s\n", orDash(t.Type()))
		printField(w, "node", t.Field("node"))
		printField(w, "database", t.Field("database"))
		printField(w, "source", t.Source())
		printField(w, "target", t.Target())
		if p, ok := t["progress"].(float64); ok {
			printField(w, "progress", fmt.Sprintf("%.0f%%", p))
		}
		printField(w, "started", unixTime(t["started_on"]))
		printField(w, "updated", unixTime(t["updated_on"]))
	}
}

func printField(w io.Writer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "    %-9s %s\n", name+":", value)
}

// unixTime formats a JSON number of seconds since the epoch.
func unixTime(v any) string {
	secs, ok := v.(float64)
	if !ok || secs <= 0 {
		return ""
	}
	return time.Unix(int64(secs), 0).UTC().Format(time.RFC3339)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
