package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIsOnlineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "isonline <cluster|url>...",
		Short: "Check whether nodes are reachable",
		Long: `Probes every node of the given clusters and every given URL at the
same time. A node that answers with any HTTP status is online; a refused
connection, unknown host or timeout means offline.`,
		Example: `  nodectl isonline production
  nodectl isonline http://127.0.0.1:5984 http://127.0.0.1:15984
  nodectl isonline --json production staging`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, _, err := a.components()
			if err != nil {
				return err
			}
			status, err := checker.Check(cmd.Context(), args...)
			if err != nil {
				return err
			}

			if a.structured() {
				return a.printStructured(status)
			}
			for _, u := range status.URLs() {
				state := "offline"
				if online, _ := status.Online(u); online {
					state = "online"
				}
				fmt.Fprintf(a.stdout, "%s is %s\n", u, state)
			}
			return nil
		},
	}
}
