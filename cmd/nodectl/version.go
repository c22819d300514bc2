package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nodectl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.structured() {
				return a.printStructured(map[string]string{"nodectl": version})
			}
			_, err := fmt.Fprintf(a.stdout, "nodectl v%s\n", version)
			return err
		},
	}
}
