package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dreamware/nodectl/internal/clierr"
	"github.com/dreamware/nodectl/internal/config"
)

const configUsage = "Usage: config [get [section [key]] | set <section> <key> <value>]"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change the cluster configuration",
		Long: `Without a subcommand, prints the whole configuration like "config get".
Sections whose values are node URLs can be used as cluster names.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return clierr.Usage("%s", configUsage)
			}
			return a.configGet(nil)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [section [key]]",
		Short: "Print the configuration, a section or a single value",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.configGet(args)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <section> <key> <value>",
		Short: "Store a value and save the configuration file",
		Example: `  nodectl config set production node0 http://10.0.0.1:5984
  nodectl config set production node1 http://10.0.0.2:5984`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.configSet(args)
		},
	})

	return cmd
}

// configGet prints the document, a section or a value.
func (a *app) configGet(args []string) error {
	if len(args) > 2 {
		return clierr.Usage("%s", configUsage)
	}
	store, err := a.loadStore()
	if err != nil {
		return err
	}

	switch len(args) {
	case 0:
		if a.structured() {
			return a.printStructured(store.Get())
		}
		_, err := a.stdout.Write(store.Encode())
		return err

	case 1:
		sec, ok := store.Section(args[0])
		if !ok {
			return clierr.NotFound("Section does not exist: %s", args[0])
		}
		if a.structured() {
			return a.printStructured(sec)
		}
		_, err := a.stdout.Write(config.EncodeSection(sec))
		return err

	default:
		value, ok := store.Value(args[0], args[1])
		if !ok {
			return clierr.NotFound("Key does not exist: %s.%s", args[0], args[1])
		}
		if a.structured() {
			return a.printStructured(config.NewSection(args[1], value))
		}
		_, err := fmt.Fprintln(a.stdout, value)
		return err
	}
}

// configSet stores one value.
func (a *app) configSet(args []string) error {
	if len(args) != 3 {
		return clierr.Usage("Usage: config set <section> <key> <value>")
	}
	store, err := a.loadStore()
	if err != nil {
		return err
	}
	return store.Set(args[0], args[1], args[2])
}
