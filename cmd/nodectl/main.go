// Package main implements nodectl, an operator tool for clusters of
// CouchDB-style database nodes.
//
// nodectl keeps a small INI file of named clusters, checks whether nodes are
// reachable and lists the background tasks a node is running.
//
// Commands:
//
//	nodectl config get [section [key]]       print the configuration
//	nodectl config set <section> <key> <value>
//	nodectl isonline <cluster|url>...        probe nodes concurrently
//	nodectl activetasks <cluster|url> [filter]
//	nodectl version
//
// Configuration:
//   - --config: config file (default: $NODECTL_CONF or ~/.nodectlrc)
//   - --json / --format: output as ini|json|yaml
//   - --timeout: per-request timeout (default: 5s)
//   - --metrics-file: write Prometheus metrics for the textfile collector
//
// Example usage:
//
//	nodectl config set production node0 http://10.0.0.1:5984
//	nodectl config set production node1 http://10.0.0.2:5984
//	nodectl isonline production
//	nodectl activetasks production replication
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dreamware/nodectl/internal/clierr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, a := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if ferr := a.finish(); err == nil {
		err = ferr
	}
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if clierr.IsUsage(err) && cmd != nil {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
	return 1
}
