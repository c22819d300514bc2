package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dreamware/nodectl/internal/clierr"
	"github.com/dreamware/nodectl/internal/cluster"
	"github.com/dreamware/nodectl/internal/config"
	"github.com/dreamware/nodectl/internal/health"
	"github.com/dreamware/nodectl/internal/logger"
	"github.com/dreamware/nodectl/internal/metrics"
	"github.com/dreamware/nodectl/internal/tasks"
)

// Output formats.
const (
	formatINI  = "ini"
	formatJSON = "json"
	formatYAML = "yaml"
)

// app carries flag values and the components built from them for one
// invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath  string
	json        bool
	format      string
	timeout     time.Duration
	concurrency int
	verbose     bool
	metricsFile string

	log     *zap.Logger
	metrics *metrics.Probe
	store   *config.Store
}

// addGlobalFlags registers the flags every command accepts.
func addGlobalFlags(fs *pflag.FlagSet, a *app) {
	fs.StringVarP(&a.configPath, "config", "c", "", "config file (default $"+config.EnvPath+" or ~/.nodectlrc)")
	fs.BoolVar(&a.json, "json", false, "output JSON, same as --format json")
	fs.StringVarP(&a.format, "format", "f", formatINI, "output format (ini, json, yaml)")
	fs.DurationVar(&a.timeout, "timeout", cluster.DefaultTimeout, "timeout for each request to a node")
	fs.IntVar(&a.concurrency, "concurrency", health.DefaultConcurrency, "maximum probes in flight")
	fs.BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging on stderr")
	fs.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the command")
}

// newRootCmd builds the command tree. The returned app must be finished
// once the command has run, whatever its outcome.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "nodectl",
		Short: "Manage and inspect clusters of database nodes",
		Long: `nodectl resolves named clusters to their node URLs, checks whether
nodes are reachable and lists the background tasks they are running.

Clusters are sections of an INI file:

  [production]
  node0=http://10.0.0.1:5984
  node1=http://10.0.0.2:5984`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	addGlobalFlags(root.PersistentFlags(), a)

	root.AddCommand(
		newConfigCmd(a),
		newIsOnlineCmd(a),
		newActiveTasksCmd(a),
		newVersionCmd(a),
	)
	return root, a
}

// setup validates global flags and builds the logger and metrics.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.json {
		a.format = formatJSON
	}
	switch a.format {
	case formatINI, formatJSON, formatYAML:
	default:
		return clierr.Usage("unknown output format %q (want ini, json or yaml)", a.format)
	}

	a.log = logger.New(logger.Options{Output: a.stderr, Verbose: a.verbose})
	if a.metricsFile != "" {
		a.metrics = metrics.New()
	}
	return nil
}

// finish flushes what the command produced besides its output. It runs
// after failed commands too, so error counters reach the metrics file.
// Nothing is written when setup never ran.
func (a *app) finish() error {
	if a.log != nil {
		defer func() { _ = a.log.Sync() }()
	}
	if a.metrics == nil {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.metricsFile); err != nil {
		return clierr.File(err, "cannot write metrics to %s", a.metricsFile)
	}
	return nil
}

// loadStore loads the configuration once per invocation.
func (a *app) loadStore() (*config.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	path := a.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	store, err := config.Load(path, config.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// components builds the checker and fetcher over the loaded config.
func (a *app) components() (*health.Checker, *tasks.Fetcher, error) {
	store, err := a.loadStore()
	if err != nil {
		return nil, nil, err
	}
	resolver := cluster.NewResolver(store)
	checker := health.NewChecker(resolver,
		health.WithTimeout(a.timeout),
		health.WithConcurrency(a.concurrency),
		health.WithLogger(a.log),
		health.WithMetrics(a.metrics),
	)
	fetcher := tasks.NewFetcher(checker, resolver,
		tasks.WithTimeout(a.timeout),
		tasks.WithLogger(a.log),
		tasks.WithMetrics(a.metrics),
	)
	return checker, fetcher, nil
}
