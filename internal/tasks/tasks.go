// Package tasks lists the background operations a node is running
// (replications, compactions, indexers) and narrows them with a filter.
package tasks

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dreamware/nodectl/internal/clierr"
	"github.com/dreamware/nodectl/internal/cluster"
	"github.com/dreamware/nodectl/internal/metrics"
)

// endpoint is the node path listing active tasks.
const endpoint = "_active_tasks"

// Task is one record of a node's active task list. Only type, source and
// target have meaning here; every other field is carried through as is.
type Task map[string]any

// Field returns the string value of key, or "" if it is absent or not a
// string.
func (t Task) Field(key string) string {
	s, _ := t[key].(string)
	return s
}

// Type returns the task kind, e.g. "replication" or "view_compaction".
func (t Task) Type() string { return t.Field("type") }

// Source returns the task's source endpoint, if it has one.
func (t Task) Source() string { return t.Field("source") }

// Target returns the task's target endpoint, if it has one.
func (t Task) Target() string { return t.Field("target") }

// Matches reports whether filter equals the task's type, source or target.
func (t Task) Matches(filter string) bool {
	return t.Type() == filter || t.Source() == filter || t.Target() == filter
}

// Filter returns the tasks matching filter in their original order.
// An empty filter returns tasks unchanged.
func Filter(tasks []Task, filter string) []Task {
	if filter == "" {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Matches(filter) {
			out = append(out, t)
		}
	}
	return out
}

// Prober checks that a node answers before its tasks are requested.
type Prober interface {
	Probe(ctx context.Context, url string) bool
}

// NodeResolver picks the node to query for a cluster name or URL.
type NodeResolver interface {
	ResolveNode(target string) (string, error)
}

// Fetcher retrieves active task lists from nodes.
type Fetcher struct {
	prober     Prober
	resolver   NodeResolver
	httpClient *http.Client
	log        *zap.Logger
	metrics    *metrics.Probe
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the client used for task requests.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithTimeout bounds each task request. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// WithMetrics records every fetch in m.
func WithMetrics(m *metrics.Probe) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// NewFetcher creates a fetcher. p is consulted before each request so an
// offline node fails fast with a connectivity error.
func NewFetcher(p Prober, r NodeResolver, opts ...Option) *Fetcher {
	f := &Fetcher{
		prober:     p,
		resolver:   r,
		httpClient: &http.Client{Timeout: cluster.DefaultTimeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the active tasks of the node at nodeURL.
//
// nodeURL must be an absolute http(s) URL; otherwise a usage error is
// returned without touching the network. A node that does not answer, or a
// request that cannot complete, is a connectivity error. An empty list is
// returned as an empty, non-nil slice.
//
// Parameters:
//   - ctx: Bounds the reachability check and the task request
//   - nodeURL: Base URL of the node, e.g. "http://127.0.0.1:5984"
//
// Returns:
//   - Tasks as decoded from GET <nodeURL>/_active_tasks
//   - KindUsage error for an invalid URL
//   - KindConnectivity error if the node does not answer
//   - Wrapped error for a non-2xx status or undecodable body
//
// Example:
//
//	list, err := fetcher.Fetch(ctx, "http://127.0.0.1:5984")
//	if err != nil {
//		return err
//	}
//	fmt.Println(len(list), "tasks")
func (f *Fetcher) Fetch(ctx context.Context, nodeURL string) ([]Task, error) {
	tasksURL, err := cluster.JoinPath(nodeURL, endpoint)
	if err != nil {
		return nil, err
	}

	if !f.prober.Probe(ctx, nodeURL) {
		err := clierr.Connectivity(nil, "Could not connect to %s", nodeURL)
		f.metrics.ObserveTaskFetch(err)
		return nil, err
	}

	var list []Task
	err = cluster.GetJSON(ctx, f.httpClient, tasksURL, &list)
	f.metrics.ObserveTaskFetch(err)
	if err != nil {
		f.log.Debug("active tasks request failed", zap.String("url", tasksURL), zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []Task{}
	}
	f.log.Debug("active tasks fetched", zap.String("url", tasksURL), zap.Int("count", len(list)))
	return list, nil
}

// Active resolves target (a cluster name or node URL), fetches that node's
// tasks and applies filter. A cluster is queried through its first node.
//
// Parameters:
//   - ctx: Bounds the node requests
//   - target: Cluster name from the config, or a node URL
//   - filter: Exact type, source or target to keep; "" keeps every task
//
// Returns:
//   - Matching tasks in the order the node listed them
//   - KindUsage error for an empty target
//   - KindNotFound error if target is neither a cluster nor a URL
//   - Any error from Fetch
//
// Example:
//
//	repl, err := fetcher.Active(ctx, "production", "replication")
func (f *Fetcher) Active(ctx context.Context, target, filter string) ([]Task, error) {
	if target == "" {
		return nil, clierr.Usage("Usage: activetasks <url|cluster> [filter]")
	}
	nodeURL, err := f.resolver.ResolveNode(target)
	if err != nil {
		return nil, err
	}
	list, err := f.Fetch(ctx, nodeURL)
	if err != nil {
		return nil, err
	}
	return Filter(list, filter), nil
}
