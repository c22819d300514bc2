package integration

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/nodectl/internal/clierr"
	"github.com/dreamware/nodectl/internal/cluster"
	"github.com/dreamware/nodectl/internal/config"
	"github.com/dreamware/nodectl/internal/devnode"
	"github.com/dreamware/nodectl/internal/health"
	"github.com/dreamware/nodectl/internal/metrics"
	"github.com/dreamware/nodectl/internal/tasks"
)

// TestSystem wires a config file, devnodes and the nodectl components
// together in one process.
type TestSystem struct {
	t       *testing.T
	path    string
	store   *config.Store
	nodes   map[string]*devnode.Node
	servers []*httptest.Server
	metrics *metrics.Probe
}

// NewTestSystem creates a system with an empty config file in a temp dir.
func NewTestSystem(t *testing.T) *TestSystem {
	ts := &TestSystem{
		t:       t,
		path:    filepath.Join(t.TempDir(), "nodectlrc"),
		nodes:   make(map[string]*devnode.Node),
		metrics: metrics.New(),
	}
	ts.Reload()
	t.Cleanup(ts.Stop)
	return ts
}

// StartNode serves a new devnode and returns its URL.
func (ts *TestSystem) StartNode(name string) string {
	node := devnode.New(name)
	srv := httptest.NewServer(node.Handler())
	ts.servers = append(ts.servers, srv)
	ts.nodes[srv.URL] = node
	return srv.URL
}

// StoppedNode returns the URL of a node that no longer listens.
func (ts *TestSystem) StoppedNode() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

// Stop shuts every devnode down.
func (ts *TestSystem) Stop() {
	for _, srv := range ts.servers {
		srv.Close()
	}
	ts.servers = nil
}

// Set stores a config value through the store and reloads it from disk.
func (ts *TestSystem) Set(section, key, value string) {
	require.NoError(ts.t, ts.store.Set(section, key, value))
	ts.Reload()
}

// Reload reads the config file again.
func (ts *TestSystem) Reload() {
	store, err := config.Load(ts.path)
	require.NoError(ts.t, err)
	ts.store = store
}

// Checker builds a checker over the current config.
func (ts *TestSystem) Checker(opts ...health.Option) *health.Checker {
	opts = append([]health.Option{
		health.WithTimeout(2 * time.Second),
		health.WithMetrics(ts.metrics),
	}, opts...)
	return health.NewChecker(cluster.NewResolver(ts.store), opts...)
}

// Fetcher builds a task fetcher over the current config.
func (ts *TestSystem) Fetcher() *tasks.Fetcher {
	return tasks.NewFetcher(ts.Checker(), cluster.NewResolver(ts.store),
		tasks.WithTimeout(2*time.Second),
		tasks.WithMetrics(ts.metrics),
	)
}

// redirectClient sends every request to target whatever host the URL names.
func redirectClient(target string) *http.Client {
	addr := target[len("http://"):]
	var d net.Dialer
	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
				return d.DialContext(ctx, network, addr)
			},
		},
	}
}

// TestNodectl runs end-to-end scenarios over config, probes and task listings
func TestNodectl(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Run("ConfigRoundTrip", testConfigRoundTrip)
	t.Run("ClusterReachable", testClusterReachable)
	t.Run("PartialOutage", testPartialOutage)
	t.Run("EmptyTaskList", testEmptyTaskList)
	t.Run("ClusterTasks", testClusterTasks)
	t.Run("UnknownCluster", testUnknownCluster)
}

// testConfigRoundTrip verifies that set values survive a reload unchanged
func testConfigRoundTrip(t *testing.T) {
	ts := NewTestSystem(t)
	ts.Set("clusterone", "node0", "http://127.0.0.1")
	ts.Set("clusterone", "node1", "http://192.168.0.1")
	ts.Set("gang", "rocko", "artischocko")

	before, err := os.ReadFile(ts.path)
	require.NoError(t, err)

	ts.Set("clusterone", "node1", "http://192.168.0.1")
	after, err := os.ReadFile(ts.path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	sec, ok := ts.store.Section("clusterone")
	require.True(t, ok)
	assert.Equal(t, []string{"node0", "node1"}, sec.Keys())
	assert.Equal(t, []string{"http://127.0.0.1", "http://192.168.0.1"}, sec.Values())

	err = ts.store.Set("gang", "", "x")
	assert.True(t, clierr.IsUsage(err))
	unchanged, err := os.ReadFile(ts.path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(unchanged))
}

// testClusterReachable checks a cluster whose nodes both answer
func testClusterReachable(t *testing.T) {
	ts := NewTestSystem(t)
	ts.Set("clusterone", "node0", "http://127.0.0.1")
	ts.Set("clusterone", "node1", "http://192.168.0.1")

	target := ts.StartNode("node1@127.0.0.1")
	checker := ts.Checker(health.WithHTTPClient(redirectClient(target)))

	status, err := checker.Check(context.Background(), "clusterone")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"http://127.0.0.1":   true,
		"http://192.168.0.1": true,
	}, status.Map())
	assert.True(t, status.AllOnline())
}

// testPartialOutage checks that one dead node does not affect the others
func testPartialOutage(t *testing.T) {
	ts := NewTestSystem(t)
	up := ts.StartNode("node1@127.0.0.1")
	down := ts.StoppedNode()
	ts.Set("mixed", "node0", up)
	ts.Set("mixed", "node1", down)
	ts.Set("mixed", "node2", up)

	status, err := ts.Checker().Check(context.Background(), "mixed", down)
	require.NoError(t, err)
	assert.Equal(t, []string{up, down}, status.URLs())
	assert.Equal(t, map[string]bool{up: true, down: false}, status.Map())
	assert.False(t, status.AllOnline())

	_, err = ts.Checker().Check(context.Background(), "ftp://host")
	assert.True(t, clierr.IsUsage(err))
}

// testEmptyTaskList fetches from a node with no tasks
func testEmptyTaskList(t *testing.T) {
	ts := NewTestSystem(t)
	url := ts.StartNode("node1@127.0.0.1")

	list, err := ts.Fetcher().Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	for _, filter := range []string{"", "replication", "mydatabase"} {
		assert.Empty(t, tasks.Filter(list, filter), "filter %q", filter)
	}
}

// testClusterTasks lists and filters tasks through a cluster name
func testClusterTasks(t *testing.T) {
	ts := NewTestSystem(t)
	url := ts.StartNode("node1@127.0.0.1")
	ts.nodes[url].SetTasks([]tasks.Task{
		{"type": "replication", "source": "mydatabase", "target": "http://backup/mydatabase"},
		{"type": "indexer", "database": "other"},
		{"type": "replication", "source": "other", "target": "mydatabase"},
	})
	ts.Set("production", "node0", url)
	ts.Set("production", "node1", ts.StoppedNode())

	all, err := ts.Fetcher().Active(context.Background(), "production", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	repl, err := ts.Fetcher().Active(context.Background(), "production", "replication")
	require.NoError(t, err)
	assert.Len(t, repl, 2)

	db, err := ts.Fetcher().Active(context.Background(), "production", "mydatabase")
	require.NoError(t, err)
	require.Len(t, db, 2)
	assert.Equal(t, "mydatabase", db[0].Source())
	assert.Equal(t, "mydatabase", db[1].Target())
}

// testUnknownCluster checks resolution failures
func testUnknownCluster(t *testing.T) {
	ts := NewTestSystem(t)

	_, err := cluster.NewResolver(ts.store).ClusterURLs("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cluster does not exist")

	_, err = ts.Fetcher().Active(context.Background(), "nope", "")
	assert.True(t, clierr.IsNotFound(err))
}
