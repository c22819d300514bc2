// Package health probes node reachability. It expands cluster names into
// node URLs, probes every URL concurrently and folds the outcomes into a
// URL to online/offline map.
package health

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dreamware/nodectl/internal/clierr"
	"github.com/dreamware/nodectl/internal/cluster"
	"github.com/dreamware/nodectl/internal/metrics"
)

const (
	// DefaultConcurrency caps the number of probes in flight.
	DefaultConcurrency = 16

	// maxDrain is how much of a probe response body is read before closing.
	maxDrain = 64 << 10
)

// Resolver expands cluster names into node URLs.
type Resolver interface {
	ResolveNames(names ...string) []string
}

// ProbeFunc reports whether a node answered at url.
type ProbeFunc func(ctx context.Context, url string) bool

// Checker runs reachability probes against cluster nodes.
// Thread-safe: Check may be called from several goroutines.
type Checker struct {
	resolver    Resolver       // Expands cluster names
	httpClient  *http.Client   // HTTP client for probes
	probeFunc   ProbeFunc      // Function to perform a single probe
	log         *zap.Logger    // Debug output per probe
	metrics     *metrics.Probe // Optional run metrics
	timeout     time.Duration  // Upper bound for one probe
	concurrency int            // Probes in flight at once
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout bounds every probe. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the client used by the default probe.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithConcurrency caps the probes in flight. Non-positive values are ignored.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records every probe in m.
func WithMetrics(m *metrics.Probe) Option {
	return func(c *Checker) { c.metrics = m }
}

// WithProbeFunc overrides the default HTTP probe.
// This is useful for testing or custom reachability checks.
func WithProbeFunc(fn ProbeFunc) Option {
	return func(c *Checker) {
		if fn != nil {
			c.probeFunc = fn
		}
	}
}

// NewChecker creates a checker that resolves targets with r.
//
// Defaults: cluster.DefaultTimeout per probe, DefaultConcurrency probes in
// flight, HTTP GET against the node URL, no logging, no metrics.
//
// Example:
//
//	checker := health.NewChecker(cluster.NewResolver(store),
//	    health.WithTimeout(2*time.Second))
//	status, err := checker.Check(ctx, "production", "http://10.0.0.7:5984")
func NewChecker(r Resolver, opts ...Option) *Checker {
	c := &Checker{
		resolver:    r,
		httpClient:  &http.Client{},
		log:         zap.NewNop(),
		timeout:     cluster.DefaultTimeout,
		concurrency: DefaultConcurrency,
	}
	c.probeFunc = c.defaultProbe
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check probes every node named by targets and reports which are online.
//
// Each target is a cluster name or a node URL. Clusters are expanded, then
// duplicate URLs are dropped keeping the first occurrence. Every resulting
// URL must be http or https; otherwise the whole call fails with a usage
// error before any request is sent.
//
// All probes run concurrently and Check waits for every one of them. An
// unreachable node is reported as false, never as an error, and never stops
// the other probes. The result holds exactly the deduplicated URLs in the
// order resolution produced them.
//
// Parameters:
//   - ctx: Cancels outstanding probes; a canceled probe reports false
//   - targets: Cluster names and node URLs, at least one
//
// Returns:
//   - Status with one entry per deduplicated URL
//   - KindUsage error if targets is empty or a URL is not http(s)
//
// Example:
//
//	status, err := checker.Check(ctx, "production", "http://127.0.0.1:5984")
//	if err != nil {
//		return err
//	}
//	if !status.AllOnline() {
//		log.Warn("cluster degraded")
//	}
func (c *Checker) Check(ctx context.Context, targets ...string) (*Status, error) {
	if len(targets) == 0 {
		return nil, clierr.Usage("Usage: isonline <url|cluster> [<url|cluster>...]")
	}

	urls := dedupe(c.resolver.ResolveNames(targets...))
	for _, u := range urls {
		if _, err := cluster.ValidateNodeURL(u); err != nil {
			return nil, err
		}
	}

	results := make([]bool, len(urls))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			results[i] = c.Probe(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	status := newStatus(len(urls))
	for i, u := range urls {
		status.add(u, results[i])
	}
	return status, nil
}

// Probe sends a single probe to url and reports whether any response came
// back. The url is not validated.
func (c *Checker) Probe(ctx context.Context, url string) bool {
	start := time.Now()
	online := c.probeFunc(ctx, url)
	elapsed := time.Since(start)

	c.metrics.ObserveProbe(online, elapsed)
	c.log.Debug("probe finished",
		zap.String("url", url),
		zap.Bool("online", online),
		zap.Duration("elapsed", elapsed))
	return online
}

// defaultProbe performs an HTTP GET against the node URL. Any status code
// counts as reachable; transport errors, DNS failures and timeouts do not.
func (c *Checker) defaultProbe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Debug("probe request invalid", zap.String("url", url), zap.Error(err))
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("probe failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	return true
}

// dedupe drops repeated strings, keeping first occurrences in order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
