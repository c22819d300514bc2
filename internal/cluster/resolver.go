package cluster

import (
	"github.com/dreamware/nodectl/internal/clierr"
	"github.com/dreamware/nodectl/internal/config"
)

// Resolver turns cluster names into node URLs using the sections of the
// configuration. Any section can be resolved; whether its values are usable
// URLs is checked later by whoever contacts the nodes.
type Resolver struct {
	conf config.Reader
}

// NewResolver creates a resolver over the given configuration.
//
// Example:
//
//	store, _ := config.Load(path)
//	r := cluster.NewResolver(store)
//	urls, err := r.ClusterURLs("production")
func NewResolver(conf config.Reader) *Resolver {
	return &Resolver{conf: conf}
}

// ResolveNames expands each name that is a section into that section's
// values, in key order, and passes every other name through unchanged.
// The output keeps input order with clusters expanded in place; duplicates
// are kept.
func (r *Resolver) ResolveNames(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if sec, ok := r.conf.Section(name); ok {
			out = append(out, sec.Values()...)
			continue
		}
		out = append(out, name)
	}
	return out
}

// ClusterURLs returns the node URLs of the named cluster in key order.
// An unknown name is a KindNotFound error.
func (r *Resolver) ClusterURLs(name string) ([]string, error) {
	sec, ok := r.conf.Section(name)
	if !ok {
		return nil, clierr.NotFound("Cluster does not exist: %s", name)
	}
	return sec.Values(), nil
}

// ResolveNode picks the single node to talk to for target. A cluster name
// resolves to its first node. Anything shaped like an absolute URL is
// returned as is, leaving scheme validation to the caller.
func (r *Resolver) ResolveNode(target string) (string, error) {
	if target == "" {
		return "", clierr.Usage("missing cluster or node url")
	}
	if sec, ok := r.conf.Section(target); ok {
		urls := sec.Values()
		if len(urls) == 0 {
			return "", clierr.NotFound("Cluster %s has no nodes", target)
		}
		return urls[0], nil
	}
	if looksLikeURL(target) {
		return target, nil
	}
	return "", clierr.NotFound("Cluster does not exist: %s", target)
}
