// Package cluster maps the names an operator types onto the nodes nodectl
// talks to, and holds the small HTTP helpers used to reach those nodes.
//
// # Overview
//
// A cluster is nothing more than a configuration section whose values are
// node base URLs:
//
//	[production]
//	node0=http://10.0.0.1:5984
//	node1=http://10.0.0.2:5984
//
// The Resolver never decides whether a section "is" a cluster. Any section
// can be expanded; a section of non-URL values simply produces targets that
// fail validation when a command tries to contact them.
//
// # Resolution Rules
//
// ResolveNames (used when probing many targets):
//   - A name matching a section expands to its values in key order
//   - Anything else passes through untouched as a literal URL candidate
//   - No validation, no network I/O
//
// ClusterURLs (strict lookup):
//   - Returns the section's values in key order
//   - Unknown names fail with "Cluster does not exist"
//
// ResolveNode (commands that talk to exactly one node):
//   - A cluster resolves to its first node
//   - An absolute URL is returned as is
//   - Anything else fails with "Cluster does not exist"
//
// # Node Protocol
//
// Nodes are CouchDB-style HTTP servers. nodectl only uses:
//
//	GET /               reachability probe, any status means reachable
//	GET /_active_tasks  JSON array of in-flight background tasks
//
// ValidateNodeURL is the single place where a node URL is checked: it must
// be absolute, use http or https, and carry a host. Failures are usage
// errors so the command line can print usage instead of a network error.
//
// # Failure Handling
//
// GetJSON reports a request that could not complete (refused, DNS failure,
// timeout) as a connectivity error with a "Could not connect to" message.
// HTTP error statuses and undecodable bodies are ordinary errors. Nothing
// is retried.
//
// # See Also
//
//   - internal/config: the configuration the resolver reads
//   - internal/health: concurrent reachability probes
//   - internal/tasks: active task listing
package cluster
