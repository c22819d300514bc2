// Package config holds nodectl's cluster configuration: an INI file of named
// sections, each an ordered list of key=value pairs.
//
// # Format
//
// A cluster is a section whose values are node base URLs:
//
//	[production]
//	node0=http://10.0.0.1:5984
//	node1=http://10.0.0.2:5984
//
//	[tools]
//	editor=vim
//
// Sections that are not clusters are kept as they are. Nothing in this
// package decides whether a section is a cluster; the resolver treats any
// section's values as URL candidates and the health checker validates them.
//
// # Ordering
//
// Section order and key order are preserved from the file and through every
// mutation. Key order is significant: it is the node order of a cluster.
//
// # Persistence
//
// Load reads the file once. Store.Set mutates the document and rewrites the
// whole file before returning, so the next reader of the raw file sees the
// change. Untouched sections and keys are written back unchanged, and a file
// already in canonical form round-trips byte for byte through Encode.
//
// The Store is passed explicitly to the components that need it; there is
// no package-level active document.
package config
