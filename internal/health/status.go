package health

import (
	"bytes"
	"encoding/json"
	"strconv"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Status maps node URLs to reachability, remembering the order in which the
// URLs were resolved.
type Status struct {
	urls   []string
	online map[string]bool
}

func newStatus(n int) *Status {
	return &Status{
		urls:   make([]string, 0, n),
		online: make(map[string]bool, n),
	}
}

func (s *Status) add(url string, online bool) {
	if _, ok := s.online[url]; !ok {
		s.urls = append(s.urls, url)
	}
	s.online[url] = online
}

// URLs returns the probed URLs in resolution order.
func (s *Status) URLs() []string { return slices.Clone(s.urls) }

// Online reports the probe result for url; ok is false if url was not probed.
func (s *Status) Online(url string) (online, ok bool) {
	online, ok = s.online[url]
	return online, ok
}

// Len returns the number of probed URLs.
func (s *Status) Len() int { return len(s.urls) }

// AllOnline reports whether every probed node answered.
func (s *Status) AllOnline() bool {
	for _, u := range s.urls {
		if !s.online[u] {
			return false
		}
	}
	return true
}

// Map returns an unordered copy of the results.
func (s *Status) Map() map[string]bool {
	out := make(map[string]bool, len(s.online))
	for k, v := range s.online {
		out[k] = v
	}
	return out
}

// MarshalJSON renders {"<url>": true|false, ...} in resolution order.
func (s *Status) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, u := range s.urls {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(u)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatBool(s.online[u]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders a mapping of URL to bool in resolution order.
func (s *Status) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, u := range s.urls {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: u},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(s.online[u])},
		)
	}
	return node, nil
}
