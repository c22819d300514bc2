package config

import (
	"bytes"
	"encoding/json"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Section is an ordered set of key/value pairs. Key order is the order in
// which keys were first added and is the node order of a cluster.
// The zero value is an empty section ready to use.
type Section struct {
	keys   []string
	values map[string]string
}

// NewSection builds a section from alternating key, value arguments.
// A trailing key without a value is ignored.
func NewSection(kv ...string) Section {
	var s Section
	for i := 0; i+1 < len(kv); i += 2 {
		s.Set(kv[i], kv[i+1])
	}
	return s
}

// Get returns the value stored under key.
func (s Section) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key. An existing key keeps its position.
func (s *Section) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Keys returns the keys in insertion order.
func (s Section) Keys() []string { return slices.Clone(s.keys) }

// Values returns the values in key insertion order.
func (s Section) Values() []string {
	out := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.values[k])
	}
	return out
}

// Len returns the number of keys.
func (s Section) Len() int { return len(s.keys) }

// Map returns an unordered copy of the section.
func (s Section) Map() map[string]string {
	out := make(map[string]string, len(s.keys))
	for _, k := range s.keys {
		out[k] = s.values[k]
	}
	return out
}

// Clone returns a deep copy.
func (s Section) Clone() Section {
	c := Section{keys: slices.Clone(s.keys)}
	if s.values != nil {
		c.values = make(map[string]string, len(s.values))
		for k, v := range s.values {
			c.values[k] = v
		}
	}
	return c
}

// MarshalJSON renders the section as an object with keys in insertion order.
func (s Section) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONPair(&buf, k, s.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the section as a mapping with keys in insertion order.
func (s Section) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range s.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: s.values[k]},
		)
	}
	return node, nil
}

// Document is an ordered collection of named sections.
// The zero value is an empty document ready to use.
type Document struct {
	names    []string
	sections map[string]*Section
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{sections: make(map[string]*Section)}
}

// Section returns a copy of the named section.
func (d *Document) Section(name string) (Section, bool) {
	s, ok := d.sections[name]
	if !ok {
		return Section{}, false
	}
	return s.Clone(), true
}

// HasSection reports whether name is a section of the document.
func (d *Document) HasSection(name string) bool {
	_, ok := d.sections[name]
	return ok
}

// Value returns the value of key in section.
func (d *Document) Value(section, key string) (string, bool) {
	s, ok := d.sections[section]
	if !ok {
		return "", false
	}
	return s.Get(key)
}

// Set stores value under section/key, appending the section if it is new.
func (d *Document) Set(section, key, value string) {
	d.section(section).Set(key, value)
}

// section returns the live section, creating it if needed.
func (d *Document) section(name string) *Section {
	if d.sections == nil {
		d.sections = make(map[string]*Section)
	}
	s, ok := d.sections[name]
	if !ok {
		s = &Section{}
		d.sections[name] = s
		d.names = append(d.names, name)
	}
	return s
}

// Names returns section names in insertion order.
func (d *Document) Names() []string { return slices.Clone(d.names) }

// Len returns the number of sections.
func (d *Document) Len() int { return len(d.names) }

// Map returns an unordered copy of the document.
func (d *Document) Map() map[string]map[string]string {
	out := make(map[string]map[string]string, len(d.names))
	for _, n := range d.names {
		out[n] = d.sections[n].Map()
	}
	return out
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		names:    slices.Clone(d.names),
		sections: make(map[string]*Section, len(d.sections)),
	}
	for n, s := range d.sections {
		cs := s.Clone()
		c.sections[n] = &cs
	}
	return c
}

// MarshalJSON renders the document as nested objects in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range d.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		sec, err := d.sections[n].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(sec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the document as nested mappings in insertion order.
func (d *Document) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, n := range d.names {
		sec, _ := d.sections[n].MarshalYAML()
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: n}, sec.(*yaml.Node))
	}
	return node, nil
}

func writeJSONPair(buf *bytes.Buffer, k, v string) error {
	kb, err := json.Marshal(k)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}
