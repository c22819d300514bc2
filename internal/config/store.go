package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/dreamware/nodectl/internal/clierr"
)

// EnvPath names the environment variable that overrides the default
// config location.
const EnvPath = "NODECTL_CONF"

// defaultFileName is the config file looked up in the user's home directory.
const defaultFileName = ".nodectlrc"

// Reader is the read side of the cluster configuration.
type Reader interface {
	// Section returns a copy of the named section
	Section(name string) (Section, bool)
}

// Store holds the active configuration document and the path it was loaded
// from. Every Set rewrites the whole document to that path before returning.
// Set is not meant to be called concurrently.
type Store struct {
	mu   sync.RWMutex // Protects doc
	doc  *Document    // Active document
	path string       // File the document was loaded from and is saved to
	log  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and save events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// DefaultPath returns $NODECTL_CONF if set, otherwise ~/.nodectlrc.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", clierr.File(err, "cannot locate home directory for %s", defaultFileName)
	}
	return filepath.Join(home, defaultFileName), nil
}

// Load reads the INI file at path and makes it the active document.
//
// A missing or empty file loads as an empty document so first-run commands
// work. Any other read failure, or malformed content, is a KindFile error.
func Load(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Debug("config file not found, starting empty", zap.String("path", path))
		s.doc = NewDocument()
		return s, nil
	case err != nil:
		return nil, clierr.File(err, "cannot read config %s", path)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, clierr.File(err, "cannot parse config %s", path)
	}
	s.doc = doc
	s.log.Debug("config loaded", zap.String("path", path), zap.Int("sections", doc.Len()))
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Get returns a copy of the whole document.
func (s *Store) Get() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Section returns a copy of the named section.
func (s *Store) Section(name string) (Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Section(name)
}

// Value returns the value of key in section.
func (s *Store) Value(section, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Value(section, key)
}

// Encode renders the whole document as INI text.
func (s *Store) Encode() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Encode(s.doc)
}

// EncodeSection renders one section as key=value lines.
func (s *Store) EncodeSection(name string) ([]byte, bool) {
	sec, ok := s.Section(name)
	if !ok {
		return nil, false
	}
	return EncodeSection(sec), true
}

// Set stores value under section/key and writes the document to disk.
//
// All three arguments are required; a missing one is a KindUsage error and
// leaves both memory and file untouched. So is any argument that would not
// read back unchanged: a section with brackets or line breaks, a key with
// '=' or a leading comment marker, a value with line breaks, or any of them
// padded with whitespace. If the write fails the in-memory document is
// restored and a KindFile error is returned.
//
// Parameters:
//   - section: Cluster or section name, created if absent
//   - key: Key within the section, overwritten in place if present
//   - value: Value to store, typically a node URL
//
// Returns:
//   - nil once the file on disk holds the new value
//   - KindUsage error for missing or unwritable arguments
//   - KindFile error if the file cannot be written
//
// Example:
//
//	if err := store.Set("production", "node0", "http://10.0.0.1:5984"); err != nil {
//		return err
//	}
func (s *Store) Set(section, key, value string) error {
	if section == "" || key == "" || value == "" {
		return clierr.Usage("Usage: config set <section> <key> <value>")
	}
	if err := checkPair(section, key, value); err != nil {
		return clierr.Usage("invalid config entry: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.doc.Clone()
	s.doc.Set(section, key, value)
	if err := s.save(); err != nil {
		s.doc = prev
		return err
	}
	s.log.Debug("config saved",
		zap.String("path", s.path),
		zap.String("section", section),
		zap.String("key", key))
	return nil
}

// save writes the document next to path and renames it into place so a
// reader never sees a partial file. Caller holds mu.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return clierr.File(err, "cannot create config directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".nodectl-*")
	if err != nil {
		return clierr.File(err, "cannot write config %s", s.path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(Encode(s.doc)); err != nil {
		tmp.Close()
		return clierr.File(err, "cannot write config %s", s.path)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return clierr.File(err, "cannot write config %s", s.path)
	}
	if err := tmp.Close(); err != nil {
		return clierr.File(err, "cannot write config %s", s.path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return clierr.File(err, "cannot write config %s", s.path)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return clierr.File(err, "cannot write config %s", s.path)
	}
	return nil
}
