package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestNew tests level selection and output routing
func TestNew(t *testing.T) {
	t.Run("quiet by default", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Options{Output: &buf})

		log.Debug("probe", zap.String("url", "http://127.0.0.1"))
		log.Info("loaded")
		assert.Empty(t, buf.String())

		log.Warn("node offline", zap.String("url", "http://127.0.0.1"))
		assert.Contains(t, buf.String(), "node offline")
		assert.Contains(t, buf.String(), "http://127.0.0.1")
		assert.Contains(t, buf.String(), "nodectl")
	})

	t.Run("verbose shows debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Options{Output: &buf, Verbose: true})

		log.Debug("probe", zap.String("url", "http://127.0.0.1"))
		assert.Contains(t, buf.String(), "probe")
		assert.Contains(t, buf.String(), "DEBUG")
	})

	t.Run("nil output is a no-op", func(t *testing.T) {
		log := New(Options{Verbose: true})
		assert.NotPanics(t, func() { log.Error("ignored") })
	})
}
