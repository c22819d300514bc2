package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestKinds verifies constructors, predicates and wrapping.
func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		is   func(error) bool
		msg  string
	}{
		{"usage", Usage("Usage: %s", "set <section> <key> <value>"), KindUsage, IsUsage, "Usage: set <section> <key> <value>"},
		{"not found", NotFound("Cluster does not exist: %s", "wrong"), KindNotFound, IsNotFound, "Cluster does not exist: wrong"},
		{"connectivity", Connectivity(errors.New("refused"), "Could not connect to %s", "http://a"), KindConnectivity, IsConnectivity, "Could not connect to http://a: refused"},
		{"file", File(errors.New("denied"), "read %s", "/x"), KindFile, IsFile, "read /x: denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.True(t, tt.is(tt.err))
			assert.Equal(t, tt.msg, tt.err.Error())

			// Still classified after another layer of wrapping
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, tt.is(wrapped))
			assert.Equal(t, tt.kind, KindOf(wrapped))
		})
	}
}

// TestKindsAreDistinct ensures one kind never matches another's sentinel.
func TestKindsAreDistinct(t *testing.T) {
	err := Usage("bad")
	assert.False(t, IsNotFound(err))
	assert.False(t, IsConnectivity(err))
	assert.False(t, IsFile(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

// TestUnwrap verifies the cause stays reachable.
func TestUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Connectivity(cause, "Could not connect to %s", "http://127.0.0.1:1")
	assert.ErrorIs(t, err, cause)
}
