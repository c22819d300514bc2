package cluster

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/nodectl/internal/clierr"
)

// TestValidateNodeURL tests node url validation
func TestValidateNodeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"http", "http://127.0.0.1", true},
		{"https with port", "https://db.example.com:6984", true},
		{"trailing slash", "http://127.0.0.1:5984/", true},
		{"ftp scheme", "ftp://127.0.0.1:65516", false},
		{"no scheme", "hhhh", false},
		{"host and port only", "127.0.0.1:5984", false},
		{"missing host", "http://", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ValidateNodeURL(tt.input)
			if tt.ok {
				require.NoError(t, err)
				assert.NotNil(t, u)
				return
			}
			require.Error(t, err)
			assert.True(t, clierr.IsUsage(err))
			assert.Equal(t, clierr.KindUsage, clierr.KindOf(err))
		})
	}
}

// TestJoinPath tests building endpoint urls from node base urls
func TestJoinPath(t *testing.T) {
	got, err := JoinPath("http://127.0.0.1:5984", "_active_tasks")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5984/_active_tasks", got)

	got, err = JoinPath("http://127.0.0.1:5984/", "_active_tasks")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5984/_active_tasks", got)

	_, err = JoinPath("nope", "_active_tasks")
	assert.True(t, clierr.IsUsage(err))
}

// TestGetJSON tests the GetJSON helper function
func TestGetJSON(t *testing.T) {
	tests := []struct {
		name         string
		responseCode int
		responseBody string
		wantErr      bool
		wantConnErr  bool
		expected     []map[string]any
	}{
		{
			name:         "successful GET",
			responseCode: http.StatusOK,
			responseBody: `[{"type":"replication"}]`,
			expected:     []map[string]any{{"type": "replication"}},
		},
		{
			name:         "empty array",
			responseCode: http.StatusOK,
			responseBody: `[]`,
			expected:     []map[string]any{},
		},
		{
			name:         "server error",
			responseCode: http.StatusInternalServerError,
			responseBody: `{"error":"internal"}`,
			wantErr:      true,
		},
		{
			name:         "invalid JSON",
			responseCode: http.StatusOK,
			responseBody: `not json`,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.responseCode)
				w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			var out []map[string]any
			err := GetJSON(context.Background(), nil, server.URL, &out)
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, clierr.IsConnectivity(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		var out any
		err := GetJSON(context.Background(), nil, url, &out)
		require.Error(t, err)
		assert.True(t, clierr.IsConnectivity(err))
		assert.Contains(t, err.Error(), "Could not connect")
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			json.NewEncoder(w).Encode([]any{})
		}))
		defer server.Close()

		var out any
		err := GetJSON(context.Background(), &http.Client{Timeout: 20 * time.Millisecond}, server.URL, &out)
		require.Error(t, err)
		assert.True(t, clierr.IsConnectivity(err))
	})
}
