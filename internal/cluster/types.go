package cluster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dreamware/nodectl/internal/clierr"
)

// DefaultTimeout bounds a single request to a node.
const DefaultTimeout = 5 * time.Second

var httpClient = &http.Client{Timeout: DefaultTimeout}

// ValidateNodeURL checks that raw is an absolute http or https URL with a
// host. Anything else is a KindUsage error; no request is made.
func ValidateNodeURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, clierr.Usage("invalid node url %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, clierr.Usage("invalid node url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, clierr.Usage("invalid node url %q: missing host", raw)
	}
	return u, nil
}

// looksLikeURL reports whether raw parses with both a scheme and a host,
// whatever the scheme.
func looksLikeURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// JoinPath appends path to a node base URL, ignoring any trailing slash on
// the base.
func JoinPath(base, path string) (string, error) {
	u, err := ValidateNodeURL(base)
	if err != nil {
		return "", err
	}
	return u.JoinPath(path).String(), nil
}

// GetJSON issues a GET to url and decodes the JSON body into out.
// A nil client uses a shared client with DefaultTimeout.
//
// A request that cannot complete is a KindConnectivity error. A response
// with a status of 300 or above is a plain error carrying the status code.
func GetJSON(ctx context.Context, client *http.Client, url string, out any) error {
	if client == nil {
		client = httpClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return clierr.Connectivity(err, "Could not connect to %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
