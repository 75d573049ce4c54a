// Package pypi answers version questions against the PyPI JSON API.
package pypi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/utils"
	"github.com/toyz/pystubgen/internal/version"
)

// DefaultURL is the public index
const DefaultURL = "https://pypi.org/pypi"

type projectResponse struct {
	Releases map[string]json.RawMessage `json:"releases"`
}

// Manager looks up published versions. Results are cached for the lifetime
// of the manager, which is one generation run.
type Manager struct {
	baseURL string
	client  *http.Client
	cache   *utils.Cache[string, []string]
}

// NewManager creates a manager for baseURL; a nil client uses a pooled
// cleanhttp client.
func NewManager(baseURL string, client *http.Client) *Manager {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = cleanhttp.DefaultPooledClient()
	}
	return &Manager{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		cache:   utils.NewCache[string, []string](),
	}
}

// Versions returns the sorted published versions of pypiName. An unknown
// project has no versions.
func (m *Manager) Versions(ctx context.Context, pypiName string) ([]string, error) {
	return m.cache.GetOrCompute(pypiName, func() ([]string, error) {
		return m.fetchVersions(ctx, pypiName)
	})
}

func (m *Manager) fetchVersions(ctx context.Context, pypiName string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s/json", m.baseURL, url.PathEscape(pypiName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.WrapNetworkError("build request for", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.WrapNetworkError("query", endpoint, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return []string{}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, errors.WrapNetworkError("query", endpoint, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var project projectResponse
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		return nil, errors.WrapNetworkError("decode response of", endpoint, err)
	}

	raw := make([]string, 0, len(project.Releases))
	for release := range project.Releases {
		raw = append(raw, release)
	}
	return version.SortVersions(raw), nil
}

// HasVersion reports whether pypiName is published with exactly version
func (m *Manager) HasVersion(ctx context.Context, pypiName, ver string) (bool, error) {
	versions, err := m.Versions(ctx, pypiName)
	if err != nil {
		return false, err
	}
	for _, published := range versions {
		if published == ver {
			return true, nil
		}
	}
	return false, nil
}

// GetNextVersion bumps the post release of ver until it is unpublished
func (m *Manager) GetNextVersion(ctx context.Context, pypiName, ver string) (string, error) {
	next := ver
	for {
		bumped, err := version.BumpPostrelease(next)
		if err != nil {
			return "", err
		}
		next = bumped

		published, err := m.HasVersion(ctx, pypiName, next)
		if err != nil {
			return "", err
		}
		if !published {
			return next, nil
		}
	}
}
