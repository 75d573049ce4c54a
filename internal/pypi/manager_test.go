package pypi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pystubgen/internal/errors"
)

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		switch r.URL.Path {
		case "/pypi/mypy-boto3-ec2/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"info": {}, "releases": {"1.2.3": [], "1.2.3.post1": [], "1.2.2": [], "1.2.3rc1": []}}`))
		case "/pypi/broken/json":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestManager_Versions(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits)
	manager := NewManager(server.URL+"/pypi/", server.Client())
	ctx := context.Background()

	versions, err := manager.Versions(ctx, "mypy-boto3-ec2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.2", "1.2.3", "1.2.3.post1"}, versions)

	_, err = manager.Versions(ctx, "mypy-boto3-ec2")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	missing, err := manager.Versions(ctx, "mypy-boto3-new")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestManager_HasVersionAndNext(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits)
	manager := NewManager(server.URL+"/pypi", server.Client())
	ctx := context.Background()

	has, err := manager.HasVersion(ctx, "mypy-boto3-ec2", "1.2.3")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = manager.HasVersion(ctx, "mypy-boto3-ec2", "1.2.4")
	require.NoError(t, err)
	assert.False(t, has)

	next, err := manager.GetNextVersion(ctx, "mypy-boto3-ec2", "1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.post2", next)

	next, err = manager.GetNextVersion(ctx, "mypy-boto3-ec2", "1.2.2")
	require.NoError(t, err)
	assert.Equal(t, "1.2.2.post1", next)
}

func TestManager_ServerError(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits)
	manager := NewManager(server.URL+"/pypi", server.Client())

	_, err := manager.HasVersion(context.Background(), "broken", "1.0.0")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.NetworkErrorCode))
}
