package version

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pystubgen/internal/errors"
)

type fakeChecker struct {
	published map[string][]string
	calls     int
}

func (f *fakeChecker) HasVersion(_ context.Context, pypiName, version string) (bool, error) {
	f.calls++
	for _, v := range f.published[pypiName] {
		if v == version {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChecker) GetNextVersion(ctx context.Context, pypiName, version string) (string, error) {
	next := version
	for {
		bumped, err := BumpPostrelease(next)
		if err != nil {
			return "", err
		}
		next = bumped
		has, err := f.HasVersion(ctx, pypiName, next)
		if err != nil || !has {
			return next, err
		}
	}
}

func TestNegotiator(t *testing.T) {
	ctx := context.Background()
	checker := &fakeChecker{published: map[string][]string{
		"mypy-boto3-ec2": {"1.2.3", "1.2.3.post1"},
	}}

	t.Run("smart version disabled", func(t *testing.T) {
		checker.calls = 0
		n := NewNegotiator(checker, false, true)

		result, err := n.PackageVersion(ctx, "mypy-boto3-ec2", "1.2.3")

		require.NoError(t, err)
		assert.Equal(t, "1.2.3", result)
		assert.Zero(t, checker.calls)
	})

	t.Run("unpublished", func(t *testing.T) {
		n := NewNegotiator(checker, true, false)

		result, err := n.PackageVersion(ctx, "mypy-boto3-s3", "1.2.3")

		require.NoError(t, err)
		assert.Equal(t, "1.2.3", result)
	})

	t.Run("published and skipped", func(t *testing.T) {
		n := NewNegotiator(checker, true, true)

		_, err := n.PackageVersion(ctx, "mypy-boto3-ec2", "1.2.3")

		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrAlreadyPublished)
		assert.Equal(t, "mypy-boto3-ec2 1.2.3 is already on PyPI", err.Error())
	})

	t.Run("published and bumped", func(t *testing.T) {
		n := NewNegotiator(checker, true, false)

		result, err := n.PackageVersion(ctx, "mypy-boto3-ec2", "1.2.3")

		require.NoError(t, err)
		assert.Equal(t, "1.2.3.post2", result)
		current, _ := Parse("1.2.3")
		next, _ := Parse(result)
		assert.Equal(t, 1, next.Compare(current))
	})
}
