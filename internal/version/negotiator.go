package version

import (
	"context"

	"github.com/toyz/pystubgen/internal/errors"
)

// Checker answers questions about already published versions
type Checker interface {
	HasVersion(ctx context.Context, pypiName, version string) (bool, error)
	GetNextVersion(ctx context.Context, pypiName, version string) (string, error)
}

// Negotiator picks the version a package is generated with
type Negotiator struct {
	checker       Checker
	smartVersion  bool
	skipPublished bool
}

// NewNegotiator creates a negotiator. With smartVersion false the
// requested version is always used as is.
func NewNegotiator(checker Checker, smartVersion, skipPublished bool) *Negotiator {
	return &Negotiator{
		checker:       checker,
		smartVersion:  smartVersion,
		skipPublished: skipPublished,
	}
}

// PackageVersion returns the version to build pypiName with. It returns an
// AlreadyPublishedError when the version exists and published packages are
// skipped.
func (n *Negotiator) PackageVersion(ctx context.Context, pypiName, version string) (string, error) {
	if !n.smartVersion {
		return version, nil
	}

	published, err := n.checker.HasVersion(ctx, pypiName, version)
	if err != nil {
		return "", errors.Wrapf(err, "check %s %s", pypiName, version)
	}
	if !published {
		return version, nil
	}

	if n.skipPublished {
		return "", errors.NewAlreadyPublishedError(pypiName, version)
	}

	next, err := n.checker.GetNextVersion(ctx, pypiName, version)
	if err != nil {
		return "", errors.Wrapf(err, "next version of %s %s", pypiName, version)
	}
	return next, nil
}
