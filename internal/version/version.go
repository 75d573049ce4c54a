// Package version implements the subset of PEP 440 the generator publishes:
// release segments, an optional .postN suffix and an optional +local label.
package version

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/toyz/pystubgen/internal/errors"
)

var versionRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)(?:\.post(\d*))?(?:\+([0-9A-Za-z.]+))?$`)

// BuilderVersion is stamped into generated packages; set with -ldflags
var BuilderVersion = "0.1.0"

// Version is a parsed package version
type Version struct {
	Release []int
	Post    int    // -1 when there is no post segment
	Local   string // local label without the plus sign
}

// versionKey is the configuration key versions come from
const versionKey = "build_version"

func invalidVersion(s string, cause error) error {
	err := errors.ConfigurationError(versionKey, fmt.Sprintf("invalid version %q", s)).
		WithSuggestion("Use a release version such as 1.34.0 or 1.34.0.post1")
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}

// Parse parses "1.22.36", "1.22.36.post3" or "1.22.36.post3+dev1"
func Parse(s string) (Version, error) {
	match := versionRe.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return Version{}, invalidVersion(s, nil)
	}

	v := Version{Post: -1, Local: match[3]}
	for _, part := range strings.Split(match[1], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, invalidVersion(s, err)
		}
		v.Release = append(v.Release, n)
	}
	if strings.Contains(s, ".post") {
		v.Post = 0
		if match[2] != "" {
			post, err := strconv.Atoi(match[2])
			if err != nil {
				return Version{}, invalidVersion(s, err)
			}
			v.Post = post
		}
	}
	return v, nil
}

// String renders the version in normalized form
func (v Version) String() string {
	s := mustStringify(v.Release)
	if v.Post >= 0 {
		s += fmt.Sprintf(".post%d", v.Post)
	}
	if v.Local != "" {
		s += "+" + v.Local
	}
	return s
}

// ReleaseString renders only the release segments
func (v Version) ReleaseString() string {
	return mustStringify(v.Release)
}

// semver maps the release onto major.minor.patch
func (v Version) semver() (*semver.Version, bool) {
	if len(v.Release) > 3 {
		return nil, false
	}
	parts := append(slices.Clone(v.Release), 0, 0, 0)[:3]
	return semver.New(uint64(parts[0]), uint64(parts[1]), uint64(parts[2]), "", ""), true
}

// Compare orders by release, then post segment
func (v Version) Compare(other Version) int {
	a, okA := v.semver()
	b, okB := other.semver()
	if okA && okB {
		if c := a.Compare(b); c != 0 {
			return c
		}
	} else if c := slices.Compare(v.Release, other.Release); c != 0 {
		return c
	}
	switch {
	case v.Post < other.Post:
		return -1
	case v.Post > other.Post:
		return 1
	default:
		return 0
	}
}

// IsValidVersion reports whether s parses
func IsValidVersion(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// BumpPostrelease increments the post segment: "1.2.3" becomes
// "1.2.3.post1", "1.2.3.post5" becomes "1.2.3.post6".
func BumpPostrelease(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	if v.Post < 0 {
		v.Post = 0
	}
	v.Post++
	v.Local = ""
	return v.String(), nil
}

// GetReleaseVersion strips post and local segments
func GetReleaseVersion(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	return v.ReleaseString(), nil
}

// GetMinBuildVersion is the first patch of the same minor: "1.22.36" gives "1.22.0"
func GetMinBuildVersion(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	sv, ok := v.semver()
	if !ok {
		return "", errors.ConfigurationError(versionKey, fmt.Sprintf("version %q has too many release segments", s))
	}
	return semver.New(sv.Major(), sv.Minor(), 0, "", "").String(), nil
}

// GetMaxBuildVersion is the next minor: "1.22.36" gives "1.23.0"
func GetMaxBuildVersion(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	sv, ok := v.semver()
	if !ok {
		return "", errors.ConfigurationError(versionKey, fmt.Sprintf("version %q has too many release segments", s))
	}
	next := sv.IncMinor()
	return next.String(), nil
}

// SortVersions drops invalid versions and sorts the rest ascending
func SortVersions(versions []string) []string {
	type parsed struct {
		raw string
		v   Version
	}
	var valid []parsed
	for _, raw := range versions {
		v, err := Parse(raw)
		if err != nil {
			continue
		}
		valid = append(valid, parsed{raw: raw, v: v})
	}
	slices.SortStableFunc(valid, func(a, b parsed) int {
		return a.v.Compare(b.v)
	})
	result := make([]string, len(valid))
	for i, p := range valid {
		result[i] = p.raw
	}
	return result
}

// StringifyParts joins release segments: (1, 2, 3) gives "1.2.3"
func StringifyParts(parts []int) (string, error) {
	if len(parts) == 0 {
		return "", errors.ConfigurationError(versionKey, "Empty version parts")
	}
	return mustStringify(parts), nil
}

func mustStringify(parts []int) string {
	rendered := make([]string, len(parts))
	for i, part := range parts {
		rendered[i] = strconv.Itoa(part)
	}
	return strings.Join(rendered, ".")
}

// GetBuilderVersion returns the version of this generator
func GetBuilderVersion() string {
	return BuilderVersion
}
