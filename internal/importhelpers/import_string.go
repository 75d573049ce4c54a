package importhelpers

import (
	"slices"
	"strings"
)

// ImportGroup orders import blocks in rendered modules
type ImportGroup int

const (
	GroupStdlib ImportGroup = iota
	GroupThirdParty
	GroupLocal
)

var thirdPartyModules = []string{
	"boto3",
	"botocore",
	"aiobotocore",
	"aioboto3",
	"s3transfer",
	"awscrt",
	"typing_extensions",
}

var localPrefixes = []string{
	"mypy_boto3",
	"boto3-stubs",
	"boto3_stubs",
}

// ImportString is a dotted module path. A leading empty part marks a
// relative import, so ImportString{"", "literals"} renders ".literals".
type ImportString struct {
	parts []string
}

var (
	Builtins         = NewImportString("builtins")
	Typing           = NewImportString("typing")
	TypingExtensions = NewImportString("typing_extensions")
	Sys              = NewImportString("sys")
	Datetime         = NewImportString("datetime")
)

// NewImportString joins parent and parts
func NewImportString(parent string, parts ...string) ImportString {
	all := make([]string, 0, len(parts)+1)
	all = append(all, parent)
	all = append(all, parts...)
	return ImportString{parts: all}
}

// ParseImportString splits "a.b.c"; ".literals" becomes a relative import
func ParseImportString(s string) ImportString {
	if s == "" {
		return ImportString{}
	}
	return ImportString{parts: strings.Split(s, ".")}
}

// LocalImportString is a relative import of a sibling module
func LocalImportString(module string) ImportString {
	return NewImportString("", module)
}

// Render returns the dotted path
func (s ImportString) Render() string {
	return strings.Join(s.parts, ".")
}

func (s ImportString) String() string {
	return s.Render()
}

// Parts returns a copy of the path segments
func (s ImportString) Parts() []string {
	return slices.Clone(s.parts)
}

// Parent is the top-level module
func (s ImportString) Parent() string {
	if len(s.parts) == 0 {
		return ""
	}
	return s.parts[0]
}

// IsEmpty reports an unset path
func (s ImportString) IsEmpty() bool {
	return s.Render() == ""
}

// Equal compares rendered paths
func (s ImportString) Equal(other ImportString) bool {
	return s.Render() == other.Render()
}

// IsBuiltins reports names that never need an import
func (s ImportString) IsBuiltins() bool {
	return s.Parent() == "builtins"
}

// IsRelative reports a sibling-module import such as ".literals"
func (s ImportString) IsRelative() bool {
	return len(s.parts) > 1 && s.parts[0] == ""
}

// IsLocal reports imports from generated packages
func (s ImportString) IsLocal() bool {
	if s.IsRelative() {
		return true
	}
	for _, prefix := range localPrefixes {
		if strings.HasPrefix(s.Parent(), prefix) {
			return true
		}
	}
	return false
}

// IsThirdParty reports imports from known external distributions
func (s ImportString) IsThirdParty() bool {
	return slices.Contains(thirdPartyModules, s.Parent())
}

// Group classifies the path for import block ordering
func (s ImportString) Group() ImportGroup {
	switch {
	case s.IsLocal():
		return GroupLocal
	case s.IsThirdParty():
		return GroupThirdParty
	default:
		return GroupStdlib
	}
}
