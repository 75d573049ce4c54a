package models

import (
	"fmt"
	"strings"
)

// OutputType selects what the run leaves behind
type OutputType string

const (
	OutputTypePackage   OutputType = "package"
	OutputTypeWheel     OutputType = "wheel"
	OutputTypeSource    OutputType = "source"
	OutputTypeInstalled OutputType = "installed"
)

// ParseOutputType validates a config value
func ParseOutputType(s string) (OutputType, error) {
	switch t := OutputType(strings.ToLower(strings.TrimSpace(s))); t {
	case OutputTypePackage, OutputTypeWheel, OutputTypeSource, OutputTypeInstalled:
		return t, nil
	default:
		return "", fmt.Errorf("unknown output type %q", s)
	}
}

// IsInstalled reports a ready-to-use directory without packaging metadata
func (t OutputType) IsInstalled() bool {
	return t == OutputTypeInstalled
}

// IsPackaged reports a built distribution
func (t OutputType) IsPackaged() bool {
	return t == OutputTypeWheel || t == OutputTypeSource
}

// IsPreserved reports whether the generated directory is kept
func (t OutputType) IsPreserved() bool {
	return !t.IsPackaged()
}

// OutputTypes is the selected set of output types
type OutputTypes []OutputType

// IsPackage is true when no output type is installed
func (ts OutputTypes) IsPackage() bool {
	for _, t := range ts {
		if t.IsInstalled() {
			return false
		}
	}
	return true
}

// IsPackaged is true when any output type needs a build
func (ts OutputTypes) IsPackaged() bool {
	for _, t := range ts {
		if t.IsPackaged() {
			return true
		}
	}
	return false
}

// IsPackageTemporary is true when nothing keeps the generated directory
func (ts OutputTypes) IsPackageTemporary() bool {
	for _, t := range ts {
		if t.IsPreserved() {
			return false
		}
	}
	return true
}
