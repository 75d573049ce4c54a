// Package structures holds the packages the generator writes and the
// classes, methods and declarations they own.
package structures

import (
	"fmt"
	"strings"

	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/version"
)

// Package is the common part of every generated distribution
type Package struct {
	Data           *models.PackageData
	Name           string // python import name
	PyPIName       string // distribution name
	Version        string // distribution version
	LibraryVersion string // runtime library version the stubs describe
	ServiceNames   []*models.ServiceName
}

// NewPackage creates a package. The library version defaults to the
// release part of version.
func NewPackage(data *models.PackageData, name, pypiName, ver string, serviceNames []*models.ServiceName) *Package {
	libraryVersion, err := version.GetReleaseVersion(ver)
	if err != nil {
		libraryVersion = ver
	}
	return &Package{
		Data:           data,
		Name:           name,
		PyPIName:       pypiName,
		Version:        ver,
		LibraryVersion: libraryVersion,
		ServiceNames:   serviceNames,
	}
}

// DirectoryName is the folder of a ready-to-build package
func (p *Package) DirectoryName() string {
	return strings.ReplaceAll(p.PyPIName, "-", "_") + "_package"
}

// MinLibraryVersion is the lower bound of the supported runtime library
func (p *Package) MinLibraryVersion() string {
	v, err := version.GetMinBuildVersion(p.LibraryVersion)
	if err != nil {
		return p.LibraryVersion
	}
	return v
}

// MaxLibraryVersion is the exclusive upper bound of the supported runtime
func (p *Package) MaxLibraryVersion() string {
	v, err := version.GetMaxBuildVersion(p.LibraryVersion)
	if err != nil {
		return p.LibraryVersion
	}
	return v
}

// Summary is the one-line description published with the package
func (p *Package) Summary() string {
	if len(p.ServiceNames) == 1 {
		return fmt.Sprintf("Type annotations for %s %s %s service", p.Data.LibraryName, p.Version, p.ServiceNames[0].ClassName)
	}
	return fmt.Sprintf("Type annotations for %s %s", p.Data.LibraryName, p.Version)
}

// Requires lists runtime dependencies of the stubs
func (p *Package) Requires() []string {
	return []string{`typing-extensions>=4.1.0; python_version<"3.12"`}
}

// BuilderVersion is the generator version stamped into the package
func (p *Package) BuilderVersion() string {
	return version.GetBuilderVersion()
}
