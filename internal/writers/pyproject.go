package writers

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/structures"
)

// PyProjectFileName is the build metadata of a generated package
const PyProjectFileName = "pyproject.toml"

const requiresPython = ">=3.9"

type pyProject struct {
	BuildSystem buildSystem `toml:"build-system"`
	Project     project     `toml:"project"`
	Tool        tool        `toml:"tool"`
}

type buildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
}

type project struct {
	Name           string            `toml:"name"`
	Version        string            `toml:"version"`
	Description    string            `toml:"description"`
	Readme         string            `toml:"readme"`
	RequiresPython string            `toml:"requires-python"`
	Dependencies   []string          `toml:"dependencies"`
	Keywords       []string          `toml:"keywords"`
	URLs           map[string]string `toml:"urls,omitempty"`
}

type tool struct {
	Setuptools setuptools `toml:"setuptools"`
}

type setuptools struct {
	Packages    []string            `toml:"packages"`
	PackageData map[string][]string `toml:"package-data"`
}

// RenderPyProject builds pyproject.toml for pkg shipping the given python
// packages, each with its stub files.
func RenderPyProject(pkg *structures.Package, packages []string) ([]byte, error) {
	packageData := make(map[string][]string, len(packages))
	for _, name := range packages {
		packageData[name] = []string{"py.typed", "*.pyi", "**/*.pyi"}
	}

	doc := pyProject{
		BuildSystem: buildSystem{
			Requires:     []string{"setuptools>=61"},
			BuildBackend: "setuptools.build_meta",
		},
		Project: project{
			Name:           pkg.PyPIName,
			Version:        pkg.Version,
			Description:    pkg.Summary(),
			Readme:         ReadmeFileName,
			RequiresPython: requiresPython,
			Dependencies:   pkg.Requires(),
			Keywords:       []string{pkg.Data.LibraryName, "type-annotations", "stubs", "mypy", "pyright"},
		},
		Tool: tool{Setuptools: setuptools{
			Packages:    packages,
			PackageData: packageData,
		}},
	}
	if len(pkg.ServiceNames) == 1 {
		doc.Project.URLs = map[string]string{"Homepage": pkg.Data.ServicePyPILink(pkg.ServiceNames[0])}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s for %s", PyProjectFileName, pkg.PyPIName)
	}
	return data, nil
}
