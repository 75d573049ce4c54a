package writers

import (
	"io"
	"path/filepath"

	"golang.org/x/mod/sumdb/dirhash"
	"gopkg.in/yaml.v3"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/structures"
	"github.com/toyz/pystubgen/internal/utils/fileops"
)

// ManifestFileName lists the files of a generated package and their digest
const ManifestFileName = "pystubgen-manifest.yaml"

// Manifest is written next to pyproject.toml of every generated package
type Manifest struct {
	Name           string   `yaml:"name"`
	PyPIName       string   `yaml:"pypi_name"`
	Version        string   `yaml:"version"`
	LibraryVersion string   `yaml:"library_version"`
	BuilderVersion string   `yaml:"builder_version"`
	RunID          string   `yaml:"run_id,omitempty"`
	Files          []string `yaml:"files"`
	Digest         string   `yaml:"digest"`
}

// BuildManifest hashes files, given relative to root with forward slashes
func BuildManifest(fo *fileops.FileOps, pkg *structures.Package, root string, files []string, runID string) (*Manifest, error) {
	digest, err := dirhash.Hash1(files, func(name string) (io.ReadCloser, error) {
		return fo.Open(filepath.Join(root, filepath.FromSlash(name)))
	})
	if err != nil {
		return nil, errors.Wrapf(err, "hash %s", pkg.PyPIName)
	}
	return &Manifest{
		Name:           pkg.Name,
		PyPIName:       pkg.PyPIName,
		Version:        pkg.Version,
		LibraryVersion: pkg.LibraryVersion,
		BuilderVersion: pkg.BuilderVersion(),
		RunID:          runID,
		Files:          files,
		Digest:         digest,
	}, nil
}

// Marshal renders the manifest as YAML
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s", ManifestFileName)
	}
	return data, nil
}

// ReadManifest loads a manifest written by an earlier run
func ReadManifest(fo *fileops.FileOps, root string) (*Manifest, error) {
	data, err := fo.ReadFile(filepath.Join(root, ManifestFileName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parse %s", ManifestFileName)
	}
	return &m, nil
}
