// Package writers renders packages through the template engine and writes
// them to disk: stub modules, package metadata and a manifest.
package writers

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/structures"
	"github.com/toyz/pystubgen/internal/templates"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
	"github.com/toyz/pystubgen/internal/utils"
	"github.com/toyz/pystubgen/internal/utils/fileops"
)

const (
	ReadmeFileName  = "README.md"
	PyTypedFileName = "py.typed"
	InitFileName    = "__init__.pyi"

	serviceTemplateDir = "service"
	masterTemplateDir  = "master"
	stubsTemplateDir   = "stubs"
)

// Options control where and how packages are written
type Options struct {
	OutputPath string
	// GeneratePackage writes a buildable package directory with
	// pyproject.toml, README and manifest. Otherwise only the importable
	// module directory is written.
	GeneratePackage bool
	// Cleanup removes files left in module directories by earlier runs
	Cleanup        bool
	ValidateSyntax bool
	RunID          string
}

// PackageWriter writes rendered packages
type PackageWriter struct {
	opts      Options
	files     *fileops.FileOps
	engine    *templates.Engine
	validator *SyntaxValidator
	diag      *utils.DiagnosticSystem
}

type renderedFile struct {
	path    string
	content []byte
}

// NewPackageWriter creates a writer
func NewPackageWriter(files *fileops.FileOps, engine *templates.Engine, diag *utils.DiagnosticSystem, opts Options) *PackageWriter {
	w := &PackageWriter{
		opts:   opts,
		files:  files,
		engine: engine,
		diag:   diag,
	}
	if opts.ValidateSyntax {
		w.validator = NewSyntaxValidator()
	}
	return w
}

// Options returns the writer configuration
func (w *PackageWriter) Options() Options {
	return w.opts
}

// PackagePath is the directory holding pyproject.toml in package mode and
// the output root otherwise.
func (w *PackageWriter) PackagePath(pkg *structures.Package) string {
	if w.opts.GeneratePackage {
		return filepath.Join(w.opts.OutputPath, pkg.DirectoryName())
	}
	return w.opts.OutputPath
}

// ModulePath is the importable module directory of pkg
func (w *PackageWriter) ModulePath(pkg *structures.Package) string {
	return filepath.Join(w.PackagePath(pkg), pkg.Name)
}

// WriteServicePackage writes one service package
func (w *PackageWriter) WriteServicePackage(ctx context.Context, pkg *structures.ServicePackage) error {
	files, err := w.renderServiceModules(pkg, w.ModulePath(pkg.Package))
	if err != nil {
		return err
	}
	if w.opts.GeneratePackage {
		readme, err := w.render(serviceTemplateDir+"/"+ReadmeFileName+templates.TemplateSuffix, pkg, "")
		if err != nil {
			return err
		}
		files = append(files, renderedFile{filepath.Join(w.PackagePath(pkg.Package), ReadmeFileName), readme})
	}
	return w.writePackage(ctx, pkg.Package, files, []string{pkg.Name})
}

// WriteMasterPackage writes the mypy-boto3 package
func (w *PackageWriter) WriteMasterPackage(ctx context.Context, pkg *structures.MasterPackage) error {
	files, err := w.renderTemplateDir(pkg.Package, masterTemplateDir, pkg, literalImports(pkg.Literals))
	if err != nil {
		return err
	}
	files = append(files, renderedFile{filepath.Join(w.ModulePath(pkg.Package), PyTypedFileName), nil})
	return w.writePackage(ctx, pkg.Package, files, []string{pkg.Name})
}

// WriteStubsPackage writes boto3-stubs with its static files. In the full
// variant every service package is written next to the wrapper module.
func (w *PackageWriter) WriteStubsPackage(ctx context.Context, pkg *structures.StubsPackage) error {
	files, err := w.renderTemplateDir(pkg.Package, stubsTemplateDir, pkg, literalImports(pkg.Literals))
	if err != nil {
		return err
	}
	moduleDir := w.ModulePath(pkg.Package)
	files = append(files, renderedFile{filepath.Join(moduleDir, PyTypedFileName), nil})

	if pkg.StaticFilesPath != "" {
		static, err := w.staticFiles(pkg.StaticFilesPath, moduleDir)
		if err != nil {
			return err
		}
		files = append(files, static...)
	}

	packages := []string{pkg.Name}
	for _, servicePackage := range pkg.ServicePackages {
		serviceFiles, err := w.renderServiceModules(servicePackage, filepath.Join(w.PackagePath(pkg.Package), servicePackage.Name))
		if err != nil {
			return err
		}
		files = append(files, serviceFiles...)
		packages = append(packages, servicePackage.Name)
	}
	return w.writePackage(ctx, pkg.Package, files, packages)
}

func (w *PackageWriter) renderServiceModules(pkg *structures.ServicePackage, dir string) ([]renderedFile, error) {
	init, err := w.render(serviceTemplateDir+"/"+InitFileName+templates.TemplateSuffix, pkg, "")
	if err != nil {
		return nil, err
	}
	files := []renderedFile{
		{filepath.Join(dir, InitFileName), init},
		{filepath.Join(dir, PyTypedFileName), nil},
	}
	for _, module := range pkg.Modules() {
		content, err := w.render(serviceTemplateDir+"/"+module.TemplateName(), pkg, pkg.ModuleImports(module).Render())
		if err != nil {
			return nil, errors.Wrapf(err, "render %s.%s", pkg.Name, module)
		}
		files = append(files, renderedFile{filepath.Join(dir, module.FileName()), content})
	}
	return files, nil
}

// renderTemplateDir renders every template of dir. The README goes to the
// package directory and only in package mode.
func (w *PackageWriter) renderTemplateDir(pkg *structures.Package, dir string, data any, imports string) ([]renderedFile, error) {
	names, err := w.engine.List(dir)
	if err != nil {
		return nil, err
	}
	var files []renderedFile
	for _, name := range names {
		output := templates.OutputName(name, dir)
		target := filepath.Join(w.ModulePath(pkg), filepath.FromSlash(output))
		if output == ReadmeFileName {
			if !w.opts.GeneratePackage {
				continue
			}
			target = filepath.Join(w.PackagePath(pkg), ReadmeFileName)
		}
		content, err := w.render(name, data, imports)
		if err != nil {
			return nil, err
		}
		files = append(files, renderedFile{target, content})
	}
	return files, nil
}

func (w *PackageWriter) render(templateName string, pkg any, imports string) ([]byte, error) {
	content, err := w.engine.Render(templateName, map[string]any{
		"package": pkg,
		"imports": imports,
	})
	if err != nil {
		return nil, err
	}
	return []byte(content), nil
}

func (w *PackageWriter) staticFiles(src, dst string) ([]renderedFile, error) {
	paths, err := w.files.ListFiles(src)
	if err != nil {
		return nil, err
	}
	files := make([]renderedFile, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return nil, errors.Wrapf(err, "static file %s", p)
		}
		content, err := w.files.ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, renderedFile{filepath.Join(dst, rel), content})
	}
	return files, nil
}

// writePackage validates everything first so a syntax error leaves the
// previous output untouched.
func (w *PackageWriter) writePackage(ctx context.Context, pkg *structures.Package, files []renderedFile, packages []string) error {
	root := w.PackagePath(pkg)
	if w.opts.GeneratePackage {
		pyproject, err := RenderPyProject(pkg, packages)
		if err != nil {
			return err
		}
		files = append(files, renderedFile{filepath.Join(root, PyProjectFileName), pyproject})
	}

	if w.validator != nil {
		for _, file := range files {
			if !strings.HasSuffix(file.path, ".pyi") {
				continue
			}
			if err := w.validator.Validate(ctx, utils.PrintPath(file.path), file.content); err != nil {
				return err
			}
		}
	}

	written := make(map[string]struct{}, len(files))
	for _, file := range files {
		changed, err := w.files.WriteFile(file.path, file.content)
		if err != nil {
			return err
		}
		written[filepath.Clean(file.path)] = struct{}{}
		if changed {
			w.diag.Debug("Updated %s", utils.PrintPath(file.path))
		}
	}

	if w.opts.Cleanup {
		for _, name := range packages {
			if err := w.removeStale(filepath.Join(root, name), written); err != nil {
				return err
			}
		}
	}

	if w.opts.GeneratePackage {
		if err := w.writeManifest(pkg, root, written); err != nil {
			return err
		}
	}

	w.diag.Verbose("Wrote %s %s to %s", pkg.PyPIName, pkg.Version, utils.PrintPath(root))
	return nil
}

func (w *PackageWriter) removeStale(dir string, written map[string]struct{}) error {
	existing, err := w.files.ListFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range existing {
		if _, ok := written[filepath.Clean(path)]; ok {
			continue
		}
		if !w.files.PathValidator().Within(dir, path) {
			continue
		}
		if err := w.files.RemoveFile(path); err != nil {
			return err
		}
		w.diag.Debug("Removed stale %s", utils.PrintPath(path))
	}
	return nil
}

func (w *PackageWriter) writeManifest(pkg *structures.Package, root string, written map[string]struct{}) error {
	names := make([]string, 0, len(written))
	for path := range written {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Wrapf(err, "manifest entry %s", path)
		}
		names = append(names, filepath.ToSlash(rel))
	}
	sort.Strings(names)

	manifest, err := BuildManifest(w.files, pkg, root, names, w.opts.RunID)
	if err != nil {
		return err
	}
	data, err := manifest.Marshal()
	if err != nil {
		return err
	}
	_, err = w.files.WriteFile(filepath.Join(root, ManifestFileName), data)
	return err
}

func literalImports(literals []*ta.TypeLiteral) string {
	imports := importhelpers.NewImportSet()
	for _, literal := range literals {
		imports.Merge(literal.DefinitionImportRecords())
	}
	return imports.Render()
}
