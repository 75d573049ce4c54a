// Package generators runs a generation: it negotiates package versions,
// parses and postprocesses service packages, writes every selected product
// and optionally builds distributions from the written directories.
package generators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/parser"
	"github.com/toyz/pystubgen/internal/postprocessors"
	"github.com/toyz/pystubgen/internal/structures"
	"github.com/toyz/pystubgen/internal/templates"
	"github.com/toyz/pystubgen/internal/utils"
	"github.com/toyz/pystubgen/internal/utils/fileops"
	"github.com/toyz/pystubgen/internal/version"
	"github.com/toyz/pystubgen/internal/writers"
)

// Config is the resolved configuration of one run
type Config struct {
	OutputPath string

	// ServiceNames are generated as packages. MasterServiceNames are the
	// services listed by the master and stubs packages and default to
	// ServiceNames.
	ServiceNames       []*models.ServiceName
	MasterServiceNames []*models.ServiceName

	Version             string
	OutputTypes         models.OutputTypes
	DisableSmartVersion bool
	SkipPublished       bool

	DownloadStaticStubs bool
	StaticFilesPath     string
	StaticFilesURL      string

	ValidateSyntax bool
	TypeOverrides  map[string]string
	RunID          string
	Python         string // interpreter used to build distributions
}

// Summary collects what a run produced
type Summary struct {
	Generated []string // "<pypi name> <version>"
	Skipped   []string
	Built     []string
	Duration  time.Duration
}

// Generator coordinates a run. It is not safe for concurrent use.
type Generator struct {
	cfg        Config
	files      *fileops.FileOps
	loader     *parser.Loader
	engine     *templates.Engine
	negotiator *version.Negotiator
	downloader Downloader
	builder    Builder
	diag       *utils.DiagnosticSystem

	parsed           *utils.Cache[string, *structures.ServicePackage]
	packageWriter    *writers.PackageWriter
	buildPath        string
	downloadedStatic string
	cleanupDirs      []string
	summary          Summary
}

// Option customizes a Generator
type Option func(*Generator)

// WithDownloader replaces the go-getter static files downloader
func WithDownloader(d Downloader) Option {
	return func(g *Generator) {
		g.downloader = d
	}
}

// WithBuilder replaces the `python -m build` package builder
func WithBuilder(b Builder) Option {
	return func(g *Generator) {
		g.builder = b
	}
}

// New validates cfg and creates a generator. checker may be nil when
// smart versioning is disabled.
func New(cfg Config, files *fileops.FileOps, loader *parser.Loader, engine *templates.Engine, checker version.Checker, diag *utils.DiagnosticSystem, opts ...Option) (*Generator, error) {
	if cfg.Version == "" {
		return nil, errors.ConfigurationError("build_version", "a build version is required")
	}
	if !version.IsValidVersion(cfg.Version) {
		return nil, errors.ConfigurationError("build_version", fmt.Sprintf("%q is not a valid version", cfg.Version))
	}
	if len(cfg.ServiceNames) == 0 {
		return nil, errors.ConfigurationError("services", "no services selected")
	}
	if len(cfg.OutputTypes) == 0 {
		return nil, errors.ConfigurationError("output_types", "at least one output type is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.ConfigurationError("output_path", "an output path is required")
	}
	if !cfg.DisableSmartVersion && checker == nil {
		return nil, errors.ConfigurationError("pypi_url", "smart versioning needs a package index")
	}
	if len(cfg.MasterServiceNames) == 0 {
		cfg.MasterServiceNames = cfg.ServiceNames
	}

	g := &Generator{
		cfg:        cfg,
		files:      files,
		loader:     loader,
		engine:     engine,
		negotiator: version.NewNegotiator(checker, !cfg.DisableSmartVersion, cfg.SkipPublished),
		downloader: GetterDownloader{},
		diag:       diag,
		parsed:     utils.NewCache[string, *structures.ServicePackage](),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.builder == nil {
		g.builder = NewPackageBuilder(cfg.Python, cfg.OutputPath, nil, diag)
	}
	return g, nil
}

// Generate writes every product in order and removes temporary
// directories before returning.
func (g *Generator) Generate(ctx context.Context, products []models.Product) (*Summary, error) {
	started := time.Now()
	defer g.Cleanup()

	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return g.finish(started), err
		}
		g.diag.Subsection(fmt.Sprintf("Product %s", product))
		if err := g.GenerateProduct(ctx, product); err != nil {
			return g.finish(started), errors.Wrapf(err, "generate %s", product)
		}
	}
	return g.finish(started), nil
}

func (g *Generator) finish(started time.Time) *Summary {
	summary := g.summary
	summary.Duration = time.Since(started)
	return &summary
}

// GenerateProduct writes one product
func (g *Generator) GenerateProduct(ctx context.Context, product models.Product) error {
	var (
		written []*structures.Package
		err     error
	)
	switch product {
	case models.ProductServices:
		written, err = g.generateServicePackages(ctx)
	case models.ProductMaster:
		written, err = g.generateMasterPackage(ctx)
	case models.ProductStubs:
		written, err = g.generateStubsPackage(ctx)
	case models.ProductFull:
		written, err = g.generateFullPackage(ctx)
	default:
		return errors.ConfigurationError("products", fmt.Sprintf("unknown product %q", product))
	}
	if err != nil {
		return err
	}
	return g.buildPackages(ctx, written)
}

// Cleanup removes temporary directories created during the run
func (g *Generator) Cleanup() {
	for _, dir := range g.cleanupDirs {
		g.diag.Debug("Removing %s", dir)
		if err := g.files.RemoveAll(dir); err != nil {
			g.diag.Warn("Failed to remove %s: %v", dir, err)
		}
	}
	g.cleanupDirs = nil
	g.buildPath = ""
	g.downloadedStatic = ""
	g.packageWriter = nil
}

// BuildPath is where packages are written: a temporary directory when no
// output type keeps the generated directories, otherwise the output path.
func (g *Generator) BuildPath() (string, error) {
	if !g.cfg.OutputTypes.IsPackageTemporary() {
		return g.cfg.OutputPath, nil
	}
	if g.buildPath == "" {
		dir, err := g.tempDir("build")
		if err != nil {
			return "", err
		}
		g.buildPath = dir
	}
	return g.buildPath, nil
}

func (g *Generator) tempDir(purpose string) (string, error) {
	prefix := "pystubgen-" + purpose + "-"
	if g.cfg.RunID != "" {
		prefix += strings.SplitN(g.cfg.RunID, "-", 2)[0] + "-"
	}
	dir, err := g.files.TempDir(prefix)
	if err != nil {
		return "", err
	}
	g.cleanupDirs = append(g.cleanupDirs, dir)
	return dir, nil
}

func (g *Generator) writer() (*writers.PackageWriter, error) {
	if g.packageWriter != nil {
		return g.packageWriter, nil
	}
	buildPath, err := g.BuildPath()
	if err != nil {
		return nil, err
	}
	g.packageWriter = writers.NewPackageWriter(g.files, g.engine, g.diag, writers.Options{
		OutputPath:      buildPath,
		GeneratePackage: g.cfg.OutputTypes.IsPackage(),
		Cleanup:         true,
		ValidateSyntax:  g.cfg.ValidateSyntax,
		RunID:           g.cfg.RunID,
	})
	return g.packageWriter, nil
}

// packageVersion negotiates the version of pypiName. ok is false when the
// package is skipped because the version is already published.
func (g *Generator) packageVersion(ctx context.Context, pypiName string) (ver string, ok bool, err error) {
	ver, err = g.negotiator.PackageVersion(ctx, pypiName, g.cfg.Version)
	if errors.Is(err, errors.ErrAlreadyPublished) {
		g.diag.Info("Skipping %s %s, already on PyPI", pypiName, g.cfg.Version)
		g.summary.Skipped = append(g.summary.Skipped, pypiName)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if ver != g.cfg.Version {
		g.diag.Verbose("%s %s is published, using %s", pypiName, g.cfg.Version, ver)
	}
	return ver, true, nil
}

// parseServicePackage parses and postprocesses a service once per run for
// each package family and version.
func (g *Generator) parseServicePackage(sn *models.ServiceName, data *models.PackageData, ver string) (*structures.ServicePackage, error) {
	key := data.PyPIName + "/" + sn.Name + "/" + ver
	return g.parsed.GetOrCompute(key, func() (*structures.ServicePackage, error) {
		diag := g.diag.With("service", sn.Name)
		diag.Debug("Parsing %s", data.ServicePyPIName(sn))

		pkg, err := parser.NewServicePackageParser(g.loader, data, sn, ver, g.cfg.TypeOverrides).Parse()
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", sn.Name)
		}
		if err := postprocessors.New(diag).Process(pkg); err != nil {
			return nil, err
		}
		return pkg, nil
	})
}

// recordPackage adds a written package to the summary
func (g *Generator) recordPackage(pkg *structures.Package) *structures.Package {
	g.summary.Generated = append(g.summary.Generated, pkg.PyPIName+" "+pkg.Version)
	return pkg
}

// buildPackages runs once every package of a product has been written, so a
// failing service leaves no distribution behind.
func (g *Generator) buildPackages(ctx context.Context, packages []*structures.Package) error {
	if !g.cfg.OutputTypes.IsPackaged() || len(packages) == 0 {
		return nil
	}
	w, err := g.writer()
	if err != nil {
		return err
	}
	for _, pkg := range packages {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.diag.Info("Building %s %s", pkg.PyPIName, pkg.Version)
		if err := g.builder.Build(ctx, w.PackagePath(pkg), g.cfg.OutputTypes); err != nil {
			return errors.Wrapf(err, "build %s", pkg.PyPIName)
		}
		g.summary.Built = append(g.summary.Built, pkg.PyPIName+" "+pkg.Version)
	}
	return nil
}
