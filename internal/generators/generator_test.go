package generators

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/parser"
	"github.com/toyz/pystubgen/internal/templates"
	"github.com/toyz/pystubgen/internal/utils"
	"github.com/toyz/pystubgen/internal/utils/fileops"
	"github.com/toyz/pystubgen/internal/version"
	"github.com/toyz/pystubgen/internal/writers"
)

const (
	modelsRoot = "/models"
	outputPath = "/out"
)

var (
	testService   = models.NewServiceName("testsvc", "TestSvc")
	brokenService = models.NewServiceName("broken", "Broken")
)

type fakeChecker struct {
	published map[string][]string
}

func (f *fakeChecker) HasVersion(_ context.Context, pypiName, ver string) (bool, error) {
	for _, v := range f.published[pypiName] {
		if v == ver {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChecker) GetNextVersion(ctx context.Context, pypiName, ver string) (string, error) {
	next := ver
	for {
		bumped, err := version.BumpPostrelease(next)
		if err != nil {
			return "", err
		}
		next = bumped
		if has, _ := f.HasVersion(ctx, pypiName, next); !has {
			return next, nil
		}
	}
}

type fakeDownloader struct {
	fo    *fileops.FileOps
	calls int
}

func (d *fakeDownloader) Download(_ context.Context, _, dst string) error {
	d.calls++
	_, err := d.fo.WriteFile(filepath.Join(dst, "static-main", "resources", "base.pyi"), []byte("class ServiceResource: ...\n"))
	return err
}

type fakeBuilder struct {
	paths []string
	err   error
}

func (b *fakeBuilder) Build(_ context.Context, packagePath string, _ models.OutputTypes) error {
	b.paths = append(b.paths, packagePath)
	return b.err
}

type testRun struct {
	gen *Generator
	fo  *fileops.FileOps
	out *bytes.Buffer
}

func newTestRun(t *testing.T, cfg Config, checker version.Checker, opts ...Option) *testRun {
	t.Helper()
	archive, err := txtar.ParseFile("testdata/models.txtar")
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	for _, f := range archive.Files {
		require.NoError(t, afero.WriteFile(fsys, path.Join(modelsRoot, f.Name), f.Data, 0o644))
	}
	fo := fileops.NewFileOps(fsys)

	if cfg.OutputPath == "" {
		cfg.OutputPath = outputPath
	}
	if cfg.Version == "" {
		cfg.Version = "1.2.3"
	}
	if len(cfg.ServiceNames) == 0 {
		cfg.ServiceNames = []*models.ServiceName{testService}
	}
	if len(cfg.OutputTypes) == 0 {
		cfg.OutputTypes = models.OutputTypes{models.OutputTypePackage}
	}

	var out bytes.Buffer
	diag := utils.NewBufferedDiagnostics(utils.DiagnosticDebug, &out)
	gen, err := New(cfg, fo, parser.NewLoader(fsys, modelsRoot), templates.NewEngine(), checker, diag, opts...)
	require.NoError(t, err)
	return &testRun{gen: gen, fo: fo, out: &out}
}

func TestNew_ConfigErrors(t *testing.T) {
	fo := fileops.NewFileOps(afero.NewMemMapFs())
	diag := utils.NewBufferedDiagnostics(utils.DiagnosticSilent, &bytes.Buffer{})
	valid := Config{
		OutputPath:          outputPath,
		ServiceNames:        []*models.ServiceName{testService},
		Version:             "1.2.3",
		OutputTypes:         models.OutputTypes{models.OutputTypePackage},
		DisableSmartVersion: true,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"missing version", func(c *Config) { c.Version = "" }, "build_version"},
		{"invalid version", func(c *Config) { c.Version = "latest" }, "build_version"},
		{"no services", func(c *Config) { c.ServiceNames = nil }, "services"},
		{"no output types", func(c *Config) { c.OutputTypes = nil }, "output_types"},
		{"no output path", func(c *Config) { c.OutputPath = "" }, "output_path"},
		{"smart version without index", func(c *Config) { c.DisableSmartVersion = false }, "pypi_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := New(cfg, fo, parser.NewLoader(fo.Fs(), modelsRoot), templates.NewEngine(), nil, diag)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ConfigurationErrorCode))
			assert.Contains(t, err.Error(), tt.key)
		})
	}

	gen, err := New(valid, fo, parser.NewLoader(fo.Fs(), modelsRoot), templates.NewEngine(), nil, diag)
	require.NoError(t, err)
	assert.Equal(t, valid.ServiceNames, gen.cfg.MasterServiceNames)
}

func TestGenerate_ServicePackages(t *testing.T) {
	run := newTestRun(t, Config{DisableSmartVersion: true, RunID: "run-1"}, nil)

	summary, err := run.gen.Generate(context.Background(), []models.Product{models.ProductServices})
	require.NoError(t, err)
	assert.Equal(t, []string{"mypy-boto3-testsvc 1.2.3"}, summary.Generated)
	assert.Empty(t, summary.Skipped)
	assert.Empty(t, summary.Built)

	root := filepath.Join(outputPath, "mypy_boto3_testsvc_package")
	for _, name := range []string{"client.pyi", "type_defs.pyi", "literals.pyi", "paginator.pyi", "waiter.pyi", "py.typed"} {
		assert.True(t, run.fo.IsFile(filepath.Join(root, "mypy_boto3_testsvc", name)), name)
	}
	assert.True(t, run.fo.IsFile(filepath.Join(root, writers.PyProjectFileName)))

	manifest, err := writers.ReadManifest(run.fo, root)
	require.NoError(t, err)
	assert.Equal(t, "run-1", manifest.RunID)
	assert.Equal(t, "1.2.3", manifest.Version)

	typeDefs, err := run.fo.ReadFile(filepath.Join(root, "mypy_boto3_testsvc", "type_defs.pyi"))
	require.NoError(t, err)
	assert.Contains(t, string(typeDefs), `Sequence["ItemTypeDef"]`)
	assert.Contains(t, string(typeDefs), `List["ItemOutputTypeDef"]`)

	assert.Contains(t, run.out.String(), "[1/1] Generating mypy-boto3-testsvc 1.2.3")
	assert.Contains(t, run.out.String(), "Running replace_self_ref_typed_dicts on mypy-boto3-testsvc")
}

func TestGenerate_SkipPublished(t *testing.T) {
	checker := &fakeChecker{published: map[string][]string{"mypy-boto3-testsvc": {"1.2.3"}}}
	run := newTestRun(t, Config{SkipPublished: true}, checker)

	summary, err := run.gen.Generate(context.Background(), []models.Product{models.ProductServices})
	require.NoError(t, err)
	assert.Equal(t, []string{"mypy-boto3-testsvc"}, summary.Skipped)
	assert.Empty(t, summary.Generated)
	assert.False(t, run.fo.Exists(filepath.Join(outputPath, "mypy_boto3_testsvc_package")))
	assert.Contains(t, run.out.String(), "Skipping mypy-boto3-testsvc 1.2.3, already on PyPI")
}

func TestGenerate_SmartVersion(t *testing.T) {
	checker := &fakeChecker{published: map[string][]string{"mypy-boto3-testsvc": {"1.2.3"}}}
	run := newTestRun(t, Config{}, checker)
	next, err := version.BumpPostrelease("1.2.3")
	require.NoError(t, err)

	summary, err := run.gen.Generate(context.Background(), []models.Product{models.ProductServices})
	require.NoError(t, err)
	assert.Equal(t, []string{"mypy-boto3-testsvc " + next}, summary.Generated)

	manifest, err := writers.ReadManifest(run.fo, filepath.Join(outputPath, "mypy_boto3_testsvc_package"))
	require.NoError(t, err)
	assert.Equal(t, next, manifest.Version)
	assert.Equal(t, "1.2.3", manifest.LibraryVersion)
}

func TestGenerate_PackagedOutputUsesTemporaryDirectory(t *testing.T) {
	builder := &fakeBuilder{}
	run := newTestRun(t, Config{
		DisableSmartVersion: true,
		OutputTypes:         models.OutputTypes{models.OutputTypeWheel, models.OutputTypeSource},
	}, nil, WithBuilder(builder))

	summary, err := run.gen.Generate(context.Background(), []models.Product{models.ProductServices})
	require.NoError(t, err)
	require.Len(t, builder.paths, 1)
	assert.Equal(t, "mypy_boto3_testsvc_package", filepath.Base(builder.paths[0]))
	assert.NotEqual(t, outputPath, filepath.Dir(builder.paths[0]))
	assert.Equal(t, []string{"mypy-boto3-testsvc 1.2.3"}, summary.Built)

	assert.False(t, run.fo.Exists(builder.paths[0]), "temporary build directory is removed")
	assert.False(t, run.fo.Exists(filepath.Join(outputPath, "mypy_boto3_testsvc_package")))
}

func TestGenerate_BuildFailure(t *testing.T) {
	builder := &fakeBuilder{err: errors.NewSubprocessError("python -m build", "boom", assert.AnError)}
	run := newTestRun(t, Config{
		DisableSmartVersion: true,
		OutputTypes:         models.OutputTypes{models.OutputTypeWheel},
	}, nil, WithBuilder(builder))

	_, err := run.gen.Generate(context.Background(), []models.Product{models.ProductServices})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.SubprocessErrorCode))
	assert.Contains(t, err.Error(), "build mypy-boto3-testsvc")
}

func TestGenerate_FailingServiceBuildsNothing(t *testing.T) {
	builder := &fakeBuilder{}
	run := newTestRun(t, Config{
		DisableSmartVersion: true,
		ServiceNames:        []*models.ServiceName{testService, brokenService},
		OutputTypes:         models.OutputTypes{models.OutputTypeWheel},
	}, nil, WithBuilder(builder))

	summary, err := run.gen.Generate(context.Background(), []models.Product{models.ProductServices})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse broken")
	assert.Empty(t, builder.paths)
	assert.Empty(t, summary.Built)
	assert.Equal(t, []string{"mypy-boto3-testsvc 1.2.3"}, summary.Generated)
}

func TestGenerate_MasterPackage(t *testing.T) {
	run := newTestRun(t, Config{DisableSmartVersion: true}, nil)

	summary, err := run.gen.Generate(context.Background(), []models.Product{models.ProductMaster})
	require.NoError(t, err)
	assert.Equal(t, []string{"mypy-boto3 1.2.3"}, summary.Generated)

	root := filepath.Join(outputPath, "mypy_boto3_package")
	assert.True(t, run.fo.IsFile(filepath.Join(root, "mypy_boto3", "__init__.pyi")))
	assert.True(t, run.fo.IsFile(filepath.Join(root, "mypy_boto3", "literals.pyi")))
	assert.Contains(t, run.out.String(), "[1/1] Parsing mypy_boto3_testsvc")
}

func TestGenerate_StubsPackageDownloadsStaticFilesOnce(t *testing.T) {
	run := newTestRun(t, Config{
		DisableSmartVersion: true,
		DownloadStaticStubs: true,
		StaticFilesURL:      "https://example.com/static.zip",
	}, nil)
	downloader := &fakeDownloader{fo: run.fo}
	run.gen.downloader = downloader
	defer run.gen.Cleanup()

	ctx := context.Background()
	require.NoError(t, run.gen.GenerateProduct(ctx, models.ProductStubs))
	require.NoError(t, run.gen.GenerateProduct(ctx, models.ProductStubs))
	assert.Equal(t, 1, downloader.calls)

	root := filepath.Join(outputPath, "boto3_stubs_package")
	assert.True(t, run.fo.IsFile(filepath.Join(root, "boto3-stubs", "resources", "base.pyi")))
	assert.True(t, run.fo.IsFile(filepath.Join(root, "boto3-stubs", "session.pyi")))

	static := run.gen.downloadedStatic
	assert.Equal(t, "static-main", filepath.Base(static))
	run.gen.Cleanup()
	assert.False(t, run.fo.Exists(static))
}

func TestGenerate_FullPackage(t *testing.T) {
	run := newTestRun(t, Config{DisableSmartVersion: true}, nil)

	summary, err := run.gen.Generate(context.Background(), []models.Product{models.ProductFull})
	require.NoError(t, err)
	assert.Equal(t, []string{"boto3-stubs-full 1.2.3"}, summary.Generated)

	root := filepath.Join(outputPath, "boto3_stubs_full_package")
	assert.True(t, run.fo.IsFile(filepath.Join(root, "boto3-stubs", "__init__.pyi")))
	assert.True(t, run.fo.IsFile(filepath.Join(root, "mypy_boto3_testsvc", "client.pyi")))
	assert.Contains(t, run.out.String(), "[1/1] Generating mypy_boto3_testsvc package directory")
}

func TestGenerate_ParseErrorStopsRun(t *testing.T) {
	run := newTestRun(t, Config{
		DisableSmartVersion: true,
		ServiceNames:        []*models.ServiceName{brokenService, testService},
	}, nil)

	summary, err := run.gen.Generate(context.Background(), []models.Product{models.ProductServices, models.ProductMaster})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate services")
	assert.Contains(t, err.Error(), "parse broken")
	assert.Empty(t, summary.Generated)
}

func TestGenerate_CancelledContext(t *testing.T) {
	run := newTestRun(t, Config{DisableSmartVersion: true}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := run.gen.Generate(ctx, []models.Product{models.ProductServices})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_UnknownProduct(t *testing.T) {
	run := newTestRun(t, Config{DisableSmartVersion: true}, nil)
	err := run.gen.GenerateProduct(context.Background(), models.Product("docs"))
	assert.True(t, errors.IsCode(err, errors.ConfigurationErrorCode))
}

func TestPackageBuilder(t *testing.T) {
	var calls [][]string
	runner := func(_ context.Context, dir, name string, args ...string) ([]byte, error) {
		calls = append(calls, append([]string{dir, name}, args...))
		return nil, nil
	}
	var out bytes.Buffer
	builder := NewPackageBuilder("", "/dist", runner, utils.NewBufferedDiagnostics(utils.DiagnosticDebug, &out))

	err := builder.Build(context.Background(), "/build/pkg dir", models.OutputTypes{models.OutputTypeWheel, models.OutputTypePackage, models.OutputTypeSource})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"/build/pkg dir", "python", "-m", "build", "--wheel", "--outdir", "/dist", "."},
		{"/build/pkg dir", "python", "-m", "build", "--sdist", "--outdir", "/dist", "."},
	}, calls)
	assert.Contains(t, out.String(), "Running python -m build --wheel --outdir /dist .")
}

func TestPackageBuilder_Failure(t *testing.T) {
	runner := func(context.Context, string, string, ...string) ([]byte, error) {
		return []byte("error: invalid setup\nfix pyproject\n"), assert.AnError
	}
	var out bytes.Buffer
	builder := NewPackageBuilder("python3", "/dist out", runner, utils.NewBufferedDiagnostics(utils.DiagnosticError, &out))

	err := builder.Build(context.Background(), "/build", models.OutputTypes{models.OutputTypeWheel})
	var subprocessErr *errors.SubprocessError
	require.True(t, errors.As(err, &subprocessErr))
	assert.Equal(t, "python3 -m build --wheel --outdir '/dist out' .", subprocessErr.Command)
	assert.ErrorIs(t, err, assert.AnError)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{"[ERROR] error: invalid setup", "[ERROR] fix pyproject"}, lines)
}
