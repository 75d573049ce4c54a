package cli

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/toyz/pystubgen/internal/generators"
	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/parser"
	"github.com/toyz/pystubgen/internal/pypi"
	"github.com/toyz/pystubgen/internal/templates"
	"github.com/toyz/pystubgen/internal/utils"
	"github.com/toyz/pystubgen/internal/utils/fileops"
	"github.com/toyz/pystubgen/internal/version"
)

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate stub packages",
		Long: `Generate stub packages for the selected services and products.

Configuration is read from defaults, ./` + ConfigFileName + ` (or --config),
` + EnvPrefix + `_* environment variables and flags, later sources winning.`,
		Example: `  pystubgen generate -b 1.34.0 --services ec2,s3
  pystubgen generate -b 1.34.0 --products services,master,stubs --output-types wheel
  pystubgen generate -b 1.34.0 --type-override 'Instance.State=Literal["ok", "bad"]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringP("output-path", "o", "", "Directory for generated packages and distributions")
	flags.StringSlice("services", nil, "Services to generate, or \"all\"")
	flags.StringP("build-version", "b", "", "Version of the generated packages")
	flags.StringSlice("output-types", nil, "Output types: package, wheel, source, installed")
	flags.StringSlice("products", nil, "Products: services, master, stubs, full")
	flags.Bool("disable-smart-version", false, "Do not check PyPI for published versions")
	flags.Bool("skip-published", false, "Skip packages whose version is already on PyPI")
	flags.Bool("download-static-stubs", false, "Download static stubs from --static-files-url")
	flags.String("static-files-path", "", "Directory with static stubs for boto3-stubs")
	flags.String("static-files-url", "", "Address of a static stubs archive or repository")
	flags.String("pypi-url", "", "Base URL of the package index")
	flags.String("python", "", "Interpreter used to build distributions")
	flags.Bool("validate-syntax", false, "Parse every rendered stub before writing it")
	flags.StringArray("type-override", nil, "Override a shape type, Shape[.Member]=expression")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *rootOptions) error {
	reporter := NewReporter(cmd.ErrOrStderr(), opts.verbose)

	v, err := opts.viper(cmd)
	if err != nil {
		reporter.ReportError(err)
		return reportedError{err}
	}
	cfg, err := LoadConfig(v)
	if err != nil {
		reporter.ReportError(err)
		return reportedError{err}
	}

	diag := opts.diagnostics(cmd, cfg.LogLevel)
	runID := uuid.NewString()
	if cfg.LogFile != "" {
		closeLog, err := diag.AttachLogFile(cfg.LogFile, "run_id", runID, "component", "generate")
		if err != nil {
			reporter.ReportError(err)
			return reportedError{err}
		}
		defer closeLog()
	}

	diag.Section("pystubgen " + version.GetBuilderVersion())
	if cfg.DisableSmartVersion && cfg.SkipPublished {
		reporter.ReportWarning("skip_published has no effect when disable_smart_version is set")
	}

	gen, products, err := newGenerator(cfg, runID, diag)
	if err != nil {
		diag.Error("Generation failed: %v", err)
		reporter.ReportError(err)
		return reportedError{err}
	}

	summary, err := gen.Generate(cmd.Context(), products)
	if err != nil {
		diag.Error("Generation failed: %v", err)
		reporter.ReportError(err)
		return reportedError{err}
	}

	keys, stats := SummaryStats(summary)
	diag.Summary("Generation complete", keys, stats)
	if diag.Level() >= utils.DiagnosticVerbose && len(summary.Generated) > 0 {
		diag.Subsection("Generated packages")
		diag.Indent()
		for _, name := range summary.Generated {
			diag.List("%s", name)
		}
		diag.Unindent()
	}
	return nil
}

// newGenerator wires the run against the local filesystem
func newGenerator(cfg *Config, runID string, diag *utils.DiagnosticSystem) (*generators.Generator, []models.Product, error) {
	files := fileops.NewOsFileOps()
	loader := parser.NewLoader(files.Fs(), cfg.ModelsPath)

	available, err := loader.DiscoverServiceNames(models.NewServiceNameCatalog())
	if err != nil {
		return nil, nil, err
	}
	selected, err := cfg.SelectServices(available)
	if err != nil {
		return nil, nil, err
	}
	outputTypes, err := cfg.ParsedOutputTypes()
	if err != nil {
		return nil, nil, err
	}
	products, err := cfg.ParsedProducts()
	if err != nil {
		return nil, nil, err
	}
	overrides, err := cfg.ParsedTypeOverrides()
	if err != nil {
		return nil, nil, err
	}

	diag.Subsection("Configuration")
	diag.List("Version: %s", cfg.BuildVersion)
	diag.List("Services: %d of %d", len(selected), len(available))
	diag.List("Products: %s", strings.Join(cfg.Products, ", "))
	diag.List("Output: %s (%s)", utils.PrintPath(cfg.OutputPath), strings.Join(cfg.OutputTypes, ", "))
	diag.Debug("Run id %s", runID)

	var checker version.Checker
	if !cfg.DisableSmartVersion {
		checker = pypi.NewManager(cfg.PyPIURL, nil)
	}

	gen, err := generators.New(generators.Config{
		OutputPath:          cfg.OutputPath,
		ServiceNames:        selected,
		MasterServiceNames:  available,
		Version:             cfg.BuildVersion,
		OutputTypes:         outputTypes,
		DisableSmartVersion: cfg.DisableSmartVersion,
		SkipPublished:       cfg.SkipPublished,
		DownloadStaticStubs: cfg.DownloadStaticStubs,
		StaticFilesPath:     cfg.StaticFilesPath,
		StaticFilesURL:      cfg.StaticFilesURL,
		ValidateSyntax:      cfg.ValidateSyntax,
		TypeOverrides:       overrides,
		RunID:               runID,
		Python:              cfg.Python,
	}, files, loader, templates.NewEngine(), checker, diag)
	if err != nil {
		return nil, nil, err
	}
	return gen, products, nil
}
