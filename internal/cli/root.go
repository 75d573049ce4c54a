// Package cli implements the pystubgen command line: configuration
// layering, logging setup and the generate, services and version commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/utils"
)

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	configFile string
	verbose    bool
	quiet      bool
}

// reportedError marks a failure that was already printed
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pystubgen",
		Short: "Generate type annotation stub packages for boto3 services",
		Long: `pystubgen reads botocore service models and writes PEP 561 stub packages:
one mypy-boto3-<service> package per service, the mypy-boto3 master package,
the boto3-stubs wrapper and its all-in-one boto3-stubs-full variant.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default ./"+ConfigFileName+")")
	flags.String("models-path", "", "Root of the botocore service models")
	flags.String("log-level", "", "Output level: silent, error, warn, info, verbose, debug")
	flags.String("log-file", "", "Also write every message as JSON to this file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Only show errors")

	cmd.AddCommand(newGenerateCommand(opts), newServicesCommand(opts), newVersionCommand())
	return cmd
}

// Execute runs the CLI and exits non-zero on failure. SIGINT and SIGTERM
// cancel the run, which still removes its temporary directories.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// viper layers the config file, environment and the flags set on cmd
func (o *rootOptions) viper(cmd *cobra.Command) (*viper.Viper, error) {
	v, err := NewViper(o.configFile)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{
		"models-path", "log-level", "log-file",
		"output-path", "services", "build-version", "output-types", "products",
		"disable-smart-version", "skip-published", "download-static-stubs",
		"static-files-path", "static-files-url", "pypi-url", "python",
		"validate-syntax",
	} {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flag); err != nil {
				return nil, err
			}
		}
	}
	if flag := cmd.Flags().Lookup("type-override"); flag != nil {
		if err := v.BindPFlag("type_overrides", flag); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// diagnostics creates the output for a command. --verbose and --quiet win
// over the configured level.
func (o *rootOptions) diagnostics(cmd *cobra.Command, configured string) *utils.DiagnosticSystem {
	level := utils.ParseDiagnosticLevel(configured)
	switch {
	case o.quiet:
		level = utils.DiagnosticError
	case o.verbose && level < utils.DiagnosticVerbose:
		level = utils.DiagnosticVerbose
	}
	if out := cmd.OutOrStdout(); out != os.Stdout {
		return utils.NewBufferedDiagnostics(level, out)
	}
	return utils.NewDiagnosticSystem(level)
}
