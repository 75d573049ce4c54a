package generators

import (
	"context"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/utils"
)

// Builder turns a written package directory into distributions
type Builder interface {
	Build(ctx context.Context, packagePath string, outputTypes models.OutputTypes) error
}

// CommandRunner executes a command in dir and returns its combined output
type CommandRunner func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// PackageBuilder runs `python -m build` once per packaged output type
type PackageBuilder struct {
	python     string
	outputPath string
	run        CommandRunner
	diag       *utils.DiagnosticSystem
}

// NewPackageBuilder creates a builder that puts distributions into outputPath
func NewPackageBuilder(python, outputPath string, run CommandRunner, diag *utils.DiagnosticSystem) *PackageBuilder {
	if python == "" {
		python = "python"
	}
	if run == nil {
		run = ExecRunner
	}
	return &PackageBuilder{
		python:     python,
		outputPath: outputPath,
		run:        run,
		diag:       diag,
	}
}

// Build builds a wheel and/or sdist from packagePath
func (b *PackageBuilder) Build(ctx context.Context, packagePath string, outputTypes models.OutputTypes) error {
	for _, outputType := range outputTypes {
		var flag string
		switch outputType {
		case models.OutputTypeWheel:
			flag = "--wheel"
		case models.OutputTypeSource:
			flag = "--sdist"
		default:
			continue
		}

		args := []string{"-m", "build", flag, "--outdir", b.outputPath, "."}
		command := shellquote.Join(append([]string{b.python}, args...)...)
		b.diag.Debug("Running %s in %s", command, utils.PrintPath(packagePath))

		output, err := b.run(ctx, packagePath, b.python, args...)
		if err != nil {
			subprocessErr := errors.NewSubprocessError(command, string(output), err)
			for _, line := range subprocessErr.OutputLines() {
				b.diag.Error("%s", line)
			}
			return subprocessErr
		}
	}
	return nil
}
