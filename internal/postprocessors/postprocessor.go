// Package postprocessors normalizes a parsed service package before it is
// written. Passes run in a fixed order and mutate the package in place.
package postprocessors

import (
	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/parser"
	"github.com/toyz/pystubgen/internal/structures"
	"github.com/toyz/pystubgen/internal/utils"
)

// Pass is one normalization step
type Pass interface {
	Name() string
	Run(pkg *structures.ServicePackage) error
}

// Postprocessor runs the passes over service packages
type Postprocessor struct {
	passes []Pass
	diag   *utils.DiagnosticSystem
}

// New creates a postprocessor with the default passes:
// docstrings, package fixups, literal merging, self reference rewriting.
func New(diag *utils.DiagnosticSystem) *Postprocessor {
	return NewWithPasses(diag,
		GenerateDocstrings{},
		ProcessPackage{},
		ExtendLiterals{},
		ReplaceSelfRefTypedDicts{},
	)
}

// NewWithPasses creates a postprocessor running passes in the given order
func NewWithPasses(diag *utils.DiagnosticSystem, passes ...Pass) *Postprocessor {
	return &Postprocessor{passes: passes, diag: diag}
}

// Process runs every pass, then marks safe TypedDicts. The first failing
// pass aborts processing of the package.
func (p *Postprocessor) Process(pkg *structures.ServicePackage) error {
	for _, pass := range p.passes {
		p.diag.Debug("Running %s on %s", pass.Name(), pkg.PyPIName)
		if err := pass.Run(pkg); err != nil {
			return errors.Wrapf(err, "%s failed for %s", pass.Name(), pkg.PyPIName)
		}
		pkg.RefreshDeclarations()
	}
	parser.MarkSafeTypedDicts(pkg)
	return nil
}
