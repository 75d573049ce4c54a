package errors

import (
	stderrors "errors"

	crdb "github.com/cockroachdb/errors"
)

// Wrapping helpers from cockroachdb/errors, used by pipeline code so call
// sites import a single errors package.
var (
	Errorf    = crdb.Errorf
	Wrapf     = crdb.Wrapf
	WithHint  = crdb.WithHint
	WithHintf = crdb.WithHintf

	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Inspection goes through the standard library so custom Is methods and
// multi-error unwrapping are honoured.
var (
	Is = stderrors.Is
	As = stderrors.As
)
