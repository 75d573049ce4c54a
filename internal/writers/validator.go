package writers

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/toyz/pystubgen/internal/errors"
)

// SyntaxValidator parses rendered stubs with the tree-sitter Python grammar
type SyntaxValidator struct {
	parser *sitter.Parser
}

// NewSyntaxValidator creates a validator. It is not safe for concurrent use.
func NewSyntaxValidator() *SyntaxValidator {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &SyntaxValidator{parser: parser}
}

// Validate returns a ValidationError pointing at the first syntax error
func (v *SyntaxValidator) Validate(ctx context.Context, file string, content []byte) error {
	tree, err := v.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return errors.Wrapf(err, "parse %s", file)
	}

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	node := firstErrorNode(root)
	if node == nil {
		return errors.NewValidationError(file, 0, "invalid syntax")
	}
	line := int(node.StartPoint().Row) + 1
	if node.IsMissing() {
		return errors.NewValidationError(file, line, fmt.Sprintf("missing %s", node.Type()))
	}
	return errors.NewValidationError(file, line, fmt.Sprintf("invalid syntax near %q", snippet(node.Content(content))))
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func snippet(s string) string {
	const limit = 40
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
