// Package templates renders the embedded stub templates. An Engine is
// created once per run and passed to everything that renders text.
package templates

import (
	"bytes"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/toyz/pystubgen/internal/errors"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
	"github.com/toyz/pystubgen/internal/utils"
)

//go:embed all:files
var embedded embed.FS

// TemplateSuffix marks template files; it is dropped from output names
const TemplateSuffix = ".tmpl"

const partialsGlob = "partials/*.tmpl"

// Engine resolves templates by path relative to the template root and
// keeps parsed templates for the lifetime of the run.
type Engine struct {
	fsys   fs.FS
	funcs  template.FuncMap
	parsed *utils.Cache[string, *template.Template]
}

// NewEngine creates an engine over the embedded template set
func NewEngine() *Engine {
	root, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(err)
	}
	return NewEngineFS(root)
}

// NewEngineFS creates an engine over an arbitrary template tree
func NewEngineFS(fsys fs.FS) *Engine {
	e := &Engine{
		fsys:   fsys,
		parsed: utils.NewCache[string, *template.Template](),
	}
	e.funcs = template.FuncMap{
		"join":       strings.Join,
		"quote":      strconv.Quote,
		"indent":     indent,
		"definition": e.definition,
	}
	return e
}

// Render executes templateName with data
func (e *Engine) Render(templateName string, data map[string]any) (string, error) {
	tmpl, err := e.parsed.GetOrCompute(templateName, func() (*template.Template, error) {
		return e.parse(templateName)
	})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, templateName, data); err != nil {
		return "", errors.NewTemplateError(templateName, "execute", err)
	}
	return buf.String(), nil
}

// List returns the template names under dir, sorted
func (e *Engine) List(dir string) ([]string, error) {
	var names []string
	err := fs.WalkDir(e.fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, TemplateSuffix) {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewTemplateError(dir, "lookup", err)
	}
	sort.Strings(names)
	return names, nil
}

// OutputName strips the template directory and suffix:
// "service/client.pyi.tmpl" gives "client.pyi"
func OutputName(templateName, dir string) string {
	name := strings.TrimPrefix(templateName, strings.TrimSuffix(dir, "/")+"/")
	return strings.TrimSuffix(name, TemplateSuffix)
}

func (e *Engine) parse(templateName string) (*template.Template, error) {
	content, err := fs.ReadFile(e.fsys, templateName)
	if err != nil {
		return nil, errors.NewTemplateError(templateName, "lookup", err)
	}

	tmpl := template.New(path.Base(templateName)).Funcs(e.funcs).Option("missingkey=error")
	partials, err := fs.Glob(e.fsys, partialsGlob)
	if err != nil {
		return nil, errors.NewTemplateError(templateName, "lookup", err)
	}
	if len(partials) > 0 {
		if tmpl, err = tmpl.ParseFS(e.fsys, partials...); err != nil {
			return nil, errors.NewTemplateError(templateName, "parse", err)
		}
	}
	if _, err := tmpl.New(templateName).Parse(string(content)); err != nil {
		return nil, errors.NewTemplateError(templateName, "parse", err)
	}
	return tmpl, nil
}

// definition renders the standalone declaration of an annotation
func (e *Engine) definition(annotation ta.FakeAnnotation) (string, error) {
	rendered, err := annotation.RenderDefinition(e)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n"), nil
}

// indent prefixes every non-empty line with n spaces
func indent(n int, s string) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
