package postprocessors

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/toyz/pystubgen/internal/structures"
)

const docstringWidth = 72

// tags that separate words; inline tags such as <code> do not
var blockTags = map[string]struct{}{
	"p": {}, "br": {}, "li": {}, "ul": {}, "ol": {}, "div": {},
	"dt": {}, "dd": {}, "dl": {}, "note": {}, "important": {},
}

// GenerateDocstrings turns model documentation into plain-text docstrings
type GenerateDocstrings struct{}

func (GenerateDocstrings) Name() string { return "generate_docstrings" }

func (GenerateDocstrings) Run(pkg *structures.ServicePackage) error {
	pkg.Client.Docstring = Wrap(DocstringText(pkg.Client.Docstring), docstringWidth)
	for _, method := range pkg.Methods() {
		method.Docstring = Wrap(DocstringText(method.Docstring), docstringWidth)
	}
	for _, td := range pkg.TypedDicts() {
		td.Docstring = FirstSentence(DocstringText(td.Docstring))
	}
	return nil
}

// DocstringText strips HTML, collapses whitespace and escapes quotes so the
// text can sit inside a triple-quoted string.
func DocstringText(doc string) string {
	if doc == "" {
		return ""
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return escapeDocstring(strings.Join(strings.Fields(b.String()), " "))
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if _, ok := blockTags[string(name)]; ok {
				b.WriteString(" ")
			}
		}
	}
}

// FirstSentence keeps text up to the first full stop followed by a space
func FirstSentence(text string) string {
	if index := strings.Index(text, ". "); index >= 0 {
		return text[:index+1]
	}
	return text
}

// Wrap breaks text into lines of at most width characters. Words longer
// than width stay on their own line.
func Wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return strings.Join(append(lines, line), "\n")
}

func escapeDocstring(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
