package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	firstCapRe = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCapRe   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ToSnakeCase converts an operation name like "DescribeDBInstances" to
// "describe_db_instances".
func ToSnakeCase(name string) string {
	s := firstCapRe.ReplaceAllString(name, "${1}_${2}")
	s = allCapRe.ReplaceAllString(s, "${1}_${2}")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	return strings.ToLower(s)
}

// ToClassName converts "api-gateway" or "api_gateway" to "ApiGateway"
func ToClassName(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	}) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// IsPythonKeyword reports whether s is a reserved word
func IsPythonKeyword(s string) bool {
	return pythonKeywords[s]
}

// IsPythonIdentifier reports whether s can be used as a bare name
func IsPythonIdentifier(s string) bool {
	if s == "" || IsPythonKeyword(s) {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// ProgressString renders "[03/12]" with the counter padded to the total width
func ProgressString(index, total int) string {
	totalStr := strconv.Itoa(total)
	return fmt.Sprintf("[%0*d/%s]", len(totalStr), index, totalStr)
}

// PrintPath renders path relative to the working directory when possible
func PrintPath(path string) string {
	if !filepath.IsAbs(path) {
		if !strings.Contains(filepath.ToSlash(path), "/") {
			return "./" + filepath.ToSlash(path)
		}
		return filepath.ToSlash(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	if !strings.Contains(filepath.ToSlash(rel), "/") {
		return "./" + filepath.ToSlash(rel)
	}
	return filepath.ToSlash(rel)
}
