package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/generators"
)

// Reporter prints failures and run summaries for humans
type Reporter struct {
	out     io.Writer
	verbose bool
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer, verbose bool) *Reporter {
	return &Reporter{out: out, verbose: verbose}
}

// ReportError prints err with its type, location, context and hints
func (r *Reporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Generation Failed\n")
	fmt.Fprintf(r.out, "========================\n\n")

	var stubErr errors.StubError
	if !errors.As(err, &stubErr) {
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
		r.printSuggestions(errors.GetAllHints(err))
		return
	}

	r.printErrorHeader(stubErr.ErrorCode())
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	var validationErr *errors.ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Line > 0 {
			fmt.Fprintf(r.out, "Location: %s:%d\n\n", validationErr.File, validationErr.Line)
		} else {
			fmt.Fprintf(r.out, "File: %s\n\n", validationErr.File)
		}
	}

	if context := stubErr.Context(); len(context) > 0 {
		r.printContext(context)
	}

	hints := append(append([]string{}, stubErr.Suggestions()...), errors.GetAllHints(err)...)
	r.printSuggestions(hints)

	var subprocessErr *errors.SubprocessError
	if r.verbose && errors.As(err, &subprocessErr) {
		fmt.Fprintf(r.out, "Command output:\n")
		for _, line := range subprocessErr.OutputLines() {
			fmt.Fprintf(r.out, "   %s\n", line)
		}
		fmt.Fprintf(r.out, "\n")
	}

	if r.verbose {
		r.printErrorChain(err)
	}
}

func (r *Reporter) printErrorHeader(code errors.ErrorCode) {
	var title string
	switch code {
	case errors.TypeAnnotationErrorCode:
		title = "Type Annotation Error"
	case errors.ModelErrorCode:
		title = "Service Model Error"
	case errors.TemplateErrorCode:
		title = "Template Error"
	case errors.FileSystemErrorCode:
		title = "File System Error"
	case errors.ValidationErrorCode:
		title = "Syntax Validation Error"
	case errors.ConfigurationErrorCode:
		title = "Configuration Error"
	case errors.SubprocessErrorCode:
		title = "Build Error"
	case errors.NetworkErrorCode:
		title = "Network Error"
	default:
		title = "Unknown Error"
	}

	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))
}

// printContext prints well-known keys first, then the rest sorted
func (r *Reporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	importantKeys := []string{"service", "shape", "annotation", "key", "operation", "path"}
	printed := make(map[string]bool)
	for _, key := range importantKeys {
		if value, ok := context[key]; ok {
			fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), value)
			printed[key] = true
		}
	}

	rest := make([]string, 0, len(context))
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

func formatContextKey(key string) string {
	switch key {
	case "url":
		return "URL"
	case "key":
		return "Config Key"
	default:
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

func (r *Reporter) printSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}
	fmt.Fprintf(r.out, "\n")
}

func (r *Reporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "Error chain:\n")
	level := 1
	for err != nil {
		fmt.Fprintf(r.out, "   %d. %s\n", level, err.Error())
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
		level++
	}
	fmt.Fprintf(r.out, "\n")
}

// ReportWarning prints a one-line warning
func (r *Reporter) ReportWarning(message string) {
	warn := color.New(color.FgYellow, color.Bold)
	warn.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// SummaryStats orders the figures shown after a run
func SummaryStats(summary *generators.Summary) ([]string, map[string]interface{}) {
	keys := []string{"Packages generated", "Packages skipped", "Distributions built", "Duration"}
	return keys, map[string]interface{}{
		"Packages generated":  len(summary.Generated),
		"Packages skipped":    len(summary.Skipped),
		"Distributions built": len(summary.Built),
		"Duration":            summary.Duration.Round(1e6).String(),
	}
}
