package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// ParseDiagnosticLevel maps a config string to a level, defaulting to info
func ParseDiagnosticLevel(s string) DiagnosticLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "quiet":
		return DiagnosticSilent
	case "error":
		return DiagnosticError
	case "warn", "warning":
		return DiagnosticWarn
	case "verbose":
		return DiagnosticVerbose
	case "debug":
		return DiagnosticDebug
	default:
		return DiagnosticInfo
	}
}

// DiagnosticSystem provides structured, user-friendly output
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
	sink      *zap.SugaredLogger
	fields    []interface{}
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
		indent:    0,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// NewBufferedDiagnostics writes everything to w without colors or timestamps
func NewBufferedDiagnostics(level DiagnosticLevel, w io.Writer) *DiagnosticSystem {
	d := NewDiagnosticSystem(level)
	d.useColors = false
	d.showTime = false
	d.output = w
	d.errorOut = w
	return d
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// AttachLogFile mirrors every message as JSON into path.
// The returned func flushes and closes the sink.
func (d *DiagnosticSystem) AttachLogFile(path string, fields ...interface{}) (func(), error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return func() {}, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	d.sink = logger.Sugar().With(fields...)
	return func() {
		_ = d.sink.Sync()
		d.sink = nil
	}, nil
}

// With returns a copy that tags sink records with extra key/value pairs
func (d *DiagnosticSystem) With(fields ...interface{}) *DiagnosticSystem {
	clone := *d
	clone.fields = append(append([]interface{}{}, d.fields...), fields...)
	return &clone
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	d.record(zapcore.ErrorLevel, format, args...)
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	d.record(zapcore.WarnLevel, format, args...)
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	d.record(zapcore.InfoLevel, format, args...)
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", color.FgBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	d.record(zapcore.InfoLevel, format, args...)
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "SUCCESS", color.FgGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	d.record(zapcore.DebugLevel, format, args...)
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	d.record(zapcore.DebugLevel, format, args...)
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, "DEBUG", color.FgMagenta, format, args...)
	}
}

// Progress shows a numbered step, e.g. "[03/12] Generating mypy-boto3-ec2"
func (d *DiagnosticSystem) Progress(index, total int, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	d.Info("%s %s", ProgressString(index, total), message)
}

// Section creates a prominent section header
func (d *DiagnosticSystem) Section(title string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "%s\n", d.paint(color.FgCyan, title))
	}
}

// Subsection creates a subsection header
func (d *DiagnosticSystem) Subsection(title string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "\n%s:\n", title)
	}
}

// List outputs a bulleted list item
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		message := fmt.Sprintf(format, args...)
		fmt.Fprintf(d.output, "%s- %s\n", d.getIndent(), message)
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Summary outputs a final summary with statistics in the given key order
func (d *DiagnosticSystem) Summary(title string, keys []string, stats map[string]interface{}) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "\n%s\n", d.paint(color.FgGreen, title))
		for _, key := range keys {
			fmt.Fprintf(d.output, "   %s: %v\n", key, stats[key])
		}
		fmt.Fprintln(d.output)
	}
}

func (d *DiagnosticSystem) record(level zapcore.Level, format string, args ...interface{}) {
	if d.sink == nil {
		return
	}
	message := fmt.Sprintf(format, args...)
	switch level {
	case zapcore.ErrorLevel:
		d.sink.Errorw(message, d.fields...)
	case zapcore.WarnLevel:
		d.sink.Warnw(message, d.fields...)
	case zapcore.InfoLevel:
		d.sink.Infow(message, d.fields...)
	default:
		d.sink.Debugw(message, d.fields...)
	}
}

// writeMessage is the internal message writing function
func (d *DiagnosticSystem) writeMessage(writer io.Writer, level string, attr color.Attribute, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	var output strings.Builder
	output.WriteString(d.getIndent())

	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	output.WriteString(d.paint(attr, "["+level+"]"))
	output.WriteString(" ")
	output.WriteString(message)
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

func (d *DiagnosticSystem) paint(attr color.Attribute, s string) string {
	if !d.useColors {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// getIndent returns the current indentation string
func (d *DiagnosticSystem) getIndent() string {
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	return !color.NoColor
}
