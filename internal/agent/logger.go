package agent

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ANSI escape sequences used when color output is enabled.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

// Logger provides leveled, optionally colored logging for the agent
// client. Debug output is gated on the verbose flag and full HTTP
// request/response payload logging is gated on the trace flag.
type Logger struct {
	mu        sync.Mutex
	verbose   bool
	useColor  bool
	traceMode bool
	writer    io.Writer
}

// NewLogger creates a logger writing to stdout.
func NewLogger(verbose, useColor, trace bool) *Logger {
	return NewLoggerWithWriter(verbose, useColor, trace, os.Stdout)
}

// NewLoggerWithWriter creates a logger writing to the given writer.
// Used by tests to capture output.
func NewLoggerWithWriter(verbose, useColor, trace bool, writer io.Writer) *Logger {
	return &Logger{
		verbose:   verbose,
		useColor:  useColor,
		traceMode: trace,
		writer:    writer,
	}
}

// SetVerbose toggles verbose output at runtime.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

// SetWriter redirects subsequent output to the given writer.
func (l *Logger) SetWriter(writer io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = writer
}

func (l *Logger) log(color, prefix, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	if l.useColor && color != "" {
		fmt.Fprintf(l.writer, "%s%s%s %s\n", color, prefix, ansiReset, message)
		return
	}
	fmt.Fprintf(l.writer, "%s %s\n", prefix, message)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(ansiCyan, "[INFO]", format, args...)
}

// InfoVerbose logs an informational message only in verbose mode.
// Safe to call on a nil logger.
func (l *Logger) InfoVerbose(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	l.Info(format, args...)
}

// Warning logs a warning message.
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(ansiYellow, "[WARN]", format, args...)
}

// WarningVerbose logs a warning message only in verbose mode.
// Safe to call on a nil logger.
func (l *Logger) WarningVerbose(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	l.Warning(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ansiRed, "[ERROR]", format, args...)
}

// Success logs a success message.
func (l *Logger) Success(format string, args ...interface{}) {
	l.log(ansiGreen, "[OK]", format, args...)
}

// Debug logs a debug message when verbose mode is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.log(ansiGray, "[DEBUG]", format, args...)
}

// Request logs an outbound HTTP request. The payload is pretty-printed
// only in trace mode.
func (l *Logger) Request(method, url string, payload interface{}) {
	if !l.traceMode {
		l.Debug("--> %s %s", method, url)
		return
	}
	l.log(ansiGray, "[HTTP]", "--> %s %s\n%s", method, url, PrettyJSON(payload))
}

// Response logs an inbound HTTP response. The body is pretty-printed
// only in trace mode.
func (l *Logger) Response(method, url string, body interface{}) {
	if !l.traceMode {
		l.Debug("<-- %s %s", method, url)
		return
	}
	l.log(ansiGray, "[HTTP]", "<-- %s %s\n%s", method, url, PrettyJSON(body))
}
