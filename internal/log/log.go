//nolint:revive // Package name kept as "log" for stable internal imports.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	mu        sync.Mutex
	debugMode = false
	stdout    io.Writer = os.Stdout
	stderr    io.Writer = os.Stderr
)

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugMode = enabled
}

// SetOutput redirects informational and error output. A nil writer keeps the current one.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// ResetOutput restores stdout/stderr as log destinations
func ResetOutput() {
	SetOutput(os.Stdout, os.Stderr)
}

func emit(w func() io.Writer, prefix, format string, elem ...any) {
	line := prefix + fmt.Sprintf(format, elem...)
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(w(), line)
}

func out() io.Writer    { return stdout }
func errOut() io.Writer { return stderr }

func debugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debugMode
}

// Debug logs debug messages when debug mode is enabled
func Debug(format string, elem ...any) {
	if debugEnabled() {
		emit(out, color.CyanString("[DEBUG] "), format, elem...)
	}
}

// DebugH2 logs indented debug messages when debug mode is enabled
func DebugH2(format string, elem ...any) {
	if debugEnabled() {
		emit(out, color.CyanString("  [DEBUG] "), format, elem...)
	}
}

// DebugH3 logs more indented debug messages when debug mode is enabled
func DebugH3(format string, elem ...any) {
	if debugEnabled() {
		emit(out, color.CyanString("    [DEBUG] "), format, elem...)
	}
}

// Fatal logs an error message and exits the program
func Fatal(args ...interface{}) {
	var message string

	switch len(args) {
	case 0:
		message = "fatal error occurred"
	case 1:
		switch v := args[0].(type) {
		case error:
			message = v.Error()
		case string:
			message = v
		default:
			message = fmt.Sprintf("%v", v)
		}
	default:
		if format, ok := args[0].(string); ok && strings.Contains(format, "%") {
			message = fmt.Sprintf(format, args[1:]...)
		} else {
			message = fmt.Sprint(args...)
		}
	}

	for _, line := range strings.Split(strings.TrimSpace(message), "\n") {
		emit(errOut, color.RedString("[x] "), "%s", line)
	}
	os.Exit(1)
}

// Error logs an error message to stderr
func Error(format string, elem ...any) {
	emit(errOut, color.RedString("[x] "), format, elem...)
}

// ErrorH2 logs an indented error message to stderr
func ErrorH2(format string, elem ...any) {
	emit(errOut, color.RedString("  [x] "), format, elem...)
}

// Warn logs a warning that does not stop the current operation
func Warn(format string, elem ...any) {
	emit(errOut, color.YellowString("[!] "), format, elem...)
}

// Info logs an informational message
func Info(format string, elem ...any) {
	emit(out, color.BlueString("[x] "), format, elem...)
}

// InfoH2 logs an indented informational message
func InfoH2(format string, elem ...any) {
	emit(out, color.GreenString("  [x] "), format, elem...)
}

// InfoH3 logs a double-indented informational message
func InfoH3(format string, elem ...any) {
	emit(out, color.YellowString("    [x] "), format, elem...)
}

// Roast prints a verdict line with a severity-dependent color
func Roast(severity, filePath, message string) {
	var paint func(format string, a ...interface{}) string
	switch severity {
	case "high":
		paint = color.New(color.FgRed, color.Bold).SprintfFunc()
	case "medium":
		paint = color.New(color.FgYellow).SprintfFunc()
	default:
		paint = color.New(color.FgWhite).SprintfFunc()
	}
	emit(out, color.MagentaString("📎 "), "%s %s", paint("[%s] %s", strings.ToUpper(severity), filePath), message)
}
