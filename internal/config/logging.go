package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel orders log verbosity; a message is kept when its level is at or
// below the logger's.
type LogLevel int

// Log levels, least verbose first.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// logLevelNames is indexed by LogLevel.
//
//nolint:gochecknoglobals // read-only lookup table
var logLevelNames = [...]string{"off", "error", "info", "debug"}

// logTimeLayout prefixes every log line.
const logTimeLayout = "2006-01-02 15:04:05.000"

// ParseLogLevel reads a level name case-insensitively. "none" is an alias
// for off; unknown names fall back to error.
func ParseLogLevel(s string) LogLevel {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		return LogLevelOff
	}
	for i, name := range logLevelNames {
		if s == name {
			return LogLevel(i)
		}
	}
	return LogLevelError
}

func (l LogLevel) String() string {
	if l < LogLevelOff || int(l) >= len(logLevelNames) {
		return logLevelNames[LogLevelError]
	}
	return logLevelNames[l]
}

// Logger writes timestamped, leveled lines to an optional log file and an
// optional mirror such as stderr. It is safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	level    LogLevel
	file     *os.File
	filePath string
	mirror   io.Writer
}

// NewLogger returns a Logger at level. Unless level is off or filePath is
// empty, filePath is opened for append with mode 0600 and its directory is
// created; a leading ~/ means the user's home.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	l := &Logger{level: level, filePath: filePath}
	if level == LogLevelOff || filePath == "" {
		return l, nil
	}

	resolved, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(filepath.Dir(resolved), 0o750); err != nil {
		return nil, err
	}
	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(resolved, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	l.file, l.filePath = f, resolved
	return l, nil
}

func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, rest), nil
}

// NullLogger returns a Logger that drops everything until a level and a
// mirror are set.
func NullLogger() *Logger {
	return &Logger{level: LogLevelOff}
}

// Close releases the log file. Closing twice is harmless.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	f := l.file
	l.file = nil
	if f == nil {
		return nil
	}
	return f.Close()
}

// SetLevel changes the threshold for later messages.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level is the current threshold.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetMirror copies every kept line to w as well; nil stops mirroring.
func (l *Logger) SetMirror(w io.Writer) {
	l.mu.Lock()
	l.mirror = w
	l.mu.Unlock()
}

// Path is the resolved log file path, or the configured one when no file
// was opened.
func (l *Logger) Path() string {
	return l.filePath
}

// Debug logs search progress and other diagnostics.
func (l *Logger) Debug(format string, args ...any) { l.log(LogLevelDebug, format, args...) }

// Info logs lifecycle events.
func (l *Logger) Info(format string, args ...any) { l.log(LogLevelInfo, format, args...) }

// Error logs failures.
func (l *Logger) Error(format string, args ...any) { l.log(LogLevelError, format, args...) }

// Writer adapts the logger to io.Writer; each Write becomes one trimmed line
// at level.
func (l *Logger) Writer(level LogLevel) io.Writer {
	return levelWriter{l: l, level: level}
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level || l.level == LogLevelOff {
		return
	}
	sinks := make([]io.Writer, 0, 2)
	if l.file != nil {
		sinks = append(sinks, l.file)
	}
	if l.mirror != nil {
		sinks = append(sinks, l.mirror)
	}
	if len(sinks) == 0 {
		return
	}

	line := time.Now().Format(logTimeLayout) + " [" + strings.ToUpper(level.String()) + "] " +
		fmt.Sprintf(format, args...) + "\n"
	for _, w := range sinks {
		_, _ = io.WriteString(w, line)
	}
}

type levelWriter struct {
	l     *Logger
	level LogLevel
}

func (w levelWriter) Write(p []byte) (int, error) {
	w.l.log(w.level, "%s", strings.TrimSpace(string(p)))
	return len(p), nil
}
