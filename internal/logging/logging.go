package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger appends timestamped lines to a log file next to the storage file.
// Recoverable failures (snapshot parse errors, oracle call failures) are
// logged here instead of being surfaced to the user. A nil Logger is safe
// to call and discards everything.
type Logger struct {
	file *os.File
}

// New creates (or reuses) the log file in the directory holding the
// storage file.
func New(storagePath string) (*Logger, error) {
	dir := filepath.Dir(storagePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("logging: ensure config dir: %w", err)
	}
	path := filepath.Join(dir, "vaiga.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f}, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	timestamp := time.Now().Format(time.RFC3339)
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, line)
}
