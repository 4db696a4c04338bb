package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// logFilePrefix and logFileSuffix bound which files in a log directory
// belong to stratoctl and are subject to retention cleanup.
const (
	logFilePrefix = "stratoctl-"
	logFileSuffix = ".log"
)

// LogConfig holds configuration for structured log output.
type LogConfig struct {
	Format        string // "json" (default) or "human"
	Level         string // "DEBUG", "INFO" (default), "WARN", "ERROR"
	Output        string // Path, "-" for stderr, "none" to disable
	Dir           string // Log directory (default: $STRATO_DIR/logs)
	RetentionDays int    // Days to retain log files (default: 7)
}

// LogFile is an opened log destination. Path is empty when output goes to
// stderr or is disabled.
type LogFile struct {
	Path   string
	file   *os.File
	writer io.Writer
}

// NewLogFile opens the destination selected by cfg.Output:
//
//	"none"  discard all output
//	"-"     write to stderr
//	""      auto-generated file under cfg.Dir
//	path    the given file, relative paths resolved against cfg.Dir
func NewLogFile(cfg *LogConfig) (*LogFile, error) {
	switch strings.ToLower(cfg.Output) {
	case "none":
		return &LogFile{writer: io.Discard}, nil
	case "-":
		return &LogFile{writer: os.Stderr}, nil
	}

	path := cfg.Output
	if path == "" {
		path = GenerateLogFilename(time.Now().UTC())
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Dir, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}
	return &LogFile{Path: path, file: f, writer: f}, nil
}

// Writer returns the io.Writer for log output.
func (lf *LogFile) Writer() io.Writer {
	return lf.writer
}

// Close closes the log file if one was opened.
func (lf *LogFile) Close() error {
	if lf.file != nil {
		return lf.file.Close()
	}
	return nil
}

// GenerateLogFilename returns the auto-generated name for a run started at
// t: stratoctl-YYYYMMDD-HHMMSS-sss.log, where sss is milliseconds.
func GenerateLogFilename(t time.Time) string {
	return fmt.Sprintf("%s%s-%03d%s",
		logFilePrefix, t.Format("20060102-150405"),
		t.Nanosecond()/int(time.Millisecond), logFileSuffix)
}

// CleanupOldLogFiles deletes stratoctl log files in dir whose modification
// time is more than retentionDays old. retentionDays <= 0 disables cleanup,
// and files that are not stratoctl logs are never touched.
func CleanupOldLogFiles(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
	return nil
}
