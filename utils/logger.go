package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	clog "github.com/charmbracelet/log"
)

// LogLevel enumerates severity tiers.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l LogLevel) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

func (l LogLevel) clogLevel() clog.Level {
	switch l {
	case DEBUG:
		return clog.DebugLevel
	case WARN:
		return clog.WarnLevel
	case ERROR:
		return clog.ErrorLevel
	case FATAL:
		return clog.FatalLevel
	default:
		return clog.InfoLevel
	}
}

// ParseLogLevel maps a flag value such as "debug" or "warn" to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "info", "":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	case "fatal":
		return FATAL, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

// Logger is the levelled logger used across the recorder. Output goes to
// stdout and, optionally, to a log file.
type Logger struct {
	mu    sync.Mutex
	inner *clog.Logger
	file  *os.File
}

var (
	globalLogger *Logger
	logOnce      sync.Once
)

// InitLogger creates the singleton logger. Call once at startup.
func InitLogger(minLevel LogLevel, logFilePath string) *Logger {
	logOnce.Do(func() {
		var writers []io.Writer
		writers = append(writers, os.Stdout)

		var f *os.File
		if logFilePath != "" {
			var err error
			f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				writers = append(writers, f)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not open log file %s: %v\n", logFilePath, err)
			}
		}

		globalLogger = &Logger{
			inner: clog.NewWithOptions(io.MultiWriter(writers...), clog.Options{
				ReportTimestamp: true,
				TimeFormat:      "2006-01-02 15:04:05.000",
				Level:           minLevel.clogLevel(),
			}),
			file: f,
		}
	})
	return globalLogger
}

// L returns the global logger, initialising a stdout-only DEBUG logger if
// InitLogger has not been called. Going through the Once keeps concurrent
// first calls race-free.
func L() *Logger {
	return InitLogger(DEBUG, "")
}

// Close closes the log file, if any.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

func (l *Logger) Debug(f string, a ...any) { l.inner.Debugf(f, a...) }
func (l *Logger) Info(f string, a ...any)  { l.inner.Infof(f, a...) }
func (l *Logger) Warn(f string, a ...any)  { l.inner.Warnf(f, a...) }
func (l *Logger) Error(f string, a ...any) { l.inner.Errorf(f, a...) }

// Fatal logs and exits with status 1.
func (l *Logger) Fatal(f string, a ...any) { l.inner.Fatalf(f, a...) }
