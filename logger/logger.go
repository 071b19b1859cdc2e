// Package logger provides leveled package-level logging over the standard
// log package, with an optional file sink for the application log.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

var (
	mu sync.RWMutex

	AppLogger   = log.New(os.Stdout, "APP: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)

	logLevel = LevelInfo
	logFile  *os.File
)

// Init configures the level and, when logPath is set, tees the application
// log into that file. It may be called again to reconfigure.
func Init(logPath, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	level = strings.ToUpper(strings.TrimSpace(level))
	if _, ok := levelRank[level]; !ok {
		level = LevelInfo
	}
	logLevel = level

	var appWriter io.Writer = os.Stdout
	var errWriter io.Writer = os.Stderr
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0750); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		logFile = f
		appWriter = io.MultiWriter(os.Stdout, f)
		errWriter = io.MultiWriter(os.Stderr, f)
	}

	AppLogger = log.New(appWriter, "APP: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(errWriter, "ERROR: ", log.Ldate|log.Ltime)
	return nil
}

// SetOutput redirects both loggers, mainly for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	AppLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
}

// Level returns the active level
func Level() string {
	mu.RLock()
	defer mu.RUnlock()
	return logLevel
}

func enabled(level string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return levelRank[level] >= levelRank[logLevel]
}

func Debug(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		AppLogger.Printf("[DEBUG] "+format, v...)
	}
}

func Info(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		AppLogger.Printf(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if enabled(LevelWarn) {
		AppLogger.Printf("Warning: "+format, v...)
	}
}

func Error(format string, v ...interface{}) {
	ErrorLogger.Print(fmt.Sprintf(format, v...))
}

func Fatal(format string, v ...interface{}) {
	ErrorLogger.Fatal(fmt.Sprintf(format, v...))
}

// Close flushes and closes the log file, if any
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
