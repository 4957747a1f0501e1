package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habitual/internal/constants"
)

// Logger is the global logger instance. It stays nil until Init is called,
// and every helper below is a no-op in that state.
var Logger *log.Logger

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Level overrides the default level ("debug", "info", "warn", "error").
	Level string
	// Stderr receives a copy of every record in debug mode. Defaults to os.Stderr.
	Stderr io.Writer
}

// Path returns the log file location for a config directory
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	logFile := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		level = parsed
	}

	// stderr stays quiet unless debugging so CLI output is not interleaved with log lines
	var writer io.Writer = fileWriter
	if cfg.Debug {
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writer = io.MultiWriter(stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	return nil
}

// With returns a child logger carrying the given key/value pairs, or nil before Init
func With(keyvals ...any) *log.Logger {
	if Logger == nil {
		return nil
	}
	return Logger.With(keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
