package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// Flag to track if JSON output is enabled
	JSONOutput bool
)

func init() {
	// Safe no-op logger so packages can log before Initialize() runs (tests, library use)
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger.
// jsonOutput selects zap's production JSON encoding; otherwise a compact console
// encoder is used. verbosity is the -v flag count (see VerbosityToLevel).
// Log lines go to stderr so stdout stays free for reports.
func Initialize(jsonOutput bool, verbosity int) error {
	JSONOutput = jsonOutput
	level := VerbosityToLevel(verbosity)

	var zapLogger *zap.Logger
	var err error

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		zapLogger, err = config.Build()
	} else {
		zapLogger = zap.New(
			zapcore.NewCore(
				newConsoleEncoder(colorEnabled()),
				zapcore.AddSync(os.Stderr),
				level,
			),
		)
	}

	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// InitializeFromEnvironment picks the output format from the environment:
// JSON inside a CI pipeline (where logs are collected by the agent), console
// otherwise. CIPROBE_LOG_FORMAT=json|console overrides detection.
func InitializeFromEnvironment(verbosity int) error {
	switch strings.ToLower(os.Getenv("CIPROBE_LOG_FORMAT")) {
	case "json":
		return Initialize(true, verbosity)
	case "console":
		return Initialize(false, verbosity)
	}
	return Initialize(isCIEnvironment(), verbosity)
}

// isCIEnvironment reports whether we are running inside a CI agent.
func isCIEnvironment() bool {
	// Azure Pipelines
	if os.Getenv("TF_BUILD") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" || os.Getenv("GITLAB_CI") == "true" {
		return true
	}
	if ci := strings.ToLower(os.Getenv("CI")); ci == "true" || ci == "1" {
		return true
	}
	return false
}

// colorEnabled honours the NO_COLOR convention and disables color when stderr
// is not a terminal.
func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, keysAndValues...)
	}
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, keysAndValues...)
	}
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Errorw(msg, keysAndValues...)
	}
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, keysAndValues...)
	}
}
