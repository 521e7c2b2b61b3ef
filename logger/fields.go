package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across ciprobe.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID = "run_id"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"

	// Repositories
	FieldRepo      = "repo"
	FieldRepoShort = "repo_short"
	FieldLocalPath = "local_path"
	FieldBranch    = "branch"
	FieldRemote    = "remote"

	// Tasks
	FieldTask          = "task"
	FieldVersion       = "version"
	FieldValidVersions = "valid_versions"
	FieldState         = "state"

	// Files
	FieldFile    = "file"
	FieldPattern = "pattern"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount      = "count"
	FieldTotalCount = "total_count"
	FieldWorkers    = "workers"
)

// Context keys for propagating logging context
type contextKey string

const (
	runIDKey     contextKey = "logger_run_id"
	repoKey      contextKey = "logger_repo"
	componentKey contextKey = "logger_component"
)

// WithRunID adds a run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithRepo adds the repository being processed to the context for logging
func WithRepo(ctx context.Context, repo string) context.Context {
	return context.WithValue(ctx, repoKey, repo)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if repo, ok := ctx.Value(repoKey).(string); ok && repo != "" {
		fields = append(fields, FieldRepo, repo)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// FromContext returns base with fields extracted from ctx attached.
// A nil base falls back to the global Logger.
func FromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	analyzer := probe.NewAnalyzer(reg, provider, finder, fs, probe.Options{
//	    Logger: logger.ComponentLogger("probe"),
//	})
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// OrNop returns l, or a no-op logger when l is nil.
// Constructors use it so callers may pass nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
