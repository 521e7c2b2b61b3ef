package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func encode(t *testing.T, enc zapcore.Encoder, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(ent, fields)
	require.NoError(t, err)
	defer buf.Free()
	return buf.String()
}

// The console encoder must never silently discard fields.
func TestConsoleEncoderNeverDiscardsFields(t *testing.T) {
	enc := newConsoleEncoder(false)
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2025, 3, 1, 13, 4, 35, 0, time.UTC),
		LoggerName: "probe",
		Message:    "Repository analyzed",
	}

	out := encode(t, enc, entry,
		zap.String(FieldRepo, "https://example.com/org/_git/service"),
		zap.Int(FieldCount, 3),
		zap.Bool("skipped", false),
		zap.Float64("ratio", 0.5),
		zap.Strings(FieldValidVersions, []string{"2", "3"}),
		zap.String("message", "with spaces"),
		zap.Error(errors.New("boom")),
	)

	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "probe")
	assert.Contains(t, out, "Repository analyzed")
	assert.Contains(t, out, "repo=https://example.com/org/_git/service")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "skipped=false")
	assert.Contains(t, out, "ratio=0.5")
	assert.Contains(t, out, "valid_versions=[2,3]")
	assert.Contains(t, out, `message="with spaces"`)
	assert.Contains(t, out, "error=boom")
	assert.NotContains(t, out, "\x1b[")
	assert.NotContains(t, out, "INFO")
}

func TestConsoleEncoderKeepsContextFields(t *testing.T) {
	// zapcore.Core.With() adds fields to a clone of the encoder
	base := newConsoleEncoder(false)
	base.AddString(FieldRunID, "abc")
	clone := base.Clone()

	out := encode(t, clone, zapcore.Entry{Level: zapcore.WarnLevel, Time: time.Now(), Message: "skipped"},
		zap.String(FieldRepo, "r1"))
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "run_id=abc")
	assert.Contains(t, out, "repo=r1")
}

func TestConsoleEncoderColor(t *testing.T) {
	enc := newConsoleEncoder(true)
	out := encode(t, enc, zapcore.Entry{Level: zapcore.ErrorLevel, Time: time.Now(), Message: "failed"})
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "ERROR")
}
