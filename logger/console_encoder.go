package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset  = "\x1b[0m"
	colorBold   = "\x1b[1m"
	colorTime   = "\x1b[38;5;108m" // muted green
	colorName   = "\x1b[38;5;208m" // warm orange
	colorKey    = "\x1b[38;5;245m" // grey
	colorWarn   = "\x1b[38;5;214m"
	colorWarnBg = "\x1b[48;5;58m"
	colorErr    = "\x1b[38;5;167m"
	colorErrBg  = "\x1b[48;5;88m"
)

var bufferPool = buffer.NewPool()

// consoleEncoder is a compact, human-oriented encoder.
// Format: "13:04:35  probe  Repository analyzed  repo=https://... files=3"
//
// Context fields added with With() are kept in the embedded map encoder and
// printed before the entry's own fields. No field is ever dropped.
type consoleEncoder struct {
	*zapcore.MapObjectEncoder
	color bool
}

func newConsoleEncoder(color bool) *consoleEncoder {
	return &consoleEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		color:            color,
	}
}

func (enc *consoleEncoder) Clone() zapcore.Encoder {
	clone := newConsoleEncoder(enc.color)
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (enc *consoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	enc.paint(final, colorTime, ent.Time.Format("15:04:05"))

	// Level: only shown for non-info entries
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		enc.paint(final, colorName, ent.LoggerName)
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	// Context fields first, sorted for stable output
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		enc.appendField(final, k, enc.Fields[k])
	}

	for _, f := range fields {
		m := zapcore.NewMapObjectEncoder()
		f.AddTo(m)
		enc.appendField(final, f.Key, m.Fields[f.Key])
	}

	if ent.Stack != "" {
		final.AppendString("\n")
		final.AppendString(ent.Stack)
	}

	final.AppendString("\n")
	return final, nil
}

func (enc *consoleEncoder) appendField(buf *buffer.Buffer, key string, value interface{}) {
	buf.AppendString("  ")
	enc.paint(buf, colorKey, key+"=")
	buf.AppendString(formatValue(value))
}

func (enc *consoleEncoder) paint(buf *buffer.Buffer, color, s string) {
	if enc.color {
		buf.AppendString(color)
		buf.AppendString(s)
		buf.AppendString(colorReset)
		return
	}
	buf.AppendString(s)
}

// levelString returns the level label, bold with a background when color is on
func (enc *consoleEncoder) levelString(level zapcore.Level) string {
	label := level.CapitalString()
	if !enc.color {
		return label
	}
	switch level {
	case zapcore.DebugLevel:
		return colorKey + label + colorReset
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorWarn + label + colorReset
	default:
		return colorBold + colorErrBg + colorErr + label + colorReset
	}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case string:
		if strings.ContainsAny(val, " \t") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}
