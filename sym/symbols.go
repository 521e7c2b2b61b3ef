// Package sym defines the glyphs ciprobe prints in reports and console output.
// Every glyph has a plain-text fallback for terminals and documents that
// cannot show emoji.
package sym

// Report section glyphs.
const (
	Report    = "📊"
	Clock     = "🕒"
	Repos     = "📚"
	Skipped   = "⏭️"
	Summary   = "📈"
	Building  = "🏢"
	Warning   = "⚠️"
	Missing   = "❌"
	Invalid   = "⚡"
	Valid     = "✅"
	Task      = "🔧"
	Folder    = "📁"
	Unknown   = "❓"
	Searching = "🔍"
)

// entry binds a glyph to its plain fallback and a short label.
type entry struct {
	glyph string
	plain string
	label string
}

// registry lists every glyph once, in report order.
var registry = []entry{
	{Report, "[report]", "Report"},
	{Clock, "[time]", "Generated"},
	{Repos, "[repos]", "Analyzed repositories"},
	{Skipped, "[skip]", "Skipped repositories"},
	{Summary, "[summary]", "Summary"},
	{Building, "[repos]", "Repositories analyzed"},
	{Warning, "[warn]", "Issues"},
	{Missing, "[missing]", "Missing"},
	{Invalid, "[invalid]", "Invalid"},
	{Valid, "[ok]", "Valid"},
	{Task, "[task]", "Task"},
	{Folder, "[repo]", "Repository"},
	{Unknown, "[unconfigured]", "Unconfigured"},
	{Searching, "[scan]", "Scanning"},
}

var (
	glyphToPlain map[string]string
	glyphToLabel map[string]string
)

func init() {
	glyphToPlain = make(map[string]string, len(registry))
	glyphToLabel = make(map[string]string, len(registry))
	for _, e := range registry {
		glyphToPlain[e.glyph] = e.plain
		glyphToLabel[e.glyph] = e.label
	}
}

// Plain returns the text fallback for glyph, or glyph itself if unknown.
func Plain(glyph string) string {
	if p, ok := glyphToPlain[glyph]; ok {
		return p
	}
	return glyph
}

// Label returns the human-readable label for glyph.
func Label(glyph string) string {
	return glyphToLabel[glyph]
}

// Renderer picks glyphs or their fallbacks.
type Renderer struct {
	Plain bool
}

// G returns glyph, or its fallback when r is plain.
func (r Renderer) G(glyph string) string {
	if r.Plain {
		return Plain(glyph)
	}
	return glyph
}
