package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseDeclaration(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  Declaration
		found bool
	}{
		{
			name:  "name with slash",
			line:  "task: my/task@123",
			want:  Declaration{Name: "my/task", Version: "123"},
			found: true,
		},
		{
			name:  "no space after marker",
			line:  "task:simple_task@1",
			want:  Declaration{Name: "simple_task", Version: "1"},
			found: true,
		},
		{
			name:  "whitespace everywhere",
			line:  "   task:    my_task   @   123   ",
			want:  Declaration{Name: "my_task", Version: "123"},
			found: true,
		},
		{
			name:  "non-ascii letters",
			line:  "task: café@2",
			want:  Declaration{Name: "café", Version: "2"},
			found: true,
		},
		{
			name:  "superscript number in name",
			line:  "task: x²@1",
			want:  Declaration{Name: "x²", Version: "1"},
			found: true,
		},
		{
			name:  "roman numeral name",
			line:  "task: Ⅻ@1",
			want:  Declaration{Name: "Ⅻ", Version: "1"},
			found: true,
		},
		{
			name:  "yaml list item",
			line:  "  - task: DotNetCoreCLI@2",
			want:  Declaration{Name: "DotNetCoreCLI", Version: "2"},
			found: true,
		},
		{
			name:  "marker after other text",
			line:  "steps: [ task: build/compile@3",
			want:  Declaration{Name: "build/compile", Version: "3"},
			found: true,
		},
		{
			name:  "original casing kept",
			line:  "- task: Deploy/Setup@1",
			want:  Declaration{Name: "Deploy/Setup", Version: "1"},
			found: true,
		},
		{name: "empty", line: ""},
		{name: "blank", line: "   \t "},
		{name: "marker only", line: "task:"},
		{name: "empty name", line: "task: @1"},
		{name: "empty version", line: "task: name@"},
		{name: "alpha version", line: "task: name@abc"},
		{name: "dotted version", line: "task: name@1.2"},
		{name: "other key", line: "other: name@123"},
		{name: "bang in name", line: "task: invalid!name@123"},
		{name: "dash in name", line: "task: my-task@1"},
		{name: "no at sign", line: "task: name"},
		{name: "hash comment", line: "# task: name@1"},
		{name: "slash comment", line: "  // task: name@1"},
		{name: "uppercase marker", line: "Task: name@1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDeclaration(tt.line)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNameNormalize(t *testing.T) {
	assert.Equal(t, Name("deploy/setup"), Name("Deploy/Setup").Normalize())
	assert.Equal(t, Name("deploy/setup"), Name("deploy/setup").Normalize())
	assert.Equal(t, "Deploy/Setup", Name("Deploy/Setup").String())
}

func TestDeclarationKey(t *testing.T) {
	d := Declaration{Name: "build/compile", Version: "3"}
	assert.Equal(t, "build/compile@3", d.Key())
}

func TestParseDeclarationProperties(t *testing.T) {
	t.Run("well formed lines round trip", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			name := rapid.StringMatching(`[A-Za-z0-9_/]{1,24}`).Draw(rt, "name")
			version := rapid.StringMatching(`[0-9]{1,6}`).Draw(rt, "version")
			pad := func(label string) string {
				return rapid.StringMatching(`[ \t]{0,3}`).Draw(rt, label)
			}

			line := pad("lead") + "task:" + pad("afterMarker") + name + pad("beforeAt") + "@" + pad("afterAt") + version + pad("trail")

			got, ok := ParseDeclaration(line)
			if !ok {
				rt.Fatalf("ParseDeclaration(%q) found nothing", line)
			}
			if got.Name != Name(name) || got.Version != version {
				rt.Fatalf("ParseDeclaration(%q) = %+v, want %s@%s", line, got, name, version)
			}
		})
	})

	t.Run("lines without marker never match", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			line := rapid.StringMatching(`[a-z0-9 @:/_]{0,40}`).Filter(func(s string) bool {
				return !containsMarker(s)
			}).Draw(rt, "line")

			if _, ok := ParseDeclaration(line); ok {
				rt.Fatalf("ParseDeclaration(%q) unexpectedly matched", line)
			}
		})
	})

	t.Run("non digit versions never match", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			name := rapid.StringMatching(`[a-z_/]{1,12}`).Draw(rt, "name")
			version := rapid.StringMatching(`[0-9]{0,3}[a-z.\-][0-9a-z]{0,3}`).Draw(rt, "version")

			if d, ok := ParseDeclaration("task: " + name + "@" + version); ok {
				rt.Fatalf("version %q accepted as %+v", version, d)
			}
		})
	})
}

func containsMarker(s string) bool {
	for i := 0; i+len(marker) <= len(s); i++ {
		if s[i:i+len(marker)] == marker {
			return true
		}
	}
	return false
}
