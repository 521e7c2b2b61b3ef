package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestVersionsEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		// Simple versions
		{"1", "1", true},
		{"2", "2", true},
		{"1", "2", false},
		// Dot versions
		{"1.0", "1.0", true},
		{"1.1", "1.0", false},
		{"2.0", "2.1", false},
		// Full versions
		{"1.0.0", "1.0.0", true},
		{"1.0.1", "1.0.0", false},
		// Mixed formats
		{"1", "1.0", true},
		{"1", "1.0.0", true},
		{"1.0", "1.0.0", true},
		{"2", "2.0", true},
		{"2.0", "2.0.0", true},
		{"2", "2.0.0", true},
		{"2.0.0.0", "2", true},
		{"2.0.0.1", "2", false},
		{"02", "2", true},
		// Non-numeric inputs fall back to literal equality
		{"not.a.version", "not.a.version", true},
		{"not.a.version", "other", false},
		{"1.0", "not.a.version", false},
		{"invalid", "1.0", false},
		{"1.a.0", "1.0.0", false},
		{"1..0", "1.0", false},
		{"", "", true},
		{"", "0", false},
		{"v1", "1", false},
		{"99999999999999999999", "99999999999999999999", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, VersionsEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, VersionsEqual(tt.b, tt.a), "comparison must be symmetric")
		})
	}
}

func TestVersionsEqualProperties(t *testing.T) {
	t.Run("reflexive for any string", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			v := rapid.String().Draw(rt, "v")
			if !VersionsEqual(v, v) {
				rt.Fatalf("VersionsEqual(%q, %q) = false", v, v)
			}
		})
	})

	t.Run("trailing zero components never matter", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			v := rapid.StringMatching(`[0-9]{1,4}(\.[0-9]{1,4}){0,3}`).Draw(rt, "v")
			zeros := rapid.IntRange(1, 4).Draw(rt, "zeros")
			padded := v + strings.Repeat(".0", zeros)
			if !VersionsEqual(v, padded) {
				rt.Fatalf("VersionsEqual(%q, %q) = false", v, padded)
			}
		})
	})

	t.Run("symmetric", func(t *testing.T) {
		gen := rapid.OneOf(
			rapid.StringMatching(`[0-9]{1,2}(\.[0-9]{1,2}){0,2}`),
			rapid.StringMatching(`[0-9a-z.]{0,6}`),
		)
		rapid.Check(t, func(rt *rapid.T) {
			a := gen.Draw(rt, "a")
			b := gen.Draw(rt, "b")
			if VersionsEqual(a, b) != VersionsEqual(b, a) {
				rt.Fatalf("asymmetric for %q, %q", a, b)
			}
		})
	})
}

func TestSortVersions(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "integers in numeric order",
			in:   []string{"10", "2", "1"},
			want: []string{"1", "2", "10"},
		},
		{
			name: "mixed dotted forms",
			in:   []string{"2.1", "2", "1.0.0"},
			want: []string{"1.0.0", "2", "2.1"},
		},
		{
			name: "equal versions keep literal order",
			in:   []string{"2.0", "2"},
			want: []string{"2", "2.0"},
		},
		{
			name: "unparseable entry keeps input order",
			in:   []string{"3", "latest", "1"},
			want: []string{"3", "latest", "1"},
		},
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]string(nil), tt.in...)
			assert.Equal(t, tt.want, SortVersions(tt.in))
			assert.Equal(t, in, tt.in, "input must not be modified")
		})
	}
}
