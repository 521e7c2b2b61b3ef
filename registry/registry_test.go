package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ciprobe/errors"
	"github.com/teranos/ciprobe/task"
)

func TestLoadYAML(t *testing.T) {
	reg, err := Load("testdata/ciprobeconfig.yml")
	require.NoError(t, err)

	assert.Equal(t, 5, reg.Len())
	assert.Equal(t, []task.Name{
		"build/compile",
		"deploy/setup",
		"dotnetcorecli",
		"gitversion/setup",
		"usedotnet",
	}, reg.AllTaskNames())

	assert.Equal(t, []string{"2"}, reg.ValidVersionsFor("build/compile"))
	assert.Equal(t, []string{"1", "2"}, reg.ValidVersionsFor("Deploy/Setup"))
	assert.Equal(t, []string{"2"}, reg.ValidVersionsFor("DotNetCoreCLI"), "numeric scalars read as their text")
	assert.Equal(t, []string{"2.0"}, reg.ValidVersionsFor("usedotnet"))
	assert.Empty(t, reg.ValidVersionsFor("gitversion/setup"))
	assert.True(t, reg.Has("gitversion/setup"))
	assert.Nil(t, reg.ValidVersionsFor("unknown/task"))
	assert.False(t, reg.Has("unknown/task"))
	assert.Equal(t, MatchExact, reg.MatchMode())
}

func TestLoadTOML(t *testing.T) {
	reg, err := Load("testdata/ciprobeconfig.toml")
	require.NoError(t, err)

	assert.Equal(t, []task.Name{"build/compile", "deploy/setup"}, reg.AllTaskNames())
	assert.Equal(t, []string{"1", "2"}, reg.ValidVersionsFor("deploy/setup"))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	tests := []struct {
		name string
		path string
		hint bool
	}{
		{
			name: "missing file",
			path: filepath.Join(dir, "absent.yml"),
			hint: true,
		},
		{
			name: "invalid yaml",
			path: write("broken.yml", "task_versions: [unclosed\n"),
		},
		{
			name: "wrong structure",
			path: write("list.yml", "task_versions:\n  - build/compile\n"),
		},
		{
			name: "empty mapping",
			path: write("empty.yml", "task_versions: {}\n"),
			hint: true,
		},
		{
			name: "no task_versions key",
			path: write("other.yml", "something_else: true\n"),
			hint: true,
		},
		{
			name: "invalid toml",
			path: write("broken.toml", "[task_versions\n"),
		},
		{
			name: "empty task name",
			path: write("blank.yml", "task_versions:\n  '': ['1']\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Load(tt.path)
			require.Error(t, err)
			assert.Nil(t, reg)
			assert.True(t, errors.IsConfigError(err), "want config error, got %v", err)
			assert.True(t, errors.IsFatal(err))
			if tt.hint {
				assert.NotEmpty(t, errors.GetAllHints(err))
			}
		})
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), DefaultPath)

	require.NoError(t, os.WriteFile(DefaultPath, []byte("task_versions:\n  a/b: ['1']\n"), 0o644))
	reg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []task.Name{"a/b"}, reg.AllTaskNames())
}

func TestNewCollisions(t *testing.T) {
	entries := map[string][]string{
		"Deploy/Setup": {"1", "2"},
		"deploy/setup": {"2", "3"},
	}

	reg, err := New(entries)
	require.NoError(t, err)
	assert.Equal(t, []task.Name{"deploy/setup"}, reg.AllTaskNames())
	// "Deploy/Setup" sorts first, so its versions lead the merged list
	assert.Equal(t, []string{"1", "2", "3"}, reg.ValidVersionsFor("deploy/setup"))

	_, err = New(entries, WithStrictKeys(true))
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, err.Error(), "collide")
}

func TestNewCopiesInput(t *testing.T) {
	entries := map[string][]string{"a": {"1"}}
	reg, err := New(entries)
	require.NoError(t, err)

	entries["a"][0] = "9"
	assert.Equal(t, []string{"1"}, reg.ValidVersionsFor("a"))

	got := reg.ValidVersionsFor("a")
	got[0] = "8"
	assert.Equal(t, []string{"1"}, reg.ValidVersionsFor("a"), "registry is immutable")
}

func TestAccepts(t *testing.T) {
	entries := map[string][]string{
		"build/compile": {"2"},
		"usedotnet":     {"2.0"},
		"unpinned":      {},
	}

	exact, err := New(entries)
	require.NoError(t, err)
	relaxed, err := New(entries, WithMatchMode(MatchRelaxed))
	require.NoError(t, err)

	tests := []struct {
		name      string
		task      task.Name
		version   string
		exactOK   bool
		relaxedOK bool
	}{
		{"literal match", "build/compile", "2", true, true},
		{"case-insensitive name", "Build/Compile", "2", true, true},
		{"different version", "build/compile", "3", false, false},
		{"padded form", "usedotnet", "2", false, true},
		{"unpinned task accepts nothing", "unpinned", "1", false, false},
		{"unknown task", "other", "1", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exactOK, exact.Accepts(tt.task, tt.version))
			assert.Equal(t, tt.relaxedOK, relaxed.Accepts(tt.task, tt.version))
		})
	}
}

func TestParseMatchMode(t *testing.T) {
	m, err := ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, m)

	m, err = ParseMatchMode(" Relaxed ")
	require.NoError(t, err)
	assert.Equal(t, MatchRelaxed, m)

	_, err = ParseMatchMode("fuzzy")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}
