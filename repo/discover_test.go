package repo

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/repo/azure-pipelines.yml":           "steps:\n  - task: UseDotNet@2\n",
		"/repo/.github/workflows/ci.yaml":     "jobs: {}\n",
		"/repo/templates/build.yml":           "steps: []\n",
		"/repo/.git/config.yml":               "not a pipeline\n",
		"/repo/src/main.go":                   "package main\n",
		"/repo/README.md":                     "# repo\n",
		"/repo/node_modules/pkg/workflow.yml": "vendored\n",
		"/repo/deploy/azure-pipelines.yml":    "steps: []\n",
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestFindCandidateFilesDefaults(t *testing.T) {
	finder := NewFinder(newRepoFs(t), nil, nil, nil)

	files, err := finder.FindCandidateFiles("/repo")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/repo/.github/workflows/ci.yaml",
		"/repo/azure-pipelines.yml",
		"/repo/deploy/azure-pipelines.yml",
		"/repo/node_modules/pkg/workflow.yml",
		"/repo/templates/build.yml",
	}, files)
}

func TestFindCandidateFilesPatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		want     []string
	}{
		{
			name:    "exclude vendored directories",
			exclude: []string{"node_modules/**"},
			want: []string{
				"/repo/.github/workflows/ci.yaml",
				"/repo/azure-pipelines.yml",
				"/repo/deploy/azure-pipelines.yml",
				"/repo/templates/build.yml",
			},
		},
		{
			name:     "azure pipelines only",
			patterns: []string{"azure-pipelines.yml", "**/azure-pipelines.yml"},
			want: []string{
				"/repo/azure-pipelines.yml",
				"/repo/deploy/azure-pipelines.yml",
			},
		},
		{
			name:     "github workflows only",
			patterns: []string{".github/workflows/*.yaml", ".github/workflows/*.yml"},
			want:     []string{"/repo/.github/workflows/ci.yaml"},
		},
		{
			name:     "nothing matches",
			patterns: []string{"*.json"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := NewFinder(newRepoFs(t), tt.patterns, tt.exclude, nil)
			files, err := finder.FindCandidateFiles("/repo")
			require.NoError(t, err)
			assert.Equal(t, tt.want, files)
		})
	}
}

func TestFindCandidateFilesEmptyRepo(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/empty/.git", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/empty/.git/HEAD.yml", []byte("ref"), 0o644))

	files, err := NewFinder(fs, nil, nil, nil).FindCandidateFiles("/empty")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindCandidateFilesMissingRoot(t *testing.T) {
	_, err := NewFinder(afero.NewMemMapFs(), nil, nil, nil).FindCandidateFiles("/absent")
	assert.Error(t, err)
}

func TestFindCandidateFilesOsFs(t *testing.T) {
	finder := NewFinder(afero.NewOsFs(), nil, nil, nil)
	files, err := finder.FindCandidateFiles("testdata/pipelines")
	require.NoError(t, err)
	assert.Equal(t, []string{"testdata/pipelines/azure-pipelines.yml"}, files)
}
