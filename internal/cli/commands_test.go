package cli

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/fswalk/internal/checksum"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("FSWALK_NON_INTERACTIVE", "1")

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newSandbox lays out tree/{.gitignore,a.txt,sub/b.txt,x.log} in a temp dir.
func newSandbox(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tree", ".gitignore"), "*.log\n")
	writeFile(t, filepath.Join(dir, "tree", "a.txt"), "aaa")
	writeFile(t, filepath.Join(dir, "tree", "sub", "b.txt"), "bb")
	writeFile(t, filepath.Join(dir, "tree", "x.log"), "l")
	return dir
}

func TestList(t *testing.T) {
	dir := newSandbox(t)

	out, _, err := execute(t, "list", "--sandbox", dir, "tree")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"D      tree",
		"F      tree/.gitignore",
		"F      tree/a.txt",
		"D      tree/sub",
		"F      tree/sub/b.txt",
		"F      tree/x.log",
		"",
	}, "\n"), out)
}

func TestList_PruningAndOrder(t *testing.T) {
	dir := newSandbox(t)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "gitignore",
			args:     []string{"--gitignore"},
			expected: []string{"tree", "tree/.gitignore", "tree/a.txt", "tree/sub", "tree/sub/b.txt"},
		},
		{
			name:     "exclude",
			args:     []string{"--exclude", "sub", "--exclude", ".*"},
			expected: []string{"tree", "tree/a.txt", "tree/x.log"},
		},
		{
			name:     "max depth",
			args:     []string{"--max-depth", "0"},
			expected: []string{"tree"},
		},
		{
			name:     "reverse",
			args:     []string{"--sort", "name-desc", "--max-depth", "1"},
			expected: []string{"tree", "tree/x.log", "tree/sub", "tree/a.txt", "tree/.gitignore"},
		},
		{
			name:     "postorder",
			args:     []string{"--postorder", "--exclude", "*.*"},
			expected: []string{"tree", "tree/sub", "tree/sub", "tree"},
		},
		{
			name:     "nochdir",
			args:     []string{"--nochdir", "--max-depth", "1", "--exclude", "*.*"},
			expected: []string{"tree", "tree/sub"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"list", "--sandbox", dir, "tree", "-o", "json"}, tt.args...)
			out, _, err := execute(t, args...)
			require.NoError(t, err)

			var doc struct {
				Command string `json:"command"`
				RunID   string `json:"run_id"`
				Entries []struct {
					Path string `json:"path"`
				} `json:"entries"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &doc))
			assert.Equal(t, "list", doc.Command)
			assert.Len(t, doc.RunID, 36)

			var got []string
			for _, e := range doc.Entries {
				got = append(got, e.Path)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestList_MissingRootIsPartial(t *testing.T) {
	dir := newSandbox(t)

	out, _, err := execute(t, "list", "--sandbox", dir, "missing", "tree/a.txt")
	require.Error(t, err)
	assert.Equal(t, ExitPartial, ExitCodeForError(err))
	assert.Contains(t, out, "NS     missing")
	assert.Contains(t, out, "F      tree/a.txt")
}

func TestList_Zip(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{"docs/readme.md", "docs/img/logo.png"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	out, _, err := execute(t, "list", "--zip", archive, "docs")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"D      docs",
		"D      docs/img",
		"F      docs/img/logo.png",
		"F      docs/readme.md",
		"",
	}, "\n"), out)
}

func TestList_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"logical and physical", []string{"list", "-L", "-P"}},
		{"sandbox and zip", []string{"list", "--sandbox", "a", "--zip", "b"}},
		{"unknown flag", []string{"list", "--bogus"}},
		{"bad pattern", []string{"list", "--sandbox", os.TempDir(), "--exclude", "[", "."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitUsageError, ExitCodeForError(err))
		})
	}
}

func TestList_ConfigFile(t *testing.T) {
	dir := newSandbox(t)
	cfgPath := filepath.Join(t.TempDir(), "fswalk.yaml")
	writeFile(t, cfgPath, "walk:\n  exclude: [\"*.txt\"]\n  gitignore: true\noutput:\n  format: yaml\n")

	out, _, err := execute(t, "list", "--config", cfgPath, "--sandbox", dir, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "run_id:")
	assert.Contains(t, out, "path: tree/sub")
	assert.NotContains(t, out, "a.txt")
	assert.NotContains(t, out, "x.log")

	out, _, err = execute(t, "list", "--config", cfgPath, "--sandbox", dir, "-o", "text", "tree")
	require.NoError(t, err)
	assert.Equal(t, "D      tree\nF      tree/.gitignore\nD      tree/sub\n", out)
}

func TestList_ConfigErrors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "fswalk.yaml")
	writeFile(t, bad, "walk:\n  sort: random\n")

	_, _, err := execute(t, "list", "--config", bad)
	assert.Equal(t, ExitConfigError, ExitCodeForError(err))

	_, _, err = execute(t, "list", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	assert.Equal(t, ExitConfigError, ExitCodeForError(err))
}

func TestList_Environment(t *testing.T) {
	dir := newSandbox(t)
	t.Setenv("FSWALK_MAX_DEPTH", "0")

	out, _, err := execute(t, "list", "--sandbox", dir, "tree")
	require.NoError(t, err)
	assert.Equal(t, "D      tree\n", out)

	// Variables from the env file do not override the environment.
	t.Setenv("FSWALK_FORMAT", "")
	require.NoError(t, os.Unsetenv("FSWALK_FORMAT"))
	envFile := filepath.Join(t.TempDir(), ".env")
	writeFile(t, envFile, "FSWALK_FORMAT=json\nFSWALK_MAX_DEPTH=5\n")

	out, _, err = execute(t, "list", "--env-file", envFile, "--sandbox", dir, "tree")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"), out)
	assert.NotContains(t, out, "tree/a.txt")
}

func TestList_Verbose(t *testing.T) {
	dir := newSandbox(t)

	_, stderr, err := execute(t, "list", "-v", "--sandbox", dir, "--exclude", "sub", "tree")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[VERBOSE] pruned tree/sub (sub)")
	assert.Contains(t, stderr, "run=")
}

func TestDu(t *testing.T) {
	dir := newSandbox(t)

	out, _, err := execute(t, "du", "--sandbox", dir, "-o", "json", "tree")
	require.NoError(t, err)

	var doc struct {
		Rows []struct {
			Path string `json:"path"`
			Size int64  `json:"size"`
		} `json:"rows"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "tree/sub", doc.Rows[0].Path)
	assert.Equal(t, "tree", doc.Rows[1].Path)
	assert.GreaterOrEqual(t, doc.Rows[0].Size, int64(2))
	assert.GreaterOrEqual(t, doc.Total, int64(11))
	assert.Equal(t, doc.Rows[1].Size, doc.Total)
}

func TestDu_Summarize(t *testing.T) {
	dir := newSandbox(t)

	out, _, err := execute(t, "du", "-s", "--sandbox", dir, "tree")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "\ttree"), lines[0])
}

func TestSum(t *testing.T) {
	dir := newSandbox(t)
	want, err := checksum.SHA256{}.Sum(strings.NewReader("aaa"))
	require.NoError(t, err)

	out, _, err := execute(t, "sum", "--hash", "sha256", "--nostat", "--gitignore", "--sandbox", dir, "tree")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines, want+"  tree/a.txt")

	_, _, err = execute(t, "sum", "--hash", "md5", "--sandbox", dir, "tree")
	assert.Equal(t, ExitConfigError, ExitCodeForError(err))
}

func TestList_Retries(t *testing.T) {
	dir := newSandbox(t)

	out, stderr, err := execute(t, "list", "-v", "--retries", "2", "--sandbox", dir, "--max-depth", "0", "tree")
	require.NoError(t, err)
	assert.Equal(t, "D      tree\n", out)
	assert.NotContains(t, stderr, "retry")

	_, _, err = execute(t, "list", "--retries", "-1", "--sandbox", dir, "tree")
	assert.Equal(t, ExitConfigError, ExitCodeForError(err))
}
