package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIdentifier(t *testing.T) {
	for _, ok := range []string{"x", "_", "main", "MAX_N", "v2"} {
		assert.True(t, IsIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "2x", "a-b", "a b", "π"} {
		assert.False(t, IsIdentifier(bad), bad)
	}
}

func TestIsValidBuffer(t *testing.T) {
	assert.True(t, IsValidBuffer("int x;", 0))
	assert.True(t, IsValidBuffer("int x;", 6))
	assert.False(t, IsValidBuffer("int x;", 5))
	assert.False(t, IsValidBuffer("\xff", 0))
}

type sample struct {
	Name  string `toml:"name"`
	Count int    `toml:"count"`
}

func TestSaveAndLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")

	require.NoError(t, SaveTOMLFile(sample{Name: "a", Count: 3}, path))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))

	var got sample
	require.NoError(t, LoadTOMLFile(path, &got))
	assert.Equal(t, sample{Name: "a", Count: 3}, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[engine]\nmax_results = 7\nauto_trigger = false\n[tables]\nextra_file = \"x.toml\"\n"), 0o644))

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	engine, ok := ExtractSection(raw, "engine")
	require.True(t, ok)
	n, ok := ExtractInt(engine, "max_results")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	b, ok := ExtractBool(engine, "auto_trigger")
	assert.True(t, ok)
	assert.False(t, b)

	tables, _ := ExtractSection(raw, "tables")
	s, ok := ExtractString(tables, "extra_file")
	assert.True(t, ok)
	assert.Equal(t, "x.toml", s)

	_, ok = ExtractInt(engine, "missing")
	assert.False(t, ok)
	_, ok = ExtractSection(raw, "missing")
	assert.False(t, ok)
}

func TestParseTOMLWithRecoveryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[engine\nmax_results = "), 0o644))
	_, err := ParseTOMLWithRecovery(path)
	assert.Error(t, err)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cfg")
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.NoError(t, res.Error)
}

func TestConfigDirCandidates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dirs := ConfigDirCandidates("cppcomplete")
	require.NotEmpty(t, dirs)

	seen := map[string]bool{}
	for _, d := range dirs {
		assert.False(t, seen[d], "duplicate candidate %s", d)
		seen[d] = true
	}
	for _, d := range dirs[:1] {
		assert.True(t, strings.HasSuffix(d, "cppcomplete"), d)
	}
}

func TestResolveRelativePath(t *testing.T) {
	assert.Equal(t, "", ResolveRelativePath("/base", ""))
	assert.Equal(t, "/abs/x.toml", ResolveRelativePath("/base", "/abs/x.toml"))
	assert.Equal(t, filepath.Join("/base", "x.toml"), ResolveRelativePath("/base", "x.toml"))
	assert.Equal(t, "unknown", AbsolutePath(""))
	assert.True(t, filepath.IsAbs(AbsolutePath("rel")))
}
