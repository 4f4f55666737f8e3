package actions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalogDefaults(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), c)
}

func TestLoadCatalogYAML(t *testing.T) {
	path := writeFile(t, "paths.yaml", `
office:
  candidates:
    - 'E:\Office\WINWORD.EXE'
web:
  name: Edge
  fallback: msedge
`)

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, []string{`E:\Office\WINWORD.EXE`}, c[TagOffice].Candidates)
	assert.Equal(t, "winword", c[TagOffice].Fallback)
	assert.Equal(t, "Edge", c[TagWeb].Name)
	assert.Equal(t, "msedge", c[TagWeb].Fallback)
	assert.Equal(t, DefaultCatalog()[TagWeb].Candidates, c[TagWeb].Candidates)
	assert.Equal(t, DefaultCatalog()[TagMedia], c[TagMedia])
}

func TestLoadCatalogTOML(t *testing.T) {
	path := writeFile(t, "paths.toml", `
[media]
name = "VLC"
candidates = ['C:\Program Files\VideoLAN\VLC\vlc.exe']
fallback = "vlc"
`)

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, Program{
		Name:       "VLC",
		Candidates: []string{`C:\Program Files\VideoLAN\VLC\vlc.exe`},
		Fallback:   "vlc",
	}, c[TagMedia])
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"unknown action", "paths.yaml", "custom:\n  fallback: x\n"},
		{"unsupported format", "paths.json", "{}"},
		{"malformed yaml", "paths.yml", "office: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeFile(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestMergeDoesNotMutateDefaults(t *testing.T) {
	base := DefaultCatalog()
	merged, err := base.Merge(map[string]Program{"office": {Candidates: []string{"x"}}})
	require.NoError(t, err)

	merged[TagWeb].Candidates[0] = "changed"
	assert.Equal(t, DefaultCatalog(), base)
}

func TestParseDispatchTag(t *testing.T) {
	for _, name := range []string{"office", "web", "media"} {
		tag, ok := ParseDispatchTag(name)
		assert.True(t, ok)
		assert.Equal(t, name, tag.String())
	}
	for _, name := range []string{"custom", "command", "bogus", ""} {
		_, ok := ParseDispatchTag(name)
		assert.False(t, ok, name)
	}
	assert.Equal(t, []string{"office", "web", "media"}, DispatchTagNames())
}
