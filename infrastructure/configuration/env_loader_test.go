package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvLine(t *testing.T) {
	key, value, ok := parseEnvLine("YOUTUBE_API_KEY=abc123")
	require.True(t, ok)
	assert.Equal(t, "YOUTUBE_API_KEY", key)
	assert.Equal(t, "abc123", value)

	key, value, ok = parseEnvLine(`  DATA_DIR = "my data"  `)
	require.True(t, ok)
	assert.Equal(t, "DATA_DIR", key)
	assert.Equal(t, "my data", value)

	_, _, ok = parseEnvLine("# a comment")
	assert.False(t, ok)
	_, _, ok = parseEnvLine("   ")
	assert.False(t, ok)
	_, _, ok = parseEnvLine("no-equals-sign")
	assert.False(t, ok)
	_, _, ok = parseEnvLine("=value-without-key")
	assert.False(t, ok)
}

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.env")
	content := "# snapshot locations\n" +
		"TUBETRENDS_ENV_NEW='from file'\n" +
		"TUBETRENDS_ENV_EXISTING=overridden\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("TUBETRENDS_ENV_EXISTING", "original")
	t.Cleanup(func() { os.Unsetenv("TUBETRENDS_ENV_NEW") })

	LoadEnvFromFile(path, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "from file", os.Getenv("TUBETRENDS_ENV_NEW"))
	// OS environment keeps precedence over file values.
	assert.Equal(t, "original", os.Getenv("TUBETRENDS_ENV_EXISTING"))
}
