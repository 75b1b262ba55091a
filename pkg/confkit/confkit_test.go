package confkit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"marketdesk-api/pkg/confkit"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("MARKETDESK_CONF_DIR", "conf")
	tests := []struct {
		name     string
		base     string
		file     string
		expected string
	}{
		{name: "absolute path", base: "/srv/etc", file: "/opt/sync.yaml", expected: "/opt/sync.yaml"},
		{name: "relative path", base: "/srv/etc", file: "sync.yaml", expected: "/srv/etc/sync.yaml"},
		{name: "env var in relative path", base: "/srv/etc", file: "${MARKETDESK_CONF_DIR}/quote.yaml", expected: "/srv/etc/conf/quote.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, confkit.ResolvePath(tt.base, tt.file))
		})
	}
}

func TestSectionHydrate(t *testing.T) {
	t.Run("empty file is a no-op", func(t *testing.T) {
		section := &confkit.Section[string]{}
		err := section.Hydrate("/base", func(string) (*string, error) {
			t.Fatal("loader must not be called")
			return nil, nil
		})
		require.NoError(t, err)
		require.Nil(t, section.Value)
	})

	t.Run("loads relative to base", func(t *testing.T) {
		section := &confkit.Section[string]{File: "sync.yaml"}
		value := "loaded"
		err := section.Hydrate("/base", func(path string) (*string, error) {
			require.Equal(t, "/base/sync.yaml", path)
			return &value, nil
		})
		require.NoError(t, err)
		require.Equal(t, "/base/sync.yaml", section.File)
		require.Equal(t, "loaded", *section.Value)
	})
}

type fileConf struct {
	Name     string
	Interval string `json:",default=1m"`
}

func TestLoadFileExpandsEnv(t *testing.T) {
	t.Setenv("MARKETDESK_TEST_NAME", "desk")
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Name: ${MARKETDESK_TEST_NAME}\n"), 0o600))

	cfg, abs, err := confkit.LoadFile[fileConf](path)
	require.NoError(t, err)
	require.Equal(t, path, abs)
	require.Equal(t, "desk", cfg.Name)
	require.Equal(t, "1m", cfg.Interval)
}

func TestLoadFileMissing(t *testing.T) {
	_, _, err := confkit.LoadFile[fileConf](filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestMustProjectPathResolvesFromModuleRoot(t *testing.T) {
	_, err := os.Stat(confkit.MustProjectPath("go.mod"))
	require.NoError(t, err)
	_, err = os.Stat(confkit.MustProjectPath("etc/marketdesk.yaml"))
	require.NoError(t, err)
}
