package routes_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcelsud/webhook-bridge/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSources(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Run("loads sources in declaration order", func(t *testing.T) {
		path := writeSources(t, `
sources:
  - name: generic
    type: generic
    prefix: /generic
  - name: discord
    type: discord
    prefix: /discord
  - name: legacy
    type: generic
    prefix: /webhook
    deprecated: true
`)

		loader := routes.NewLoader()
		require.NoError(t, loader.Load(path))

		list := loader.List()
		require.Len(t, list, 3)
		assert.Equal(t, "generic", list[0].Name)
		assert.Equal(t, "discord", list[1].Name)
		assert.Equal(t, "legacy", list[2].Name)
		assert.True(t, list[2].Deprecated)
		assert.Equal(t, routes.Discord, list[1].Type)

		src, err := loader.Get("discord")
		require.NoError(t, err)
		assert.Equal(t, "/discord", src.Prefix)
		assert.True(t, loader.Exists("legacy"))
		assert.False(t, loader.Exists("missing"))
	})

	t.Run("missing file", func(t *testing.T) {
		loader := routes.NewLoader()
		err := loader.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading sources file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeSources(t, "sources: [")

		loader := routes.NewLoader()
		err := loader.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing sources YAML")
	})

	t.Run("unknown source type", func(t *testing.T) {
		path := writeSources(t, `
sources:
  - name: slack
    type: slack
    prefix: /slack
`)

		loader := routes.NewLoader()
		err := loader.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid type for source slack")
	})

	t.Run("deprecated discord source is rejected", func(t *testing.T) {
		path := writeSources(t, `
sources:
  - name: discord
    type: discord
    prefix: /discord
    deprecated: true
`)

		loader := routes.NewLoader()
		err := loader.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deprecated is only supported on generic sources")
	})

	t.Run("duplicate source name", func(t *testing.T) {
		path := writeSources(t, `
sources:
  - name: generic
    type: generic
    prefix: /generic
  - name: generic
    type: generic
    prefix: /other
`)

		loader := routes.NewLoader()
		err := loader.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate source name: generic")
	})
}

func TestSource_Validate(t *testing.T) {
	cases := []struct {
		name    string
		source  routes.Source
		wantErr string
	}{
		{
			name:   "valid generic",
			source: routes.Source{Name: "generic", Type: routes.Generic, Prefix: "/generic"},
		},
		{
			name:    "empty name",
			source:  routes.Source{Type: routes.Generic, Prefix: "/generic"},
			wantErr: "name cannot be empty",
		},
		{
			name:    "prefix without leading slash",
			source:  routes.Source{Name: "generic", Type: routes.Generic, Prefix: "generic"},
			wantErr: "prefix must start with /",
		},
		{
			name:    "prefix with trailing slash",
			source:  routes.Source{Name: "generic", Type: routes.Generic, Prefix: "/generic/"},
			wantErr: "prefix must not end with /",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.source.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
