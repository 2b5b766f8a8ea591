package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"github.com/Davincible/fieldshare/pkg/crypto/primes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cm.GetConfig())
	assert.False(t, cm.Exists())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "loading must not create the file")
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldshare", "config.json")

	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)

	cfg := cm.GetConfig()
	cfg.Defaults.Shares = 7
	cfg.Defaults.Threshold = 4
	cfg.Defaults.Modulus = "48611"
	cfg.Profiles = map[string]Profile{
		"wallet": {Description: "seed phrases", Field: field.BackendPrime, Modulus: primes.Secp256k1},
	}
	require.NoError(t, cm.SaveConfig())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.True(t, loaded.Exists())
	assert.Equal(t, cfg, loaded.GetConfig())
	assert.Equal(t, path, loaded.Path())
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"defaults":{"shares":9,"threshold":5}}`), 0600))

	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)

	cfg := cm.GetConfig()
	assert.Equal(t, 9, cfg.Defaults.Shares)
	assert.Equal(t, 5, cfg.Defaults.Threshold)
	assert.Equal(t, ModulusAuto, cfg.Defaults.Modulus)
	assert.True(t, cfg.UI.UseColor)
}

func TestInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Malformed JSON", `{"defaults":`},
		{"Threshold 1", `{"defaults":{"shares":3,"threshold":1}}`},
		{"Threshold above shares", `{"defaults":{"shares":2,"threshold":3}}`},
		{"Unknown field", `{"defaults":{"field":"gf7"}}`},
		{"Composite modulus", `{"defaults":{"modulus":"48613"}}`},
		{"Unknown preset", `{"defaults":{"modulus":"curve9000"}}`},
		{"Bad permissions", `{"output":{"file_permissions":"rw-------"}}`},
		{"Bad profile", `{"profiles":{"x":{"threshold":1}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := NewConfigManagerAt(path)
			assert.Error(t, err)
		})
	}
}

func TestResolve(t *testing.T) {
	cm, err := NewConfigManagerAt(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	cm.GetConfig().Profiles = map[string]Profile{
		"bytes": {Field: field.BackendBinary, Threshold: 2},
	}

	settings, err := cm.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, cm.GetConfig().Defaults, settings)

	settings, err = cm.Resolve("bytes")
	require.NoError(t, err)
	assert.Equal(t, field.BackendBinary, settings.Field)
	assert.Equal(t, 2, settings.Threshold)
	assert.Equal(t, 5, settings.Shares)

	_, err = cm.Resolve("missing")
	assert.ErrorContains(t, err, "bytes")
}

func TestParseModulus(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"Empty is auto", "", "", false},
		{"Auto", "auto", "", false},
		{"Auto upper case", "AUTO", "", false},
		{"Decimal prime", "48611", "48611", false},
		{"Decimal composite", "48613", "", true},
		{"Preset", "mersenne127", "170141183460469231731687303715884105727", false},
		{"Unknown preset", "p384", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModulus(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, field.ErrInvalidModulus)
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFileMode(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, os.FileMode(0600), cfg.FileMode())

	cfg.Output.FilePermissions = "0640"
	assert.Equal(t, os.FileMode(0640), cfg.FileMode())

	cfg.Output.FilePermissions = ""
	assert.Equal(t, os.FileMode(0600), cfg.FileMode())
}

func TestConfigPathFromEnvironment(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.json")
	t.Setenv("FIELDSHARE_CONFIG", custom)

	path, err := getConfigPath()
	require.NoError(t, err)
	assert.Equal(t, custom, path)

	xdg := t.TempDir()
	t.Setenv("FIELDSHARE_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err = getConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "fieldshare", "config.json"), path)
}
