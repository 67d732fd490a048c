package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempConfig(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	oldGetConfigDir := getConfigDirFunc
	oldGetConfigPath := getConfigPathFunc
	getConfigDirFunc = func() (string, error) { return tmpDir, nil }
	getConfigPathFunc = func() (string, error) { return configPath, nil }
	t.Cleanup(func() {
		getConfigDirFunc = oldGetConfigDir
		getConfigPathFunc = oldGetConfigPath
	})

	return configPath
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir))
	assert.True(t, strings.HasSuffix(dir, "portfolio"))
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.True(t, filepath.IsAbs(path))
	assert.True(t, strings.HasSuffix(path, "config.json"))
}

func TestLoadGlobalConfig_FileNotExists(t *testing.T) {
	withTempConfig(t)

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestSaveAndLoadGlobalConfig(t *testing.T) {
	configPath := withTempConfig(t)

	testConfig := &GlobalConfig{
		Token:  "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		APIURL: "http://localhost:8080",
	}

	require.NoError(t, SaveGlobalConfig(testConfig))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, testConfig.Token, loaded.Token)
	assert.Equal(t, testConfig.APIURL, loaded.APIURL)
}

func TestLoadGlobalConfig_InvalidJSON(t *testing.T) {
	configPath := withTempConfig(t)

	require.NoError(t, os.WriteFile(configPath, []byte("{not json"), 0600))

	_, err := LoadGlobalConfig()
	assert.Error(t, err)
}

func TestSaveGlobalConfig_NilConfig(t *testing.T) {
	withTempConfig(t)

	err := SaveGlobalConfig(nil)
	assert.Error(t, err)
}

func TestDeleteGlobalConfig(t *testing.T) {
	configPath := withTempConfig(t)

	require.NoError(t, SaveGlobalConfig(&GlobalConfig{Token: "abc"}))
	require.NoError(t, DeleteGlobalConfig())

	_, err := os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op
	assert.NoError(t, DeleteGlobalConfig())
}

func TestConfigJSONShape(t *testing.T) {
	data, err := json.Marshal(&GlobalConfig{Token: "t", APIURL: "u"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"t","api_url":"u"}`, string(data))
}

func TestIsValidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		valid bool
	}{
		{"valid lowercase", strings.Repeat("ab12", 16), true},
		{"valid uppercase", strings.Repeat("AB12", 16), true},
		{"too short", strings.Repeat("ab", 16), false},
		{"too long", strings.Repeat("ab12", 17), false},
		{"non-hex chars", strings.Repeat("zz12", 16), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidToken(tt.token))
		})
	}
}
