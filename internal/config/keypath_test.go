package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValue_SetField(t *testing.T) {
	cfg := &Config{API: "openai", TruncateChars: 4000}

	val, err := GetValue(cfg, "api")
	require.NoError(t, err)
	assert.Equal(t, "openai", val)

	val, err = GetValue(cfg, "truncate_chars")
	require.NoError(t, err)
	assert.Equal(t, 4000, val)
}

func TestGetValue_UnsetFieldNotFound(t *testing.T) {
	_, err := GetValue(&Config{API: "openai"}, "model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSetValue_TopLevel(t *testing.T) {
	data := map[string]any{}
	require.NoError(t, SetValue(data, "api", "claude"))
	assert.Equal(t, "claude", data["api"])
}

func TestSetValue_CoercesTypes(t *testing.T) {
	data := map[string]any{}

	require.NoError(t, SetValue(data, "max_retries", "5"))
	require.NoError(t, SetValue(data, "delay", "2s"))
	require.NoError(t, SetValue(data, "flag", "true"))
	require.NoError(t, SetValue(data, "ratio", "0.5"))

	assert.Equal(t, 5, data["max_retries"])
	assert.Equal(t, "2s", data["delay"])
	assert.Equal(t, true, data["flag"])
	assert.InDelta(t, 0.5, data["ratio"], 0.0001)
}

func TestSetValue_CreatesIntermediateMaps(t *testing.T) {
	data := map[string]any{}
	require.NoError(t, SetValue(data, "a.b.c", "v"))

	a, ok := data["a"].(map[string]any)
	require.True(t, ok)
	b, ok := a["b"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "v", b["c"])
}

func TestSetValue_ScalarInPathFails(t *testing.T) {
	data := map[string]any{"api": "openai"}
	err := SetValue(data, "api.sub", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a map")
}

func TestFlattenMap(t *testing.T) {
	m := map[string]any{
		"api": "openai",
		"nested": map[string]any{
			"inner": 1,
		},
	}

	flat := FlattenMap(m, "")
	assert.Equal(t, "openai", flat["api"])
	assert.Equal(t, 1, flat["nested.inner"])
	assert.NotContains(t, flat, "nested")
}

func TestValidateKeyPath_KnownKeys(t *testing.T) {
	for _, key := range []string{
		"api", "model", "pattern", "output_dir",
		"delay", "max_retries", "truncate_chars", "timeout",
	} {
		assert.NoError(t, ValidateKeyPath(key), "key %q", key)
	}
}

func TestValidateKeyPath_UnknownKey(t *testing.T) {
	err := ValidateKeyPath("concurrency")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown key "concurrency"`)
	assert.Contains(t, err.Error(), "api, delay, max_retries, model, output_dir, pattern, timeout, truncate_chars")
}

func TestValidateKeyPath_SubKeyRejected(t *testing.T) {
	err := ValidateKeyPath("api.sub")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot use sub-keys")
}

func TestValidateKeyPath_Empty(t *testing.T) {
	assert.Error(t, ValidateKeyPath(""))
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"42", 42},
		{"-3", -3},
		{"0.25", 0.25},
		{"2s", "2s"},
		{"openai", "openai"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, coerceValue(tt.in), "input %q", tt.in)
	}
}
