package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"source": "en.txt",
		"target": "es.txt",
		"format": "table",
		"threshold": 0.8,
		"workers": 4,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "en.txt", cfg.Source)
	assert.Equal(t, "es.txt", cfg.Target)
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, 0.8, cfg.Threshold)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
source: en.txt
target: es.txt
store: sqlite
store_location: snapshots.db
source_lang: english
target_lang: spanish
min_paragraph: 40
part_pattern: '^[\r\n]*(LIVRE *[A-Z]*) *\n?$'
`

	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, "snapshots.db", cfg.StoreLocation)
	assert.Equal(t, "spanish", cfg.TargetLang)
	assert.Equal(t, 40, cfg.MinParagraph)
	assert.Equal(t, `^[\r\n]*(LIVRE *[A-Z]*) *\n?$`, cfg.PartPattern)
	assert.Empty(t, cfg.ChapterPattern)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("workers: [1, 2"), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "en.txt")
	require.NoError(t, os.WriteFile(source, []byte("Hello."), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{Source: source, Format: "text", Threshold: 0.5, Workers: 2}},
		{name: "empty is valid", cfg: Config{}},
		{name: "unknown format", cfg: Config{Format: "pdf"}, wantErr: "Format"},
		{name: "unknown store", cfg: Config{Store: "s3"}, wantErr: "Store"},
		{name: "threshold of one", cfg: Config{Threshold: 1}, wantErr: "Threshold"},
		{name: "negative workers", cfg: Config{Workers: -1}, wantErr: "Workers"},
		{name: "unknown detector", cfg: Config{Detector: "regex"}, wantErr: "Detector"},
		{name: "same source and target", cfg: Config{Source: source, Target: source}, wantErr: "must be different"},
		{name: "postgres without url", cfg: Config{Store: "postgres"}, wantErr: EnvDatabaseURL},
		{name: "sqlite without location", cfg: Config{Store: "sqlite"}, wantErr: "store_location"},
		{name: "missing target file", cfg: Config{Target: filepath.Join(dir, "missing.txt")}, wantErr: "target file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateFields_LeavesCrossFieldRules(t *testing.T) {
	// store settings completed later by flags or the environment
	for _, cfg := range []Config{
		{Store: "sqlite"},
		{Store: "postgres"},
		{Source: "missing.txt"},
	} {
		assert.NoError(t, cfg.ValidateFields())
		assert.Error(t, cfg.Validate())
	}

	err := (&Config{Store: "redis"}).ValidateFields()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "postgres://localhost/bitext")
	t.Setenv(EnvLogMode, "production")

	cfg := Config{LogMode: "debug"}
	cfg.ApplyEnv()

	assert.Equal(t, "postgres://localhost/bitext", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogMode)
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Source:     "default-en.txt",
		Template:   "default.tex",
		Format:     "table",
		Iterations: 8,
		Threshold:  0.75,
	}

	partial := Config{
		Source: "custom-en.txt",
		Target: "custom-es.txt",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "custom-en.txt", merged.Source)
	assert.Equal(t, "custom-es.txt", merged.Target)

	// Default values should fill in empty fields
	assert.Equal(t, "default.tex", merged.Template)
	assert.Equal(t, "table", merged.Format)
	assert.Equal(t, 8, merged.Iterations)
	assert.Equal(t, 0.75, merged.Threshold)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Source: "en.txt"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "en.txt", merged.Source)
	assert.Equal(t, DefaultFormat, merged.Format)
	assert.Equal(t, DefaultStore, merged.Store)
	assert.Equal(t, DefaultThreshold, merged.Threshold)
	assert.Equal(t, DefaultIterations, merged.Iterations)
	assert.Equal(t, DefaultMinParagraph, merged.MinParagraph)
	assert.Equal(t, DefaultLanguage, merged.SourceLang)
	assert.Equal(t, 0, merged.Workers)
}
