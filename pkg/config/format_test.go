package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prhdesc/pkg/config"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    config.OutputFormat
		wantErr bool
	}{
		{"empty defaults to text", "", config.FormatText, false},
		{"text", "text", config.FormatText, false},
		{"json", "json", config.FormatJSON, false},
		{"table", "table", config.FormatTable, false},
		{"unknown", "sarif", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.ParseOutputFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestIsFileTypeEnabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.EnabledFileTypes["markdown"] = false
	cfg.EnabledFileTypes["plaintext"] = true

	assert.False(t, cfg.IsFileTypeEnabled("markdown"))
	assert.True(t, cfg.IsFileTypeEnabled("plaintext"))
	assert.True(t, cfg.IsFileTypeEnabled("restructuredtext"), "unlisted languages default to enabled")

	var nilCfg *config.Config
	assert.True(t, nilCfg.IsFileTypeEnabled("plaintext"))
}
