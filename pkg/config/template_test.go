package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prhdesc/pkg/config"
)

func TestGenerateTemplate_YAMLParses(t *testing.T) {
	data, err := config.GenerateTemplate(config.TemplateOptions{Format: "yaml"})
	require.NoError(t, err)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultEngineCommand, cfg.Engine.Command)
	assert.Equal(t, config.DefaultEngineTimeout, cfg.Engine.Timeout)
	assert.False(t, cfg.CheckOnSave)
	assert.Empty(t, cfg.RulesFolder)
}

func TestGenerateTemplate_RulesFolder(t *testing.T) {
	data, err := config.GenerateTemplate(config.TemplateOptions{RulesFolder: "~/rules"})
	require.NoError(t, err)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "~/rules", cfg.RulesFolder)
}

func TestGenerateTemplate_JSON(t *testing.T) {
	data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "engine")
}

func TestGenerateTemplate_UnknownFormat(t *testing.T) {
	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "toml"})
	require.Error(t, err)
}
