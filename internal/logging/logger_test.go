package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/prhdesc/internal/logging"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	levels := map[string]log.Level{
		"debug":   log.DebugLevel,
		"DEBUG":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"verbose": log.InfoLevel,
		"":        log.InfoLevel,
	}

	for level, want := range levels {
		t.Run("level="+level, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(level)
			require.NotNil(t, logger)
			assert.Equal(t, want, logger.GetLevel())
		})
	}
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")

	logger.Info("index rebuilt")
	logger.Warn("rule folder missing", logging.FieldFolder, "/nope")

	out := buf.String()
	assert.NotContains(t, out, "index rebuilt")
	assert.Contains(t, out, "rule folder missing")
	assert.Contains(t, out, "/nope")
}

func TestNewInteractive_InfoWithoutPrefix(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

// Not parallel: swaps the package default.
func TestSetDefaultAndLevel(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	replacement := logging.New("info")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, replacement.GetLevel())

	logging.SetLevel("error")
	assert.Equal(t, log.ErrorLevel, replacement.GetLevel())
}

func TestOrDefault(t *testing.T) {
	t.Parallel()

	assert.Same(t, logging.Default(), logging.OrDefault(nil))

	custom := logging.New("error")
	assert.Same(t, custom, logging.OrDefault(custom))
}

func TestFromContext_Fallbacks(t *testing.T) {
	t.Parallel()

	fallback := logging.New("warn")
	assert.Same(t, fallback, logging.FromContext(context.Background(), fallback))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background(), nil))

	attached := logging.New("debug")
	ctx := logging.WithLogger(context.Background(), attached)
	assert.Same(t, attached, logging.FromContext(ctx, fallback))
}

func TestWithFields_Accumulates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := logging.NewWithWriter(&buf, "info")

	ctx := logging.WithFields(context.Background(), base, logging.FieldEvent, "document")
	ctx = logging.WithFields(ctx, nil, logging.FieldPath, "docs/a.md")
	logging.FromContext(ctx, nil).Info("checked")

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "checked")
	assert.Contains(t, line, "event=document")
	assert.Contains(t, line, "path=docs/a.md")
}
