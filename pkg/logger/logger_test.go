package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestNew(t *testing.T) {
	t.Run("json_format", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, "info", "json")

		log.Info().Str("archive", "/tmp/gulf.zip").Msg("Archive")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "Archive", entry["message"])
		assert.Equal(t, "/tmp/gulf.zip", entry["archive"])
	})

	t.Run("level_filters_debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, "info", "json")

		log.Debug().Msg("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("console_format", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, "debug", "console")

		log.Info().Msg("deflating")
		assert.Contains(t, buf.String(), "deflating")
	})
}
