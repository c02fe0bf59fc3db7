package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupJSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	_, err := Setup("warn", "json", &buf)
	require.NoError(t, err)

	lg := Component("test")
	lg.Info().Msg("hidden")
	lg.Warn().Str("coin", "bitcoin").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "bitcoin", entry["coin"])
	assert.Equal(t, "shown", entry["message"])
}

func TestSetupRejectsBadInput(t *testing.T) {
	_, err := Setup("loud", "json", nil)
	assert.Error(t, err)

	_, err = Setup("info", "xml", nil)
	assert.Error(t, err)
}
