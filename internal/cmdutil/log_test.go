package cmdutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_JSON(t *testing.T) {
	var b bytes.Buffer
	log, err := NewLogger("info", "json", false, &b)
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("reference selected", zap.Int("index", 2))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &entry))
	assert.Equal(t, "reference selected", entry["msg"])
	assert.Equal(t, float64(2), entry["index"])
}

func TestNewLogger_QuietKeepsErrors(t *testing.T) {
	var b bytes.Buffer
	log, err := NewLogger("debug", "console", true, &b)
	require.NoError(t, err)
	log.Warn("dropped")
	log.Error("kept")
	out := b.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestNewLogger_Rejects(t *testing.T) {
	_, err := NewLogger("loud", "console", false, &bytes.Buffer{})
	assert.Error(t, err)
	_, err = NewLogger("info", "xml", false, &bytes.Buffer{})
	assert.Error(t, err)
}
