package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Production(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New("production", &buf)

	l.Debug("hidden")
	l.Info("user created", "user_id", 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "production logs should be one JSON object")
	assert.Equal(t, "user created", entry["msg"])
	assert.Equal(t, float64(1), entry["user_id"])
}

func TestNew_Development(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New("dev", &buf)

	l.Debug("visible", "k", "v")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "k=v")
}

func TestIsProduction(t *testing.T) {
	t.Parallel()

	assert.True(t, IsProduction("production"))
	assert.True(t, IsProduction("PROD"))
	assert.False(t, IsProduction("dev"))
	assert.False(t, IsProduction(""))
}
