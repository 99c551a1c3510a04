package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(WithWriter(&buf), WithLevel(zerolog.DebugLevel))
	require.NoError(t, err)

	log.Error("edit failed", errors.New("boom"), "listing_id", "abc", "quantity", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "edit failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "abc", entry["listing_id"])
	assert.Equal(t, float64(3), entry["quantity"])
	assert.Equal(t, "logger_test.go", entry["file"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(WithWriter(&buf), WithLevel(zerolog.InfoLevel))
	require.NoError(t, err)

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.With("pass_id", "p1").Info("shown", "odd")
	assert.Contains(t, buf.String(), `"pass_id":"p1"`)
}

func TestWithFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	log, err := NewLogger(WithFile(path))
	require.NoError(t, err)
	defer log.Close()

	log.Info("hello")
	assert.FileExists(t, path)
}
