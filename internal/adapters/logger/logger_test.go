package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newBufferedLogger() (*logger.Logger, *bytes.Buffer) {
	l := logger.New()
	buf := new(bytes.Buffer)
	l.SetOutput(buf)
	return l, buf
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBufferedLogger()

	l.Debug("hidden by default")
	assert.Empty(t, buf.String())

	l.Info("widgets loaded")
	assert.Contains(t, buf.String(), "widgets loaded")

	l.Warn("slow vault read")
	assert.Contains(t, buf.String(), "slow vault read")
}

func TestLogger_SetVerbose(t *testing.T) {
	l, buf := newBufferedLogger()

	l.SetVerbose(true)
	l.Debug("cache primed")
	assert.Contains(t, buf.String(), "cache primed")

	buf.Reset()
	l.SetVerbose(false)
	l.Debug("quiet again")
	assert.Empty(t, buf.String())
}

func TestLogger_Error_RendersChain(t *testing.T) {
	l, buf := newBufferedLogger()

	err := zerr.Wrap(errors.New("permission denied"), "failed to read vault")
	l.Error(err)

	out := buf.String()
	assert.Contains(t, out, "Error: failed to read vault")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "permission denied")
}

func TestLogger_Error_Nil(t *testing.T) {
	l, buf := newBufferedLogger()

	l.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSONMode(t *testing.T) {
	l, buf := newBufferedLogger()
	l.SetJSON(true)

	l.Info("computed 3 widgets")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "computed 3 widgets", record["msg"])

	buf.Reset()
	l.Error(errors.New("boom"))

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "boom", record["error"])
}
