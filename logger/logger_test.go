package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Gobd/apispec/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("debug", false, &buf)
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())

	log.Debug().Str("route", "GET /a").Msg("skipped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "skipped", entry["message"])
	assert.Equal(t, "GET /a", entry["route"])
	assert.Contains(t, entry["caller"], "logger/logger_test.go:")
	assert.NotEmpty(t, entry["time"])
}

func TestNew_UnknownLevel(t *testing.T) {
	for _, level := range []string{"", "loud"} {
		assert.Equal(t, zerolog.InfoLevel, logger.New(level, false, nil).GetLevel())
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("info", true, &buf)
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}
