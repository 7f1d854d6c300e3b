package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"ldb/src/infra/config"
)

func TestPlainHandler(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "info", Format: "plain"}, &buf)

	WithComponent(log, "db").Info("rolled back", "statements", 3)
	log.Debug("hidden")

	assert.Equal(t, "rolled back component=db statements=3\n", buf.String())
}

func TestJSONHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info("skipped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestNilGuards(t *testing.T) {
	assert.NotPanics(t, func() {
		Info(nil, "x")
		Warn(nil, "x")
		Error(nil, "x")
		Debug(nil, "x")
		assert.Nil(t, WithComponent(nil, "db"))
	})
}
