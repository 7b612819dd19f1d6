package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelTrace, ParseLogLevel(" TRACE "))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, LogLevelWarn)

	log.Info("[Reshaper] hidden %d", 1)
	log.Warn("[Reshaper] shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "WARN")
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, LogLevelDebug).With("run_id", "abc")

	log.Debug("melted %d columns", 4)

	assert.Contains(t, buf.String(), "run_id")
	assert.Contains(t, buf.String(), "abc")
}
