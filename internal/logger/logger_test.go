package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(log.New(&buf, "", 0), LogLevelWarning)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	assert.Equal(t, "WARN: warn 3\nERROR: error 4\n", buf.String())
}

func TestWithTag(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(log.New(&buf, "", 0), LogLevelDebug).WithTag("button")

	l.Infof("pressed")
	l.Debugf("clicks=%d", 2)

	assert.Equal(t, "[button] pressed\n[button] DEBUG: clicks=2\n", buf.String())
}

func TestNilLoggerDiscards(t *testing.T) {
	l := NewLogger(nil, LogLevelDebug)
	assert.False(t, l.Enabled(LogLevelError))
	assert.NotPanics(t, func() {
		l.Errorf("nothing")
		l.WithTag("x").Debugf("nothing")
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"0":       LogLevelNone,
		"error":   LogLevelError,
		"2":       LogLevelWarning,
		"warning": LogLevelWarning,
		"":        LogLevelInfo,
		"DEBUG":   LogLevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
