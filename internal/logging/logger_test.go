package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, TRACE, ParseLevel("trace"))
	assert.Equal(t, DEBUG, ParseLevel(" Debug "))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("что-то"))
}

func TestWriterLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("world", &buf, WARN)

	l.Info("скрыто %d", 1)
	l.Warn("видно %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[WARN] [world] видно 2")
}

func TestFileLoggerWritesAllLevels(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger("physics", dir)
	require.NoError(t, err)
	l.SetLevels(ERROR+1, TRACE)

	l.Trace("tick %d", 1)
	require.NoError(t, l.Close())
	// Повторное закрытие безопасно
	require.NoError(t, l.Close())
}

func TestManagerReturnsSameLogger(t *testing.T) {
	lm := GetLoggerManager()
	a := lm.MustGetLogger("test-component")
	b := lm.MustGetLogger("test-component")
	assert.Same(t, a, b)
	assert.Contains(t, lm.ListComponents(), "test-component")

	require.NoError(t, lm.SetLogLevel("test-component", ERROR, ERROR))
	assert.Error(t, lm.SetLogLevel("missing-component", ERROR, ERROR))
}
