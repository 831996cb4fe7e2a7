package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := New("factory", &buf)

	l.Infof("created %s", "environment")

	line := buf.String()
	assert.Contains(t, line, "[factory] [INFO] created environment")
	assert.True(t, strings.HasPrefix(line, "["))
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New("factory", &buf)
	l.SetLevel(LevelWarn)

	l.Debugf("debug")
	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("error")

	out := buf.String()
	assert.NotContains(t, out, "[DEBUG]")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[WARN] warn")
	assert.Contains(t, out, "[ERROR] error")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New("factory", &buf).With("retry")

	l.Warnf("attempt failed")
	assert.Contains(t, buf.String(), "[factory.retry] [WARN] attempt failed")
	assert.Equal(t, New("x", &buf).RunID(), l.RunID())
}

func TestNewLogger_UsesLogDir(t *testing.T) {
	// initLogDirectory runs once per process; only assert on what is stable.
	l, err := NewLogger("test")
	defer l.Close()

	if err != nil {
		assert.Empty(t, l.LogPath())
		return
	}
	assert.Contains(t, l.LogPath(), "-pwfactory.log")
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Errorf("dropped")
	assert.Empty(t, l.LogPath())
}
