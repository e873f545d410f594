package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_VerboseEnablesDebug(t *testing.T) {
	var quiet, verbose bytes.Buffer
	newLogger(&quiet, false).Debug("grid sized", "cols", 60)
	newLogger(&verbose, true).Debug("grid sized", "cols", 60)

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "grid sized")
	assert.Contains(t, verbose.String(), "cols=60")
}

func TestStartTimer_LogsElapsedAndKeys(t *testing.T) {
	var buf bytes.Buffer
	finish := startTimer(newLogger(&buf, false))
	finish("Evaluated alignments", "count", 4)

	out := buf.String()
	assert.Contains(t, out, "Evaluated alignments")
	assert.Contains(t, out, "count=4")
	assert.Contains(t, out, "elapsed=")
}

func TestLoggerFromContext(t *testing.T) {
	assert.NotNil(t, loggerFromContext(context.Background()))

	var buf bytes.Buffer
	l := newLogger(&buf, false)
	assert.Same(t, l, loggerFromContext(contextWithLogger(context.Background(), l)))
}
