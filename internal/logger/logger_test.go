package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestVerboseGating(t *testing.T) {
	t.Run("debug and info are silent by default", func(t *testing.T) {
		buf := withBuffer(t)
		SetVerbose(false)

		Debug("hidden %d", 1)
		Info("hidden %d", 2)

		assert.Empty(t, buf.String())
	})

	t.Run("debug and info print in verbose mode", func(t *testing.T) {
		buf := withBuffer(t)
		SetVerbose(true)

		Debug("watching %s", "vault")
		Info("processed %s", "a.md")

		out := buf.String()
		assert.Contains(t, out, "[DEBUG] watching vault")
		assert.Contains(t, out, "[INFO] processed a.md")
	})

	t.Run("warn and error always print", func(t *testing.T) {
		buf := withBuffer(t)
		SetVerbose(false)

		Warn("retrying %s", "a.md")
		Error("gave up on %s", "a.md")

		out := buf.String()
		assert.Contains(t, out, "[WARN] retrying a.md")
		assert.Contains(t, out, "[ERROR] gave up on a.md")
	})
}

func TestIsVerbose(t *testing.T) {
	withBuffer(t)

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}
