package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	Setup(&buf, true, slog.LevelDebug)
	return &buf
}

func TestLogger_ContextAttributes(t *testing.T) {
	buf := captureDefault(t)

	New("repositories").File("submission").Function("Insert").Info("inserted", "id", "abc")

	out := buf.String()
	assert.Contains(t, out, `"package":"repositories"`)
	assert.Contains(t, out, `"file":"submission"`)
	assert.Contains(t, out, `"function":"Insert"`)
	assert.Contains(t, out, `"id":"abc"`)
	assert.Contains(t, out, `"msg":"inserted"`)
}

func TestLogger_ErrWrapsCause(t *testing.T) {
	buf := captureDefault(t)
	cause := errors.New("disk full")

	err := New("database").Function("Migrate").Err("failed to apply migrations", cause, "count", 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to apply migrations: disk full", err.Error())
	assert.Contains(t, buf.String(), `"error":"disk full"`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestLogger_ErrorReturnsMessage(t *testing.T) {
	captureDefault(t)

	err := New("database").Error("database path is empty", "dbPath", "")
	assert.EqualError(t, err, "database path is empty")

	err = New("app").ErrMsg("config is nil")
	assert.EqualError(t, err, "config is nil")
}

func TestLogger_FunctionDoesNotMutateParent(t *testing.T) {
	parent := New("handlers")
	child := parent.Function("createSubmission")

	assert.Empty(t, parent.function)
	assert.Equal(t, "createSubmission", child.function)
}
