package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"food-donation-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewIsolatedLogger(path)

	l.Info("DONATION", "created", map[string]interface{}{"donation_id": "d1"})
	l.Warn("CLAIM", "contended", nil)
	l.Error("CLAIM", "failed", map[string]interface{}{"error": errors.New("boom")})
	l.Debug("CLAIM", "below file level", nil)
	require.NoError(t, l.Sync())

	logs, err := l.GetLogs(LogQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "failed", logs[0].Message, "newest first")
	assert.Equal(t, "CLAIM", logs[0].Module)

	warns, err := l.GetLogs(LogQuery{Level: "WARN", Limit: 10})
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "contended", warns[0].Message)

	page, err := l.GetLogs(LogQuery{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "created", page[0].Message)

	claims, err := l.GetLogs(LogQuery{Module: "CLAIM", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, claims, 2)

	found, err := l.GetLogById(logs[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "contended", found.Message)

	_, err = l.GetLogById("missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("X", "ignored", nil)

	logs, err := l.GetLogs(LogQuery{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
