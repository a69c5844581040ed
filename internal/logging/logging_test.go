package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/restaurant-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h failingHandler) WithGroup(string) slog.Handler           { return h }

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errOnly bytes.Buffer
	logger := slog.New(NewMultiHandler(
		NewJSONHandler(&info, "info"),
		NewJSONHandler(&errOnly, "error"),
		failingHandler{},
	)).With("request_id", "abc")

	logger.Info("hello")
	logger.Error("boom")

	assert.Contains(t, info.String(), `"msg":"hello"`)
	assert.Contains(t, info.String(), `"msg":"boom"`)
	assert.NotContains(t, errOnly.String(), "hello")
	assert.Contains(t, errOnly.String(), `"request_id":"abc"`)
}

func TestDBHandlerPersistsErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewDBHandler(db)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("ignored")
	logger.Error("failed to save restaurant",
		"error", errors.New("disk full"),
		"method", "POST",
		"path", "/restaurants",
		"user_id", "u-1",
		"attempt", 2,
	)
	h.Stop()
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	got := logs[0]
	assert.Equal(t, "ERROR", got.Level)
	assert.Equal(t, "failed to save restaurant", got.Message)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, "disk full", got.Error)
	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, "/restaurants", got.Path)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "u-1", *got.UserID)
	assert.JSONEq(t, `{"attempt":2}`, string(got.Extra))
}

func TestPrune(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{Timestamp: now.AddDate(0, 0, -40), Level: "ERROR", Message: "old"},
		{Timestamp: now, Level: "ERROR", Message: "new"},
	}).Error)

	deleted, err := Prune(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Message)
}
