package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSystemLog(t *testing.T) {
	record := slog.NewRecord(time.Now(), slog.LevelError, "clinic enrollment failed", 0)
	record.AddAttrs(
		slog.String("flow", "create_clinic"),
		slog.String("clinic_id", "c1"),
		slog.Any("error", errors.New("boom")),
		slog.String("email", "a@x.com"),
	)

	entry := toSystemLog(record, []slog.Attr{slog.String("request_id", "req-1"), slog.String("step", "set_claims")})
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "create_clinic", entry.Flow)
	assert.Equal(t, "set_claims", entry.Step)
	assert.Equal(t, "c1", entry.ClinicID)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "boom", entry.Error)
	assert.Nil(t, entry.UID)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, map[string]any{"email": "a@x.com"}, extra)
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var info, errs bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	logger.Info("clinic enrolled")
	logger.With("flow", "create_patient").Error("patient enrollment failed")

	assert.Contains(t, info.String(), "clinic enrolled")
	assert.Contains(t, info.String(), "patient enrollment failed")
	assert.NotContains(t, errs.String(), "clinic enrolled")
	assert.Contains(t, errs.String(), `"flow":"create_patient"`)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestMultiHandler_TagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewMultiHandler(slog.NewJSONHandler(&buf, nil)))
	ctx := WithRequestID(context.Background(), "req-1")

	logger.InfoContext(ctx, "patient enrolled")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	buf.Reset()
	logger.InfoContext(ctx, "explicit id", "request_id", "req-2")
	assert.Contains(t, buf.String(), `"request_id":"req-2"`)
	assert.NotContains(t, buf.String(), "req-1")

	buf.Reset()
	logger.Info("no request")
	assert.NotContains(t, buf.String(), "request_id")
}
