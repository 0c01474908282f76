package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubService struct{}

func (stubService) Validate(context.Context, string, any) (any, error) { return nil, nil }
func (stubService) Submit(context.Context, string, any) (any, error)   { return nil, nil }

// brokenWriter имитирует клиента, закрывшего соединение до ответа.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestWriteJSONLogsWriteFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewContractHandler(stubService{}, zap.New(core))

	w := brokenWriter{httptest.NewRecorder()}
	h.ListSchemas(w, httptest.NewRequest(http.MethodGet, "/api/v1/schemas", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	entries := logs.FilterMessage("response write failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}
