package server

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	logger, logs := bufferLogger()
	rr := httptest.NewRecorder()

	writeJSON(rr, logger, http.StatusOK, map[string]float64{"ratio": math.Inf(1)})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, logs.String(), "failed to encode JSON response")
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "payload_too_large"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := bufferLogger()
			rr := httptest.NewRecorder()
			writeError(rr, logger, tt.err)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantKind)
		})
	}
}

func TestWriteError_InternalErrorUsesInjectedLogger(t *testing.T) {
	logger, logs := bufferLogger()
	writeError(httptest.NewRecorder(), logger, errors.New("boom"))
	assert.Contains(t, logs.String(), "boom")
}
