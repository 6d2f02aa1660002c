package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skucheck/internal/dataset"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewJSONHandler(io.Discard, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/validate", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"missing columns", fmt.Errorf("resolve: %w", &dataset.MissingColumnsError{Fields: []dataset.Field{dataset.FieldPrice}}), http.StatusUnprocessableEntity, TypeMissingColumns},
		{"empty dataset", fmt.Errorf("read: %w", dataset.ErrEmptyDataset), http.StatusUnprocessableEntity, TypeEmptyDataset},
		{"unsupported format", fmt.Errorf("%w: %q", dataset.ErrUnsupportedFormat, ".pdf"), http.StatusUnsupportedMediaType, TypeUnsupportedMedia},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, TypePayloadTooLarge},
		{"api error", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit},
		{"parsing app error", NewParsingError("corrupt workbook", nil), http.StatusUnprocessableEntity, TypeUnreadable},
		{"validation app error", NewAppValidationError("bad join key"), http.StatusBadRequest, TypeValidation},
		{"unknown", assert.AnError, http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, pd.Status)
			assert.Equal(t, tt.wantType, pd.Type)
			assert.Equal(t, "/api/validate", pd.Instance)
		})
	}
}

func TestHandleError_MissingColumns(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/validate", nil)

	h.HandleError(rec, req, &dataset.MissingColumnsError{
		Fields: []dataset.Field{dataset.FieldPrice, dataset.FieldCategory},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeMissingColumns, body["error_code"])
	assert.Equal(t, []any{"price", "category"}, body["missing_fields"])
}

func TestHandleError_Nil(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Zero(t, rec.Body.Len())
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/validate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELETE")
}

func TestMiddleware_RecoversPanics(t *testing.T) {
	h := newTestHandler()
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	for name, mw := range map[string]func(http.Handler) http.Handler{
		"error middleware": NewErrorMiddleware(h, slog.New(slog.NewJSONHandler(io.Discard, nil))).Handler,
		"recovery":         RecoveryMiddleware(h),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mw(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), TypeInternal)
		})
	}
}
