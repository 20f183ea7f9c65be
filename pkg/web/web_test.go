package web

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_RespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, discardLogger(), http.StatusCreated, map[string]any{"id": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())
}

func Test_RespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondError(rec, discardLogger(), http.StatusNotFound, "Product with ID 3 not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product with ID 3 not found"}`, rec.Body.String())
}

func Test_ParseID(t *testing.T) {
	testCases := []struct {
		name       string
		id         string
		expectedOK bool
		expectedID int64
	}{
		{name: "valid", id: "12", expectedOK: true, expectedID: 12},
		{name: "zero", id: "0", expectedOK: false},
		{name: "overflow", id: "99999999999999999999", expectedOK: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("id", tc.id)
			rec := httptest.NewRecorder()

			id, ok := ParseID(rec, req, discardLogger())

			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedID, id)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func Test_QueryID(t *testing.T) {
	id, ok := QueryID(httptest.NewRequest(http.MethodGet, "/?edit=5", nil), "edit")
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)

	_, ok = QueryID(httptest.NewRequest(http.MethodGet, "/?edit=abc", nil), "edit")
	assert.False(t, ok)

	_, ok = QueryID(httptest.NewRequest(http.MethodGet, "/", nil), "edit")
	assert.False(t, ok)
}

func Test_Recoverer(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Recoverer(discardLogger()))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func Test_RequestIDInjector(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestIDInjector)
	r.Get("/", func(_ http.ResponseWriter, r *http.Request) {
		got = RequestID(r.Context())
	})
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, got)
	assert.Equal(t, got, rec.Header().Get(RequestIDHeader))
}

func Test_RequestIDInjector_GeneratesID(t *testing.T) {
	var got string
	handler := RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = RequestID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func Test_RequestID_Missing(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}

func Test_StructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(StructuredLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), `"msg":"Request completed"`)
	assert.Contains(t, buf.String(), `"status":418`)
}
