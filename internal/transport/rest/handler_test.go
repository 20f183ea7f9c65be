package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	products  []service.ProductDto
	id        int64
	error     error
	lastID    int64
	lastInput service.ProductInput
	called    bool
}

func (m *mockProductService) FindAll(_ context.Context) ([]service.ProductDto, error) {
	m.called = true
	return m.products, m.error
}

func (m *mockProductService) Create(_ context.Context, input service.ProductInput) (int64, error) {
	m.called = true
	m.lastInput = input
	return m.id, m.error
}

func (m *mockProductService) Update(_ context.Context, id int64, input service.ProductInput) error {
	m.called = true
	m.lastID, m.lastInput = id, input
	return m.error
}

func (m *mockProductService) DeleteByID(_ context.Context, id int64) error {
	m.called = true
	m.lastID = id
	return m.error
}

func newRouter(svc service.ProductService) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

var errStore = errors.New("store unavailable")

func Test_Handler_FindAll(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - products found",
			mockService: &mockProductService{products: []service.ProductDto{
				{ID: 1, Nombre: "Widget", Precio: "9.99", Stock: 5},
				{ID: 2, Nombre: "Gadget", Precio: "20.00", Stock: 0},
			}},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"nombre":"Widget","precio":"9.99","stock":5},{"id":2,"nombre":"Gadget","precio":"20.00","stock":0}]`,
		},
		{
			name:         "Success - empty list",
			mockService:  &mockProductService{products: []service.ProductDto{}},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errStore},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to fetch products"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			rr := serve(newRouter(tc.mockService), http.MethodGet, "/api/productos", "")

			// then
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_Create(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		body         string
		expectedCode int
		expectedBody string
		expectCalled bool
	}{
		{
			name:         "Success - numeric price",
			mockService:  &mockProductService{id: 7},
			body:         `{"nombre":"Widget","precio":9.99,"stock":5}`,
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":7,"message":"Product created successfully"}`,
			expectCalled: true,
		},
		{
			name:         "Success - string price",
			mockService:  &mockProductService{id: 8},
			body:         `{"nombre":"Widget","precio":"9.99","stock":5}`,
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":8,"message":"Product created successfully"}`,
			expectCalled: true,
		},
		{
			name:         "Error - malformed body",
			mockService:  &mockProductService{},
			body:         `{"nombre":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
		{
			name:         "Error - non numeric stock",
			mockService:  &mockProductService{},
			body:         `{"nombre":"Widget","precio":1,"stock":"many"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
		{
			name: "Error - validation failed",
			mockService: &mockProductService{error: perrors.NewValidationError(map[string]string{
				"precio": "failed on rule: required",
			})},
			body:         `{"nombre":"Widget","stock":5}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"precio":"failed on rule: required"}}`,
			expectCalled: true,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errStore},
			body:         `{"nombre":"Widget","precio":9.99,"stock":5}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to create product"}`,
			expectCalled: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			rr := serve(newRouter(tc.mockService), http.MethodPost, "/api/productos", tc.body)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			assert.Equal(t, tc.expectCalled, tc.mockService.called)
		})
	}
}

func Test_Handler_Create_DecodesInput(t *testing.T) {
	svc := &mockProductService{id: 1}

	rr := serve(newRouter(svc), http.MethodPost, "/api/productos", `{"nombre":"Widget","precio":"9.99","stock":5}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Widget", svc.lastInput.Nombre)
	require.NotNil(t, svc.lastInput.Precio)
	assert.Equal(t, "9.99", svc.lastInput.Precio.StringFixed(2))
	require.NotNil(t, svc.lastInput.Stock)
	assert.Equal(t, int32(5), *svc.lastInput.Stock)
}

// countingStore accepts every write and counts them
type countingStore struct {
	inserts int
}

func (s *countingStore) List(context.Context) ([]db.Product, error) { return nil, nil }
func (s *countingStore) Insert(context.Context, string, decimal.Decimal, int32) (int64, error) {
	s.inserts++
	return int64(s.inserts), nil
}
func (s *countingStore) Update(context.Context, int64, string, decimal.Decimal, int32) error {
	return nil
}
func (s *countingStore) Delete(context.Context, int64) error { return nil }

func Test_Handler_Create_PriceBounds(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		expectedCode  int
		expectedBody  string
		expectInserts int
	}{
		{
			name:          "Success - largest storable price",
			body:          `{"nombre":"W","precio":99999999.99,"stock":1}`,
			expectedCode:  http.StatusCreated,
			expectedBody:  `{"id":1,"message":"Product created successfully"}`,
			expectInserts: 1,
		},
		{
			name:         "Error - price above the column",
			body:         `{"nombre":"W","precio":100000000,"stock":1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"precio":"failed on rule: max"}}`,
		},
		{
			name:         "Error - huge exponent number",
			body:         `{"nombre":"W","precio":1e99999999,"stock":1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"precio":"failed on rule: decimal_range"}}`,
		},
		{
			name:         "Error - huge exponent string",
			body:         `{"nombre":"W","precio":"1e99999999","stock":1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"precio":"failed on rule: decimal_range"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			store := &countingStore{}
			router := newRouter(service.NewService(store, nil))
			// when
			done := make(chan *httptest.ResponseRecorder, 1)
			go func() { done <- serve(router, http.MethodPost, "/api/productos", tc.body) }()
			var rr *httptest.ResponseRecorder
			select {
			case rr = <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("create request did not finish")
			}
			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			assert.Equal(t, tc.expectInserts, store.inserts)
		})
	}
}

func Test_Handler_Update(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		target       string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product updated",
			mockService:  &mockProductService{},
			target:       "/api/productos/3",
			body:         `{"nombre":"Widget","precio":1.5,"stock":2}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Product updated successfully"}`,
		},
		{
			name:         "Error - product not found",
			mockService:  &mockProductService{error: perrors.ErrProductNotFound},
			target:       "/api/productos/999",
			body:         `{"nombre":"Widget","precio":1.5,"stock":2}`,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product with ID 999 not found"}`,
		},
		{
			name:         "Error - malformed body",
			mockService:  &mockProductService{},
			target:       "/api/productos/3",
			body:         `not json`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
		{
			name:         "Error - id overflows int64",
			mockService:  &mockProductService{},
			target:       "/api/productos/99999999999999999999",
			body:         `{"nombre":"Widget","precio":1.5,"stock":2}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid ID: 99999999999999999999"}`,
		},
		{
			name: "Error - validation failed",
			mockService: &mockProductService{error: perrors.NewValidationError(map[string]string{
				"stock": "failed on rule: min",
			})},
			target:       "/api/productos/3",
			body:         `{"nombre":"Widget","precio":1.5,"stock":-1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"stock":"failed on rule: min"}}`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errStore},
			target:       "/api/productos/3",
			body:         `{"nombre":"Widget","precio":1.5,"stock":2}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to update product with ID 3"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			rr := serve(newRouter(tc.mockService), http.MethodPut, tc.target, tc.body)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		target       string
		expectedCode int
		expectedBody string
		expectedID   int64
	}{
		{
			name:         "Success - product deleted",
			mockService:  &mockProductService{},
			target:       "/api/productos/4",
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Product deleted successfully"}`,
			expectedID:   4,
		},
		{
			name:         "Error - product not found",
			mockService:  &mockProductService{error: perrors.ErrProductNotFound},
			target:       "/api/productos/5",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product with ID 5 not found"}`,
			expectedID:   5,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errStore},
			target:       "/api/productos/6",
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to delete product with ID 6"}`,
			expectedID:   6,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			rr := serve(newRouter(tc.mockService), http.MethodDelete, tc.target, "")

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			assert.Equal(t, tc.expectedID, tc.mockService.lastID)
		})
	}
}

func Test_Handler_UnmatchedPaths(t *testing.T) {
	testCases := []struct {
		name   string
		method string
		target string
	}{
		{name: "non numeric id on update", method: http.MethodPut, target: "/api/productos/abc"},
		{name: "non numeric id on delete", method: http.MethodDelete, target: "/api/productos/1x"},
		{name: "nested path", method: http.MethodDelete, target: "/api/productos/1/extra"},
		{name: "unknown subpath", method: http.MethodGet, target: "/api/productos/stock/all"},
		{name: "get single product", method: http.MethodGet, target: "/api/productos/3"},
		{name: "post to product id", method: http.MethodPost, target: "/api/productos/3"},
		{name: "delete collection", method: http.MethodDelete, target: "/api/productos"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockProductService{}

			rr := serve(newRouter(svc), tc.method, tc.target, "")

			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.False(t, svc.called)
		})
	}
}

func Test_Handler_HealthCheck(t *testing.T) {
	rr := serve(newRouter(&mockProductService{}), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rr.Code)
}
