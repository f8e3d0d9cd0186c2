package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/middleware"
)

func requestWithParam(name, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestValidateUUIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantCalled bool
		wantStatus int
	}{
		{"passes through valid UUID", "550e8400-e29b-41d4-a716-446655440000", true, http.StatusOK},
		{"returns 400 for invalid UUID", "invalid-id", false, http.StatusBadRequest},
		{"returns 400 for empty UUID", "", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			middleware.ValidateUUIDMiddleware(next).ServeHTTP(w, requestWithParam("uuid", tt.value))

			assert.Equal(t, tt.wantCalled, handlerCalled)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestValidateUUIDParam(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mw := middleware.ValidateUUIDParam("transactionId")(next)

	w := httptest.NewRecorder()
	mw.ServeHTTP(w, requestWithParam("transactionId", "550e8400-e29b-41d4-a716-446655440000"))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	mw.ServeHTTP(w, requestWithParam("transactionId", "42"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
