package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/response"
)

func TestRespondJSON(t *testing.T) {
	t.Run("sets content-type and status code correctly", func(t *testing.T) {
		w := httptest.NewRecorder()

		response.RespondJSON(w, http.StatusOK, map[string]string{"message": "success"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"message":"success"}`, w.Body.String())
	})

	t.Run("handles nil data without body", func(t *testing.T) {
		w := httptest.NewRecorder()

		response.RespondJSON(w, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("handles un-encodable data gracefully", func(t *testing.T) {
		w := httptest.NewRecorder()

		// Channels cannot be JSON encoded
		response.RespondJSON(w, http.StatusOK, map[string]any{"channel": make(chan int)})

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()

	response.RespondError(w, http.StatusNotFound, "portfolio not found", "no such id")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "portfolio not found", body.Error)
	assert.Equal(t, "no such id", body.Details)
}
