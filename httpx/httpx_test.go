package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mbolis/work-requests/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseBufferFlush(t *testing.T) {
	buf := NewResponseBuffer()
	assert.Nil(t, buf.Body())

	buf.Header().Set("content-type", "application/json")
	buf.WriteHeader(http.StatusTeapot)
	_, err := buf.Write([]byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, buf.Status())

	rec := httptest.NewRecorder()
	require.NoError(t, buf.Flush(rec))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("content-type"))
	assert.Equal(t, `{"ok":true}`, rec.Body.String())
}

func TestResponseBufferFlushEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewResponseBuffer().Flush(rec))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestLogValidation(t *testing.T) {
	req := httptest.NewRequest("POST", "/", nil)
	rec := httptest.NewRecorder()
	LogValidation(rec, req, "request.test", map[string]string{"name": "This field is required."})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := struct {
		Errors map[string]string `json:"errors"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"name": "This field is required."}, body.Errors)
}

func TestLogStatusMsg(t *testing.T) {
	rec := httptest.NewRecorder()
	LogStatusMsg(rec, http.StatusConflict, log.DebugLevel, "test.conflict", "order changed (%d)", 3)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "order changed (3)")
}
