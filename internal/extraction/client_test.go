package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-events/backend/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.ExtractorConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Model:      "test-model",
		TimeoutSec: 5,
	}, nil)
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	assert.NoError(t, json.NewEncoder(w).Encode(reply))
}

func TestExtractParsesRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)

		chatReply(t, w, `{"students":[
			{"name":"Asha Verma","school":"Springfield High","grade":"10","contactNumber":"9876543210","email":"asha@example.com"},
			{"name":"Rohan Das","school":"Springfield High","grade":"11","contactNumber":"","email":""}
		]}`)
	})

	rows, err := client.Extract(context.Background(), "image/png", []byte("fake-png"))
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Asha Verma", rows[0].Name)
	assert.Equal(t, "10", rows[0].Grade)
	assert.Equal(t, "", rows[1].Email)
}

func TestExtractEmptyResultIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"students":[]}`)
	})

	rows, err := client.Extract(context.Background(), "application/pdf", []byte("fake-pdf"))
	assert.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

func TestExtractSurfacesModelError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded"},
		})
	})

	_, err := client.Extract(context.Background(), "image/jpeg", []byte("fake-jpg"))
	assert.ErrorContains(t, err, "rate limit exceeded")
}

func TestExtractUnconfigured(t *testing.T) {
	client := NewClient(config.ExtractorConfig{}, nil)
	_, err := client.Extract(context.Background(), "image/png", []byte("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
