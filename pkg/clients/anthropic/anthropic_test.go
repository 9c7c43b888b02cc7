package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateToCommand(t *testing.T) {
	var req messageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"text":"` + "```" + `\n/city 2024-01-01 150 Springfield\n` + "```" + `"}]}`))
	}))
	defer srv.Close()

	client := newClient("key", srv.URL)
	client.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	cmd, err := client.TranslateToCommand(context.Background(), "150 kilos from springfield today")
	require.NoError(t, err)
	assert.Equal(t, "/city 2024-01-01 150 Springfield", cmd)

	assert.Equal(t, model, req.Model)
	assert.Contains(t, req.System, "Today's date is 2024-01-01")
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "150 kilos from springfield today", req.Messages[0].Content)
}

func TestTranslateToCommandAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := newClient("key", srv.URL).TranslateToCommand(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCleanCommand(t *testing.T) {
	assert.Equal(t, "/report 2024-01-01", cleanCommand("/report 2024-01-01"))
	assert.Equal(t, "/report 2024-01-01", cleanCommand("Sure:\n\"/report 2024-01-01\""))
	assert.Equal(t, "", cleanCommand("NONE"))
	assert.Equal(t, "", cleanCommand("I cannot help with that"))
}
