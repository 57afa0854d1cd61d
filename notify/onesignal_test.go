package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"yumzy-partner/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {
	var got map[string]any
	var auth, ctype string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		ctype = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"n1"}`))
	}))
	defer srv.Close()

	c := NewClient(config.OneSignalConfig{AppID: "app-1", APIKey: "key-1", APIURL: srv.URL})
	n := newNotification([]string{"p1"}, "Hi", "Body", map[string]any{"orderId": "o1"})
	require.NoError(t, c.Send(context.Background(), n))

	assert.Equal(t, "Basic key-1", auth)
	assert.Contains(t, ctype, "application/json")
	assert.Equal(t, "app-1", got["app_id"])
	assert.Equal(t, []any{"p1"}, got["include_player_ids"])
	assert.Equal(t, map[string]any{"en": "Hi"}, got["headings"])
	assert.Equal(t, map[string]any{"en": "Body"}, got["contents"])
	assert.Equal(t, map[string]any{"orderId": "o1"}, got["data"])
}

func TestClientSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":["invalid player ids"]}`))
	}))
	defer srv.Close()

	c := NewClient(config.OneSignalConfig{AppID: "app-1", APIKey: "key-1", APIURL: srv.URL})
	err := c.Send(context.Background(), newNotification([]string{"p1"}, "h", "c", nil))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid player ids")
}
