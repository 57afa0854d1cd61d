package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"yumzy-partner/config"
)

// Notification is a OneSignal create-notification request.
type Notification struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	Data             map[string]any    `json:"data,omitempty"`
}

func newNotification(playerIDs []string, heading, content string, data map[string]any) Notification {
	return Notification{
		IncludePlayerIDs: playerIDs,
		Headings:         map[string]string{"en": heading},
		Contents:         map[string]string{"en": content},
		Data:             data,
	}
}

// Sender delivers a push notification.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// APIError is a non-2xx answer from the push provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("onesignal: status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	appID  string
	apiKey string
	url    string
	http   *http.Client
}

func NewClient(cfg config.OneSignalConfig) *Client {
	return &Client{
		appID:  cfg.AppID,
		apiKey: cfg.APIKey,
		url:    cfg.APIURL,
		http:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the notification. The app id is always taken from the client.
func (c *Client) Send(ctx context.Context, n Notification) error {
	n.AppID = c.appID
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("onesignal request: %w", err)
	}
	defer res.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{StatusCode: res.StatusCode, Body: string(respBody)}
	}
	return nil
}
