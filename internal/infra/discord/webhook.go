package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"availability_notification_bot/internal/domain/dispatch"
)

const defaultSendTimeout = 15 * time.Second

// webhookPayload is the execute-webhook body Discord expects.
type webhookPayload struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Content   string `json:"content"`
}

// WebhookSender delivers message bodies to Discord webhook channels.
type WebhookSender struct {
	username   string
	avatarURL  string
	httpClient *http.Client
}

func NewWebhookSender(username, avatarURL string) *WebhookSender {
	return &WebhookSender{
		username:   username,
		avatarURL:  avatarURL,
		httpClient: &http.Client{Timeout: defaultSendTimeout},
	}
}

// Send posts the body to the channel's webhook URL. A non-2xx response is an
// error carrying the status, status text, and response body for diagnostics.
func (s *WebhookSender) Send(ctx context.Context, ch dispatch.ChannelConfig, body string) error {
	payload, err := json.Marshal(webhookPayload{
		Username:  s.username,
		AvatarURL: s.avatarURL,
		Content:   body,
	})
	if err != nil {
		return fmt.Errorf("error encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ch.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending message to Discord: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("discord does not respond with OK status: status=%d statusText=%q body=%q",
			res.StatusCode, http.StatusText(res.StatusCode), string(resBody))
	}
	return nil
}
