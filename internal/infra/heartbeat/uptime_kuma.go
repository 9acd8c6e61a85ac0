package heartbeat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	domainHeartbeat "availability_notification_bot/internal/domain/heartbeat"
)

const defaultPushTimeout = 10 * time.Second

// UptimeKumaNotifier pushes liveness signals to an Uptime Kuma push monitor.
// The monitor URL already carries the push token; status and message ride in
// the query string.
type UptimeKumaNotifier struct {
	pushURL    string
	httpClient *http.Client
}

func NewUptimeKumaNotifier(pushURL string) *UptimeKumaNotifier {
	return &UptimeKumaNotifier{
		pushURL:    pushURL,
		httpClient: &http.Client{Timeout: defaultPushTimeout},
	}
}

func (n *UptimeKumaNotifier) Send(ctx context.Context, status domainHeartbeat.Status, msg string) error {
	params := url.Values{}
	params.Set("status", string(status))
	params.Set("msg", msg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.pushURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("error building heartbeat request: %w", err)
	}

	res, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error pushing heartbeat: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("heartbeat endpoint responded with status %d", res.StatusCode)
	}
	return nil
}
