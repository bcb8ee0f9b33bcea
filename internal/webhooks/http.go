package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cwl2slack/internal/constants"
	"cwl2slack/internal/payloads"
	"cwl2slack/internal/util"
	"cwl2slack/log"
)

// maxResponseBody caps how much of the webhook reply is kept for logging.
const maxResponseBody = 1 << 20

// HTTPClient is the subset of *http.Client the webhook uses.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HttpWebhook posts notification payloads to a Slack-compatible incoming webhook.
type HttpWebhook struct {
	WebhookUrl string
	Client     HTTPClient
}

func NewHttpWebhook(url string, timeout time.Duration) *HttpWebhook {
	return &HttpWebhook{
		WebhookUrl: url,
		Client:     &http.Client{Timeout: timeout},
	}
}

// Send makes a single POST attempt and returns the response body. Any
// transport failure or non-2xx status is a delivery error.
func (h *HttpWebhook) Send(ctx context.Context, payload payloads.NotificationPayload) (string, error) {
	data, mErr := json.Marshal(payload)
	if mErr != nil {
		log.Logger().Debugf("Error marshalling payload: %s", mErr)
		return "", util.NewDeliveryError(mErr, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.WebhookUrl, bytes.NewBuffer(data))
	if err != nil {
		log.Logger().Debugf("Error creating request: %s", err)
		return "", util.NewDeliveryError(err, "build request")
	}
	req.Header.Set("Content-Type", constants.ContentTypeJSONUTF)

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: constants.DefaultWebhookTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Logger().Debugf("Error sending request: %s", err)
		return "", util.NewDeliveryError(err, "POST webhook")
	}
	defer func(Body io.ReadCloser) {
		if cErr := Body.Close(); cErr != nil {
			log.Logger().Errorf("Error closing response body: %s", cErr)
		}
	}(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", util.NewDeliveryError(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return string(body), util.NewDeliveryError(nil, fmt.Sprintf("webhook returned %s: %s", resp.Status, body))
	}

	log.Logger().Debugf("Success sending webhook: %s", resp.Status)
	return string(body), nil
}
