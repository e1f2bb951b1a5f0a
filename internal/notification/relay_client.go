package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kmohsen11/Argos/internal/entity"
)

// RelayClient posts pre-order data to the mail relay endpoint.
type RelayClient struct {
	url    string
	client *http.Client
}

func NewRelayClient(url string, client *http.Client) *RelayClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RelayClient{url: url, client: client}
}

type relayError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *RelayClient) Notify(ctx context.Context, rec *entity.PreorderRecord) error {
	body, err := json.Marshal(rec.Request().Notification())
	if err != nil {
		return fmt.Errorf("failed to marshal relay body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	var re relayError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &re) == nil && re.Error != "" {
		if re.Message != "" {
			return fmt.Errorf("relay returned %d: %s: %s", resp.StatusCode, re.Error, re.Message)
		}
		return fmt.Errorf("relay returned %d: %s", resp.StatusCode, re.Error)
	}
	return fmt.Errorf("relay returned %d", resp.StatusCode)
}
