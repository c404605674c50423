// Package email implements the outbound email port over an HTTP JSON
// delivery API (Postmark-compatible). The service never speaks SMTP itself;
// it hands fully rendered messages to the provider and treats any non-2xx
// answer as a delivery failure.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/domain"
	"github.com/dmitrijs2005/newsletter/internal/secret"
)

const serverTokenHeader = "X-Postmark-Server-Token"

// Email is one outbound message.
type Email struct {
	To       domain.SubscriberEmail
	Subject  string
	HTMLBody string
	TextBody string
}

// Client sends email through the provider's REST endpoint. It is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sender     domain.SubscriberEmail
	authToken  secret.String
}

// NewClient builds a Client. baseURL is the provider endpoint without a
// trailing path, sender the verified from-address, authToken the server API
// token. The timeout bounds each send, connection setup included.
func NewClient(baseURL string, sender domain.SubscriberEmail, authToken secret.String, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		sender:     sender,
		authToken:  authToken,
	}
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendEmail delivers one message. Failures (transport, non-2xx status) are
// reported as common.ErrEmailDelivery so callers can treat them uniformly as
// retryable.
func (c *Client) SendEmail(ctx context.Context, msg Email) error {
	payload := sendEmailRequest{
		From:     c.sender.String(),
		To:       msg.To.String(),
		Subject:  msg.Subject,
		HTMLBody: msg.HTMLBody,
		TextBody: msg.TextBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(serverTokenHeader, c.authToken.ExposeSecret())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrEmailDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body content is
		// provider diagnostics we do not surface to callers.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: provider returned status %d", common.ErrEmailDelivery, resp.StatusCode)
	}

	return nil
}
