package mailgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Gateway represents an outbound transactional-mail gateway.
type Gateway interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// HTTPGateway posts messages to an HTTP mail provider.
type HTTPGateway struct {
	BaseURL     string
	APIKey      string
	FromAddress string
	client      *http.Client
}

// MockGateway logs messages instead of sending them, for local development.
type MockGateway struct{}

// NewHTTPGateway creates a new HTTP mail gateway.
func NewHTTPGateway(baseURL, apiKey, fromAddress string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		FromAddress: fromAddress,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMail posts one message to the provider.
func (g *HTTPGateway) SendMail(ctx context.Context, to, subject, body string) error {
	payload := map[string]string{
		"from":    g.FromAddress,
		"to":      to,
		"subject": subject,
		"body":    body,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/messages", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// SendMail logs the message.
func (g *MockGateway) SendMail(_ context.Context, to, subject, _ string) error {
	log.Printf("mock mail to %s: %s", to, subject)
	return nil
}
