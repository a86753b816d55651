package paymentgateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// Order is a payment order created with the gateway. The client completes
// the payment against OrderID and the backend verifies the callback
// signature before crediting the wallet.
type Order struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}

// Client talks to the external payment gateway.
type Client struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	MockAPI   bool
	client    *http.Client

	mu         sync.Mutex
	mockOrders map[string]*Order
}

// NewClient creates a new payment gateway client.
func NewClient(baseURL, keyID, keySecret string, mockAPI bool) *Client {
	return &Client{
		BaseURL:    baseURL,
		KeyID:      keyID,
		KeySecret:  keySecret,
		MockAPI:    mockAPI,
		client:     &http.Client{Timeout: 10 * time.Second},
		mockOrders: make(map[string]*Order),
	}
}

// CreateOrder registers a payment order with the gateway. Amounts are sent
// in the smallest currency unit.
func (c *Client) CreateOrder(ctx context.Context, amount float64, receipt string) (*Order, error) {
	if c.MockAPI {
		return c.mockCreateOrder(amount)
	}

	payload := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": "INR",
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var raw struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return &Order{
		OrderID:  raw.ID,
		Amount:   float64(raw.Amount) / 100,
		Currency: raw.Currency,
		Status:   raw.Status,
	}, nil
}

// FetchOrder retrieves the authoritative state of an order.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	if c.MockAPI {
		c.mu.Lock()
		defer c.mu.Unlock()
		order, ok := c.mockOrders[orderID]
		if !ok {
			return nil, fmt.Errorf("unknown mock order %s", orderID)
		}
		// A fetched mock order is considered paid.
		order.Status = "paid"
		return order, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/orders/"+orderID, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var raw struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return &Order{
		OrderID:  raw.ID,
		Amount:   float64(raw.Amount) / 100,
		Currency: raw.Currency,
		Status:   raw.Status,
	}, nil
}

// VerifySignature checks the HMAC-SHA256 signature of a payment callback.
// The signed message is "<orderID>|<paymentID>".
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.KeySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// mockCreateOrder fabricates an order for local development.
func (c *Client) mockCreateOrder(amount float64) (*Order, error) {
	order := &Order{
		OrderID:  fmt.Sprintf("order_mock_%012d", rand.Int63n(1000000000000)),
		Amount:   amount,
		Currency: "INR",
		Status:   "created",
	}
	c.mu.Lock()
	c.mockOrders[order.OrderID] = order
	c.mu.Unlock()
	return order, nil
}
