package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OrderCaptureCompleted is the only capture status that marks a booking paid.
const OrderCaptureCompleted = "COMPLETED"

type Order struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ApproveLink string `json:"approve_link,omitempty"`
}

type OrderCapture struct {
	OrderID   string `json:"order_id"`
	CaptureID string `json:"capture_id"`
	Status    string `json:"status"`
}

// Completed reports whether the capture finished in full.
func (c *OrderCapture) Completed() bool {
	return c.Status == OrderCaptureCompleted
}

// OrderClient talks to the order-based processor: an order is created and
// approved by the customer, then captured by us.
type OrderClient struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

func NewOrderClient(httpClient *http.Client, baseURL, clientID, secret string) *OrderClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &OrderClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
	}
}

// CreateOrder opens an order for the given amount.
func (c *OrderClient) CreateOrder(ctx context.Context, amountMinor int64, currency, reference string) (*Order, error) {
	payload := map[string]any{
		"amount":    amountMinor,
		"currency":  currency,
		"reference": reference,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.clientID, c.secret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("order processor: unexpected status %s", resp.Status)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("order processor: decode response: %w", err)
	}
	return &order, nil
}

// CaptureOrder captures an approved order. Callers must check that the
// returned status is exactly COMPLETED before treating the booking as paid.
func (c *OrderClient) CaptureOrder(ctx context.Context, orderID string) (*OrderCapture, error) {
	url := fmt.Sprintf("%s/v2/orders/%s/capture", c.baseURL, orderID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte(`{}`)))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.clientID, c.secret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("order processor: capture %s: unexpected status %s", orderID, resp.Status)
	}

	var apiResp struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Captures []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"captures"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("order processor: decode capture response: %w", err)
	}

	capture := &OrderCapture{OrderID: apiResp.ID, Status: apiResp.Status}
	if len(apiResp.Captures) > 0 {
		capture.CaptureID = apiResp.Captures[0].ID
		// order status can lag; the capture record is authoritative
		capture.Status = apiResp.Captures[0].Status
	}
	return capture, nil
}
