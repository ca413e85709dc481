package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Intent statuses reported by the processor.
const (
	IntentStatusRequiresConfirmation = "requires_confirmation"
	IntentStatusRequiresCapture      = "requires_capture" // funds held
	IntentStatusSucceeded            = "succeeded"
	IntentStatusCanceled             = "canceled"
)

// Intent mirrors the processor's payment-intent object.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	AmountMinor  int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Held reports whether the intent holds an uncaptured authorization.
func (i *Intent) Held() bool {
	return i.Status == IntentStatusRequiresCapture
}

type AuthorizeRequest struct {
	AmountMinor int64             `json:"amount"`
	Currency    string            `json:"currency"`
	CustomerRef string            `json:"customer_ref"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// IntentClient is a minimal client for the intent-based processor. Charges
// are created in manual-capture mode: Authorize holds funds, Capture charges
// them, Cancel releases the hold.
type IntentClient struct {
	httpClient *http.Client
	baseURL    string
	merchantID string
	secret     string
}

func NewIntentClient(httpClient *http.Client, baseURL, merchantID, secret string) *IntentClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &IntentClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		merchantID: merchantID,
		secret:     secret,
	}
}

// Authorize creates a manual-capture intent and returns its id, client secret
// and status.
func (c *IntentClient) Authorize(ctx context.Context, req AuthorizeRequest) (*Intent, error) {
	payload := map[string]any{
		"merchant_id":    c.merchantID,
		"amount":         req.AmountMinor,
		"currency":       req.Currency,
		"customer_ref":   req.CustomerRef,
		"capture_method": "manual",
		"metadata":       req.Metadata,
	}
	return c.post(ctx, "/v1/intents", payload)
}

// Capture charges previously held funds. amountMinor must not exceed the
// authorized amount.
func (c *IntentClient) Capture(ctx context.Context, intentID string, amountMinor int64) (*Intent, error) {
	payload := map[string]any{
		"merchant_id": c.merchantID,
		"amount":      amountMinor,
	}
	return c.post(ctx, fmt.Sprintf("/v1/intents/%s/capture", intentID), payload)
}

// Cancel releases an uncaptured hold.
func (c *IntentClient) Cancel(ctx context.Context, intentID string) error {
	payload := map[string]any{"merchant_id": c.merchantID}
	_, err := c.post(ctx, fmt.Sprintf("/v1/intents/%s/cancel", intentID), payload)
	return err
}

// Refund returns captured funds. amountMinor must not exceed the captured
// amount.
func (c *IntentClient) Refund(ctx context.Context, intentID string, amountMinor int64) (*Intent, error) {
	payload := map[string]any{
		"merchant_id": c.merchantID,
		"amount":      amountMinor,
	}
	return c.post(ctx, fmt.Sprintf("/v1/intents/%s/refund", intentID), payload)
}

// Retrieve reads the current intent state from the processor.
func (c *IntentClient) Retrieve(ctx context.Context, intentID string) (*Intent, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/intents/"+intentID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("X-Merchant-Id", c.merchantID)
	httpReq.Header.Set("X-Signature", Sign([]byte(intentID), c.secret))

	return c.do(httpReq)
}

func (c *IntentClient) post(ctx context.Context, path string, payload map[string]any) (*Intent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Merchant-Id", c.merchantID)
	httpReq.Header.Set("X-Signature", Sign(body, c.secret))

	return c.do(httpReq)
}

func (c *IntentClient) do(httpReq *http.Request) (*Intent, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment processor: unexpected status %s", resp.Status)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("payment processor: decode response: %w", err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("payment processor: response missing intent id")
	}
	return &intent, nil
}
