package response

type PaymentIntentResponse struct {
	BookingID    string `json:"booking_id"`
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Status       string `json:"status"`
}

type OrderResponse struct {
	BookingID   string `json:"booking_id"`
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	ApproveLink string `json:"approve_link,omitempty"`
}

type CaptureResponse struct {
	BookingID       string `json:"booking_id"`
	OrderID         string `json:"order_id"`
	CaptureID       string `json:"capture_id,omitempty"`
	Status          string `json:"status"`
	AlreadyCaptured bool   `json:"already_captured"`
}
