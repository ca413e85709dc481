package request

type CreateDisputeRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
	Reason    string `json:"reason" validate:"required,min=10,max=2000"`
}

type ResolveDisputeRequest struct {
	ResolutionType string `json:"resolution_type" validate:"required,oneof=refund warning suspension no_action"`
	Action         string `json:"action" validate:"max=1000"`
	SuspensionDays int    `json:"suspension_days" validate:"omitempty,min=1,max=365"`
}
