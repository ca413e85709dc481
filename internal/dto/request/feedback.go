package request

type CreateFeedbackRequest struct {
	Category string `json:"category" validate:"required,oneof=bug idea complaint other"`
	Message  string `json:"message" validate:"required,min=5,max=4000"`
}
