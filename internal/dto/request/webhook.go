package request

// CMSWebhookEvent is the trimmed payload of a CMS change notification. Only
// the document identity is trusted; document content is re-fetched.
type CMSWebhookEvent struct {
	DocumentID string `json:"document_id" validate:"required"`
	Type       string `json:"type" validate:"required"`
	Operation  string `json:"operation" validate:"required,oneof=create update delete"`
}
