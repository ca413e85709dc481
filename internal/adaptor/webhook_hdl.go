package adaptor

import (
	"encoding/json"
	"io"
	"net/http"

	"casaora/internal/dto/request"
	"casaora/internal/payments"
	"casaora/internal/usecase"
	"casaora/pkg/utils"

	"go.uber.org/zap"
)

const webhookSignatureHeader = "X-Webhook-Signature"

type WebhookHandler struct {
	service usecase.WebhookService
	config  *utils.Config
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.WebhookService, config *utils.Config, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		config:  config,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// HandleCMSEvent handles POST /api/webhooks/cms. The signature is computed
// over the raw body, so it is read before any decoding.
func (h *WebhookHandler) HandleCMSEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	signature := r.Header.Get(webhookSignatureHeader)
	if !payments.VerifyHMAC(body, signature, h.config.CMS.WebhookSecret) {
		h.log.Warn("CMS webhook signature rejected")
		utils.ResponseUnauthorized(w, "Invalid webhook signature")
		return
	}

	var event request.CMSWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(event); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.ProcessCMSEvent(r.Context(), &event); err != nil {
		handleServiceError(h.log, w, err, "process CMS event")
		return
	}

	// Unsupported document types are acknowledged too, so the CMS stops
	// retrying them.
	utils.ResponseSuccess(w, "success", nil)
}
