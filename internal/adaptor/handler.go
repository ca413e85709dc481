package adaptor

import (
	"net/http"
	"strings"

	"casaora/internal/usecase"
	"casaora/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
	Payout   *PayoutHandler
	Dispute  *DisputeHandler
	Review   *ReviewHandler
	Feedback *FeedbackHandler
	Webhook  *WebhookHandler
	Cron     *CronHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Profile:  NewProfileHandler(service.Profile, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Payment:  NewPaymentHandler(service.Payment, log),
		Payout:   NewPayoutHandler(service.Payout, log),
		Dispute:  NewDisputeHandler(service.Dispute, log),
		Review:   NewReviewHandler(service.Review, log),
		Feedback: NewFeedbackHandler(service.Feedback, log),
		Webhook:  NewWebhookHandler(service.Webhook, config, log),
		Cron:     NewCronHandler(service.Payout, config, log),
	}
}

// handleServiceError maps service error text onto HTTP codes. Shared by all
// handlers so the mapping stays in one place.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "forbidden"):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case strings.Contains(errMsg, "invalid email or password"):
		log.Warn(operation+" failed - bad credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"),
		strings.Contains(errMsg, "already"),
		strings.Contains(errMsg, "cannot"),
		strings.Contains(errMsg, "concurrently"):
		log.Warn(operation+" failed - rejected", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
