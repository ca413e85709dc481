package wire

import (
	"casaora/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWebhook(
	r chi.Router,
	webhookHandler *adaptor.WebhookHandler,
	cronHandler *adaptor.CronHandler,
) {
	// Authenticated by HMAC signature, not by session.
	r.Post("/api/webhooks/cms", webhookHandler.HandleCMSEvent)

	// Authenticated by the cron bearer secret.
	r.Post("/api/cron/clear-balances", cronHandler.ClearBalances)
}
