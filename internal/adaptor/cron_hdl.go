package adaptor

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"casaora/internal/usecase"
	"casaora/pkg/utils"

	"go.uber.org/zap"
)

// CronHandler exposes scheduled job bodies over HTTP so an external scheduler
// can drive them in addition to the in-process cron.
type CronHandler struct {
	payouts usecase.PayoutService
	config  *utils.Config
	log     *zap.Logger
}

func NewCronHandler(payouts usecase.PayoutService, config *utils.Config, log *zap.Logger) *CronHandler {
	return &CronHandler{
		payouts: payouts,
		config:  config,
		log:     log.With(zap.String("handler", "cron")),
	}
}

// ClearBalances handles POST /api/cron/clear-balances. In production the
// bearer secret is mandatory; without it the endpoint refuses to run.
func (h *CronHandler) ClearBalances(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		utils.ResponseUnauthorized(w, "Invalid cron secret")
		return
	}

	result, err := h.payouts.ClearBalances(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "clear balances")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

func (h *CronHandler) authorized(r *http.Request) bool {
	secret := h.config.Cron.Secret
	if secret == "" {
		if h.config.App.IsProduction() {
			h.log.Error("Cron secret not configured in production, refusing request")
			return false
		}
		return true
	}

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
