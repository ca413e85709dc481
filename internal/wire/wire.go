// internal/wire/wire.go
package wire

import (
	"net/http"

	"casaora/internal/adaptor"
	"casaora/internal/data/repository"
	"casaora/internal/usecase"
	"casaora/pkg/middleware"
	"casaora/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired router.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes services, handlers and routes.
func Wiring(repo *repository.Repository, config *utils.Config, deps usecase.Deps, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, deps, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, repo, logger)
	wireProfile(r, handler.Profile, repo, logger)
	wireBooking(r, handler.Booking, handler.Payment, repo, logger)
	wirePayout(r, handler.Payout, repo, logger)
	wireDispute(r, handler.Dispute, repo, logger)
	wireReview(r, handler.Review, repo, logger)
	wireFeedback(r, handler.Feedback, repo, logger)
	wireWebhook(r, handler.Webhook, handler.Cron)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
