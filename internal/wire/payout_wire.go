package wire

import (
	"casaora/internal/adaptor"
	"casaora/internal/data/repository"
	"casaora/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayout(
	r chi.Router,
	payoutHandler *adaptor.PayoutHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/payouts", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Professional(repo.User, log))

		r.Get("/", payoutHandler.ListPayouts)
		r.Get("/balance", payoutHandler.GetBalance)
		r.Get("/summary", payoutHandler.GetSummary)
		r.Get("/pending", payoutHandler.GetPending)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/api/admin/payouts/run", payoutHandler.RunPayouts)
	})
}
