package wire

import (
	"casaora/internal/adaptor"
	"casaora/internal/data/repository"
	"casaora/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireDispute(
	r chi.Router,
	disputeHandler *adaptor.DisputeHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/api/disputes", disputeHandler.CreateDispute)
	})

	r.Route("/api/admin/disputes", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Get("/", disputeHandler.ListOpenDisputes)
		r.Post("/{id}/resolve", disputeHandler.ResolveDispute)
	})
}
