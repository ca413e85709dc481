package wire

import (
	"casaora/internal/adaptor"
	"casaora/internal/data/repository"
	"casaora/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireProfile(
	r chi.Router,
	profileHandler *adaptor.ProfileHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Public directory; "me" is routed before the slug wildcard.
	r.Get("/api/professionals", profileHandler.ListProfiles)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Professional(repo.User, log))

		r.Get("/api/professionals/me", profileHandler.GetMyProfile)
		r.Put("/api/professionals/me", profileHandler.UpsertMyProfile)
	})

	r.Get("/api/professionals/{slug}", profileHandler.GetBySlug)
}
