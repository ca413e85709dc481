package wire

import (
	"casaora/internal/adaptor"
	"casaora/internal/data/repository"
	"casaora/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireFeedback(
	r chi.Router,
	feedbackHandler *adaptor.FeedbackHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Anonymous submissions allowed
	r.Post("/api/feedback", feedbackHandler.SubmitFeedback)

	r.Route("/api/admin/feedback", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Get("/", feedbackHandler.ListRecent)
	})
}
