package wire

import (
	"casaora/internal/adaptor"
	"casaora/internal/data/repository"
	"casaora/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/", bookingHandler.GetMyBookings)
		r.Get("/{id}", bookingHandler.GetBooking)

		// Customer actions
		r.Post("/{id}/confirm-payment", bookingHandler.ConfirmPayment)
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)
		r.Post("/{id}/rebook", bookingHandler.Rebook)
		r.Post("/{id}/order", paymentHandler.CreateOrder)
		r.Post("/{id}/capture", paymentHandler.CaptureOrder)

		// Professional actions
		r.Group(func(r chi.Router) {
			r.Use(middleware.Professional(repo.User, log))

			r.Post("/{id}/accept", bookingHandler.AcceptBooking)
			r.Post("/{id}/decline", bookingHandler.DeclineBooking)
			r.Post("/{id}/check-in", bookingHandler.CheckIn)
			r.Post("/{id}/complete", bookingHandler.CompleteBooking)
		})
	})
}
