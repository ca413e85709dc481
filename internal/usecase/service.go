package usecase

import (
	"context"

	"casaora/internal/cms"
	"casaora/internal/data/repository"
	"casaora/internal/payments"
	"casaora/internal/search"
	"casaora/pkg/utils"

	"go.uber.org/zap"
)

// IntentProcessor is the authorize/capture payment processor.
// *payments.IntentClient satisfies it; tests use stubs.
type IntentProcessor interface {
	Authorize(ctx context.Context, req payments.AuthorizeRequest) (*payments.Intent, error)
	Capture(ctx context.Context, intentID string, amountMinor int64) (*payments.Intent, error)
	Cancel(ctx context.Context, intentID string) error
	Refund(ctx context.Context, intentID string, amountMinor int64) (*payments.Intent, error)
	Retrieve(ctx context.Context, intentID string) (*payments.Intent, error)
}

// OrderProcessor is the order-based processor with customer approval.
type OrderProcessor interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, reference string) (*payments.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*payments.OrderCapture, error)
}

// EventPublisher fans domain events out to the message broker. Publishing is
// best-effort and never fails the caller.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data any)
}

// SearchIndex is the redis-backed public professional index.
type SearchIndex interface {
	Upsert(ctx context.Context, doc search.ProfessionalDoc) error
	GetBySlug(ctx context.Context, slug string) (*search.ProfessionalDoc, error)
	GetByID(ctx context.Context, id string) (*search.ProfessionalDoc, error)
	Remove(ctx context.Context, id, slug string) error
}

// CMSFetcher re-fetches documents named by webhook events.
type CMSFetcher interface {
	GetDocument(ctx context.Context, id string) (*cms.Document, error)
}

// Deps groups everything the services need beyond the repositories.
type Deps struct {
	Intents IntentProcessor
	Orders  OrderProcessor
	Events  EventPublisher
	Index   SearchIndex
	CMS     CMSFetcher
}

type Service struct {
	Auth     AuthService
	Profile  ProfileService
	Booking  BookingService
	Payment  PaymentService
	Payout   PayoutService
	Dispute  DisputeService
	Review   ReviewService
	Feedback FeedbackService
	Webhook  WebhookService
}

func NewService(repo *repository.Repository, config *utils.Config, deps Deps, log *zap.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, log),
		Profile:  NewProfileService(repo, deps.Index, log),
		Booking:  NewBookingService(repo, config, deps.Intents, deps.Events, log),
		Payment:  NewPaymentService(repo, config, deps.Orders, log),
		Payout:   NewPayoutService(repo, config, deps.Events, log),
		Dispute:  NewDisputeService(repo, deps.Intents, deps.Events, log),
		Review:   NewReviewService(repo, log),
		Feedback: NewFeedbackService(repo, log),
		Webhook:  NewWebhookService(deps.CMS, deps.Index, log),
	}
}
