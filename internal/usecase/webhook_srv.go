package usecase

import (
	"context"
	"fmt"

	"casaora/internal/dto/request"
	"casaora/internal/search"
	"casaora/pkg/utils"

	"go.uber.org/zap"
)

// cmsProfessionalType is the CMS document type mirrored into the search
// index. Everything else is acknowledged and ignored.
const cmsProfessionalType = "professional"

type WebhookService interface {
	ProcessCMSEvent(ctx context.Context, req *request.CMSWebhookEvent) error
}

type webhookService struct {
	cms   CMSFetcher
	index SearchIndex
	log   *zap.Logger
}

func NewWebhookService(fetcher CMSFetcher, index SearchIndex, log *zap.Logger) WebhookService {
	return &webhookService{
		cms:   fetcher,
		index: index,
		log:   log.With(zap.String("service", "webhook")),
	}
}

// ProcessCMSEvent mirrors one CMS change into the search index. The webhook
// payload is only trusted for the document identity; content is re-fetched.
func (s *webhookService) ProcessCMSEvent(ctx context.Context, req *request.CMSWebhookEvent) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.Type != cmsProfessionalType {
		s.log.Debug("Ignoring CMS event for unhandled type",
			zap.String("type", req.Type),
			zap.String("document_id", req.DocumentID),
		)
		return nil
	}

	if req.Operation == "delete" {
		if err := s.index.Remove(ctx, req.DocumentID, ""); err != nil {
			return fmt.Errorf("remove document %s from index: %w", req.DocumentID, err)
		}
		s.log.Info("CMS document removed from index", zap.String("document_id", req.DocumentID))
		return nil
	}

	doc, err := s.cms.GetDocument(ctx, req.DocumentID)
	if err != nil {
		return fmt.Errorf("fetch CMS document %s: %w", req.DocumentID, err)
	}
	if doc == nil {
		// Deleted between notification and fetch.
		if err := s.index.Remove(ctx, req.DocumentID, ""); err != nil {
			return fmt.Errorf("remove stale document %s: %w", req.DocumentID, err)
		}
		return nil
	}

	err = s.index.Upsert(ctx, search.ProfessionalDoc{
		ID:          doc.ID,
		Slug:        doc.StringField("slug"),
		DisplayName: doc.StringField("displayName"),
		ServiceName: doc.StringField("serviceName"),
		HourlyRate:  doc.IntField("hourlyRate"),
		Currency:    doc.StringField("currency"),
		Bio:         doc.StringField("bio"),
	})
	if err != nil {
		return fmt.Errorf("index CMS document %s: %w", req.DocumentID, err)
	}

	s.log.Info("CMS document indexed",
		zap.String("document_id", req.DocumentID),
		zap.String("operation", req.Operation),
	)
	return nil
}
