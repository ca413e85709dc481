package usecase

import (
	"context"
	"testing"

	"casaora/internal/cms"
	"casaora/internal/dto/request"
	"casaora/internal/search"

	"go.uber.org/zap"
)

type stubFetcher struct {
	calls int
	doc   *cms.Document
	err   error
}

func (s *stubFetcher) GetDocument(ctx context.Context, id string) (*cms.Document, error) {
	s.calls++
	return s.doc, s.err
}

type stubIndex struct {
	SearchIndex

	upserts []search.ProfessionalDoc
	removed []string
}

func (s *stubIndex) Upsert(ctx context.Context, doc search.ProfessionalDoc) error {
	s.upserts = append(s.upserts, doc)
	return nil
}

func (s *stubIndex) Remove(ctx context.Context, id, slug string) error {
	s.removed = append(s.removed, id)
	return nil
}

func TestProcessCMSEventIgnoresUnhandledTypes(t *testing.T) {
	fetcher := &stubFetcher{}
	index := &stubIndex{}
	svc := NewWebhookService(fetcher, index, zap.NewNop())

	err := svc.ProcessCMSEvent(context.Background(), &request.CMSWebhookEvent{
		DocumentID: "doc-1",
		Type:       "blogPost",
		Operation:  "update",
	})

	if err != nil {
		t.Fatalf("unhandled types must be acknowledged, got: %v", err)
	}
	if fetcher.calls != 0 {
		t.Error("unhandled types must not be fetched")
	}
	if len(index.upserts) != 0 || len(index.removed) != 0 {
		t.Error("unhandled types must not touch the index")
	}
}

func TestProcessCMSEventDeleteRemovesFromIndex(t *testing.T) {
	fetcher := &stubFetcher{}
	index := &stubIndex{}
	svc := NewWebhookService(fetcher, index, zap.NewNop())

	err := svc.ProcessCMSEvent(context.Background(), &request.CMSWebhookEvent{
		DocumentID: "doc-2",
		Type:       "professional",
		Operation:  "delete",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 0 {
		t.Error("deletes must not re-fetch the document")
	}
	if len(index.removed) != 1 || index.removed[0] != "doc-2" {
		t.Errorf("expected doc-2 removed, got %v", index.removed)
	}
}

func TestProcessCMSEventRefetchesDocumentContent(t *testing.T) {
	fetcher := &stubFetcher{doc: &cms.Document{
		ID:   "doc-3",
		Type: "professional",
		Fields: map[string]any{
			"slug":        "maria-plumbing",
			"displayName": "Maria",
			"serviceName": "Plumbing",
			"hourlyRate":  float64(45000),
			"currency":    "COP",
		},
	}}
	index := &stubIndex{}
	svc := NewWebhookService(fetcher, index, zap.NewNop())

	err := svc.ProcessCMSEvent(context.Background(), &request.CMSWebhookEvent{
		DocumentID: "doc-3",
		Type:       "professional",
		Operation:  "update",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("document must be re-fetched exactly once, got %d", fetcher.calls)
	}
	if len(index.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(index.upserts))
	}
	got := index.upserts[0]
	if got.Slug != "maria-plumbing" || got.HourlyRate != 45000 {
		t.Errorf("indexed doc = %+v, want fetched content", got)
	}
}

func TestProcessCMSEventRemovesStaleDocument(t *testing.T) {
	// Fetch returns nil: deleted between notification and fetch.
	fetcher := &stubFetcher{}
	index := &stubIndex{}
	svc := NewWebhookService(fetcher, index, zap.NewNop())

	err := svc.ProcessCMSEvent(context.Background(), &request.CMSWebhookEvent{
		DocumentID: "doc-4",
		Type:       "professional",
		Operation:  "update",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(index.removed) != 1 || index.removed[0] != "doc-4" {
		t.Errorf("expected stale doc-4 removed, got %v", index.removed)
	}
	if len(index.upserts) != 0 {
		t.Error("nothing should be indexed for a vanished document")
	}
}
