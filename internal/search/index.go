// Package search maintains the redis-backed index of professional public
// documents, keyed by id with a slug alias for vanity URLs.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	docKeyPrefix  = "professionals:doc:"
	slugKeyPrefix = "professionals:slug:"
)

// ProfessionalDoc is the indexed public shape of a professional.
type ProfessionalDoc struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
	ServiceName string `json:"service_name"`
	HourlyRate  int64  `json:"hourly_rate"`
	Currency    string `json:"currency"`
	Bio         string `json:"bio,omitempty"`
}

type Index struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewIndex(rdb *redis.Client, log *zap.Logger) *Index {
	return &Index{
		rdb: rdb,
		log: log.With(zap.String("component", "search")),
	}
}

// Upsert stores the document and refreshes the slug alias.
func (i *Index) Upsert(ctx context.Context, doc ProfessionalDoc) error {
	if doc.ID == "" {
		return fmt.Errorf("index professional: missing id")
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index professional %s: %w", doc.ID, err)
	}

	pipe := i.rdb.TxPipeline()
	pipe.Set(ctx, docKeyPrefix+doc.ID, body, 0)
	if doc.Slug != "" {
		pipe.Set(ctx, slugKeyPrefix+doc.Slug, doc.ID, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("index professional %s: %w", doc.ID, err)
	}

	i.log.Info("Professional indexed",
		zap.String("id", doc.ID),
		zap.String("slug", doc.Slug),
	)
	return nil
}

// GetBySlug resolves a vanity slug to the indexed document. Returns nil when
// not indexed.
func (i *Index) GetBySlug(ctx context.Context, slug string) (*ProfessionalDoc, error) {
	id, err := i.rdb.Get(ctx, slugKeyPrefix+slug).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve slug %s: %w", slug, err)
	}
	return i.GetByID(ctx, id)
}

// GetByID fetches the indexed document. Returns nil when not indexed.
func (i *Index) GetByID(ctx context.Context, id string) (*ProfessionalDoc, error) {
	body, err := i.rdb.Get(ctx, docKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get indexed professional %s: %w", id, err)
	}

	var doc ProfessionalDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode indexed professional %s: %w", id, err)
	}
	return &doc, nil
}

// Remove drops a document and its slug alias.
func (i *Index) Remove(ctx context.Context, id, slug string) error {
	pipe := i.rdb.TxPipeline()
	pipe.Del(ctx, docKeyPrefix+id)
	if slug != "" {
		pipe.Del(ctx, slugKeyPrefix+slug)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove indexed professional %s: %w", id, err)
	}
	return nil
}
