package ingest

import (
	"context"

	"github.com/docuviet/hopdong/internal/acquire"
	"github.com/docuviet/hopdong/internal/domain"
)

// Repository defines the storage contract for ingested contracts.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, c *domain.Contract) error
	SaveText(ctx context.Context, id int64, text string) error
}

// Recognizer turns a stored contract file into raw text. An empty lang
// keeps the engine's default language models.
type Recognizer interface {
	Recognize(ctx context.Context, path, lang string) (acquire.Result, error)
	Name() string
}

// TypeReader validates externally supplied contract type overrides.
type TypeReader interface {
	GetType(ctx context.Context, id int64) (domain.ContractType, error)
}
