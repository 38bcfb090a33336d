package search

import (
	"context"

	"github.com/docuviet/hopdong/internal/domain"
)

// Repository defines the storage reads the search service needs. Its text
// reader method also satisfies the engine's TextReader.
type Repository interface {
	Get(ctx context.Context, id int64) (domain.Contract, error)
	List(ctx context.Context) ([]domain.Contract, error)
	ContractText(ctx context.Context, id int64) (string, error)
}
