package contract

import (
	"context"

	"github.com/docuviet/hopdong/internal/domain"
)

// Repository defines the storage operations the contract service needs.
type Repository interface {
	Get(ctx context.Context, id int64) (domain.Contract, error)
	List(ctx context.Context) ([]domain.Contract, error)
	Delete(ctx context.Context, id int64) error
}
