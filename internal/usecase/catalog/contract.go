package catalog

import (
	"context"

	"github.com/docuviet/hopdong/internal/domain"
)

// Repository defines the storage contract for catalog entries.
type Repository interface {
	CreateType(ctx context.Context, ct domain.ContractType) (domain.ContractType, error)
	ListTypes(ctx context.Context) ([]domain.ContractType, error)
	GetType(ctx context.Context, id int64) (domain.ContractType, error)
	DeleteType(ctx context.Context, id int64) error

	CreatePartner(ctx context.Context, p domain.Partner) (domain.Partner, error)
	ListPartners(ctx context.Context) ([]domain.Partner, error)
	DeletePartner(ctx context.Context, id int64) error

	CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	DeleteDepartment(ctx context.Context, id int64) error

	CreateTag(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}
