// Package catalog manages the user-maintained reference data: contract
// types, partners, departments and tags.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/docuviet/hopdong/internal/domain"
)

// Service validates and forwards catalog operations to the repository.
type Service struct {
	repo Repository
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateType creates a contract type. Name is required.
func (s *Service) CreateType(ctx context.Context, ct domain.ContractType) (domain.ContractType, error) {
	ct.Name = strings.TrimSpace(ct.Name)
	if ct.Name == "" {
		return domain.ContractType{}, fmt.Errorf("contract type name is required: %w", domain.ErrInvalidInput)
	}
	created, err := s.repo.CreateType(ctx, ct)
	if err != nil {
		return domain.ContractType{}, fmt.Errorf("create contract type: %w", err)
	}
	return created, nil
}

// ListTypes returns all contract types.
func (s *Service) ListTypes(ctx context.Context) ([]domain.ContractType, error) {
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contract types: %w", err)
	}
	return types, nil
}

// GetType returns one contract type by ID.
func (s *Service) GetType(ctx context.Context, id int64) (domain.ContractType, error) {
	ct, err := s.repo.GetType(ctx, id)
	if err != nil {
		return domain.ContractType{}, fmt.Errorf("get contract type: %w", err)
	}
	return ct, nil
}

// DeleteType removes a contract type.
func (s *Service) DeleteType(ctx context.Context, id int64) error {
	if err := s.repo.DeleteType(ctx, id); err != nil {
		return fmt.Errorf("delete contract type: %w", err)
	}
	return nil
}

// CreatePartner creates a partner. Name is required.
func (s *Service) CreatePartner(ctx context.Context, p domain.Partner) (domain.Partner, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.Partner{}, fmt.Errorf("partner name is required: %w", domain.ErrInvalidInput)
	}
	created, err := s.repo.CreatePartner(ctx, p)
	if err != nil {
		return domain.Partner{}, fmt.Errorf("create partner: %w", err)
	}
	return created, nil
}

// ListPartners returns all partners.
func (s *Service) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	partners, err := s.repo.ListPartners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

// DeletePartner removes a partner.
func (s *Service) DeletePartner(ctx context.Context, id int64) error {
	if err := s.repo.DeletePartner(ctx, id); err != nil {
		return fmt.Errorf("delete partner: %w", err)
	}
	return nil
}

// CreateDepartment creates a department. Name is required.
func (s *Service) CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return domain.Department{}, fmt.Errorf("department name is required: %w", domain.ErrInvalidInput)
	}
	created, err := s.repo.CreateDepartment(ctx, d)
	if err != nil {
		return domain.Department{}, fmt.Errorf("create department: %w", err)
	}
	return created, nil
}

// ListDepartments returns all departments.
func (s *Service) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// DeleteDepartment removes a department.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}

// CreateTag creates a tag. Name is required.
func (s *Service) CreateTag(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return domain.Tag{}, fmt.Errorf("tag name is required: %w", domain.ErrInvalidInput)
	}
	created, err := s.repo.CreateTag(ctx, tag)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	return created, nil
}

// ListTags returns all tags.
func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// DeleteTag removes a tag.
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
