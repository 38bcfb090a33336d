// Package contract handles read, delete and download of stored contracts.
package contract

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/docuviet/hopdong/internal/domain"
	"github.com/docuviet/hopdong/internal/logger"
	"github.com/docuviet/hopdong/internal/metrics"
)

// Service exposes contract CRUD over the repository.
type Service struct {
	repo Repository
}

// New creates a contract service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one contract by ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Contract, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

// List returns all stored contracts, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Contract, error) {
	contracts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, nil
}

// Delete removes a contract, its stored text and its on-disk artifacts.
// Missing artifact files are tolerated: the store record is authoritative.
func (s *Service) Delete(ctx context.Context, id int64) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get contract: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}

	for _, path := range []string{c.OriginalPath, c.TextPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.FromContext(ctx).Warn("failed to remove contract artifact",
				zap.Int64("contract_id", id),
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}

	metrics.ContractsDeletedTotal.Inc()
	return nil
}

// File returns the stored original's path and its upload-time filename.
func (s *Service) File(ctx context.Context, id int64) (path, filename string, err error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", "", fmt.Errorf("get contract: %w", err)
	}
	return c.OriginalPath, c.OriginalFilename, nil
}

// expiringWindow is how far ahead the expiring counter looks.
const expiringWindow = 30 * 24 * time.Hour

// Stats aggregates the corpus by status, expiration and detected type tag.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	contracts, err := s.repo.List(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("list contracts: %w", err)
	}

	now := time.Now()
	soon := now.Add(expiringWindow)

	stats := domain.Stats{
		Total:  len(contracts),
		ByType: make(map[string]int),
	}
	for i := range contracts {
		c := &contracts[i]
		stats.ByType[c.Record.Type]++
		switch c.Status {
		case domain.StatusProcessed:
			stats.Processed++
		case domain.StatusPending:
			stats.Pending++
		}
		if c.Status == domain.StatusProcessed && c.ExpirationDate != nil &&
			!c.ExpirationDate.Before(now) && !c.ExpirationDate.After(soon) {
			stats.Expiring++
		}
	}
	return stats, nil
}
