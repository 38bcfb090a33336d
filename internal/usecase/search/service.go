// Package search serves corpus-wide and per-document text search over the
// stored contracts.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/docuviet/hopdong/internal/domain"
	"github.com/docuviet/hopdong/internal/metrics"
	engine "github.com/docuviet/hopdong/internal/search"
)

// Service runs search over the repository-backed corpus.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summaries filters the whole corpus by query and optional type tag.
// The corpus listing order (newest first) is preserved in the result.
func (s *Service) Summaries(
	ctx context.Context, query, typeFilter string,
) ([]domain.SummaryMatch, error) {
	metrics.SearchRequestsTotal.WithLabelValues("summary").Inc()

	contracts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}

	corpus := make([]engine.Doc, 0, len(contracts))
	for i := range contracts {
		corpus = append(corpus, engine.Doc{
			ID:        contracts[i].ID,
			Filename:  contracts[i].OriginalFilename,
			Type:      contracts[i].Record.Type,
			TypeLabel: contracts[i].Record.TypeLabel,
		})
	}

	return engine.FilterCorpus(ctx, corpus, s.repo, strings.TrimSpace(query), typeFilter), nil
}

// Preview returns the contract's full text as escaped markup with every
// query occurrence highlighted.
func (s *Service) Preview(ctx context.Context, id int64, query string) (string, error) {
	text, err := s.text(ctx, id)
	if err != nil {
		return "", err
	}
	return engine.Preview(text, strings.TrimSpace(query)), nil
}

// Sentences returns sentence-level matches inside one contract.
func (s *Service) Sentences(
	ctx context.Context, id int64, query string,
) ([]domain.SentenceMatch, error) {
	metrics.SearchRequestsTotal.WithLabelValues("sentence").Inc()

	text, err := s.text(ctx, id)
	if err != nil {
		return nil, err
	}
	return engine.SentenceSearch(text, strings.TrimSpace(query)), nil
}

// text loads a contract's raw text, distinguishing a missing contract from
// missing text.
func (s *Service) text(ctx context.Context, id int64) (string, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return "", fmt.Errorf("get contract: %w", err)
	}
	text, err := s.repo.ContractText(ctx, id)
	if err != nil {
		return "", fmt.Errorf("read contract text: %w", err)
	}
	return text, nil
}
