// Package hopdong is the embedded SDK: it connects straight to the database
// and runs the same contract pipeline as the HTTP server, in process.
package hopdong

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/docuviet/hopdong/internal/acquire"
	"github.com/docuviet/hopdong/internal/db"
	dbRedis "github.com/docuviet/hopdong/internal/db/redis"
	"github.com/docuviet/hopdong/internal/domain"
	catalogrepo "github.com/docuviet/hopdong/internal/repository/catalog"
	contractrepo "github.com/docuviet/hopdong/internal/repository/contract"
	cataloguc "github.com/docuviet/hopdong/internal/usecase/catalog"
	contractuc "github.com/docuviet/hopdong/internal/usecase/contract"
	ingestuc "github.com/docuviet/hopdong/internal/usecase/ingest"
	searchuc "github.com/docuviet/hopdong/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the hopdong SDK entry point.
type Client struct {
	store     db.Store
	ingest    *ingestuc.Service
	contracts *contractuc.Service
	search    *searchuc.Service
	catalog   *cataloguc.Service
}

// New creates a hopdong Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix: "hopdong:",
		uploadDir: "uploads",
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("hopdong: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("hopdong: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("hopdong: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	contractRepo := contractrepo.New(store, cfg.keyPrefix)
	catalogRepo := catalogrepo.New(store, cfg.keyPrefix)

	var engine ingestuc.Recognizer
	if cfg.engine != nil {
		engine = &engineAdapter{inner: cfg.engine}
	} else {
		engine = acquire.NewTesseract(acquire.TesseractConfig{}, nil)
	}

	return &Client{
		store:     store,
		ingest:    ingestuc.New(contractRepo, engine, catalogRepo, cfg.uploadDir),
		contracts: contractuc.New(contractRepo),
		search:    searchuc.New(contractRepo),
		catalog:   cataloguc.New(catalogRepo),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// IngestRequest is one incoming contract document. An empty Language keeps
// the engine's default language models.
type IngestRequest struct {
	Filename       string
	Content        io.Reader
	Language       string
	ExpirationDate *time.Time
	ContractTypeID *int64
}

// Ingest stores the document, recognizes its text and extracts the record.
func (c *Client) Ingest(ctx context.Context, req IngestRequest) (Contract, error) {
	ct, err := c.ingest.Ingest(ctx, ingestuc.Upload{
		Filename:       req.Filename,
		Content:        req.Content,
		Language:       req.Language,
		ExpirationDate: req.ExpirationDate,
		ContractTypeID: req.ContractTypeID,
	})
	if err != nil {
		return Contract{}, fmt.Errorf("ingest: %w", err)
	}
	return contractFromDomain(ct), nil
}

// IngestFile ingests a document from the local filesystem.
func (c *Client) IngestFile(ctx context.Context, path string) (Contract, error) {
	f, err := os.Open(path)
	if err != nil {
		return Contract{}, fmt.Errorf("ingest file: %w", err)
	}
	defer f.Close()

	return c.Ingest(ctx, IngestRequest{Filename: filepath.Base(path), Content: f})
}

// Contract returns one contract by ID.
func (c *Client) Contract(ctx context.Context, id int64) (Contract, error) {
	ct, err := c.contracts.Get(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	return contractFromDomain(ct), nil
}

// Contracts returns all stored contracts, newest first.
func (c *Client) Contracts(ctx context.Context) ([]Contract, error) {
	list, err := c.contracts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Contract, 0, len(list))
	for _, ct := range list {
		out = append(out, contractFromDomain(ct))
	}
	return out, nil
}

// DeleteContract removes a contract with its text and files.
func (c *Client) DeleteContract(ctx context.Context, id int64) error {
	return c.contracts.Delete(ctx, id)
}

// Stats aggregates the corpus by detected type tag.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	stats, err := c.contracts.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Total:     stats.Total,
		Processed: stats.Processed,
		Pending:   stats.Pending,
		Expiring:  stats.Expiring,
		ByType:    stats.ByType,
	}, nil
}

// Search filters the whole corpus by query and optional type tag.
func (c *Client) Search(ctx context.Context, query, typeFilter string) ([]SummaryMatch, error) {
	matches, err := c.search.Summaries(ctx, query, typeFilter)
	if err != nil {
		return nil, err
	}
	out := make([]SummaryMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, summaryFromDomain(m))
	}
	return out, nil
}

// Preview returns the contract's text as escaped markup with every query
// occurrence highlighted.
func (c *Client) Preview(ctx context.Context, id int64, query string) (string, error) {
	return c.search.Preview(ctx, id, query)
}

// Sentences returns sentence-level matches inside one contract.
func (c *Client) Sentences(ctx context.Context, id int64, query string) ([]SentenceMatch, error) {
	matches, err := c.search.Sentences(ctx, id, query)
	if err != nil {
		return nil, err
	}
	out := make([]SentenceMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, sentenceFromDomain(m))
	}
	return out, nil
}

// CreateContractType registers a contract type usable as an ingest override.
func (c *Client) CreateContractType(ctx context.Context, name, description string) (ContractType, error) {
	ct, err := c.catalog.CreateType(ctx, domain.ContractType{Name: name, Description: description})
	if err != nil {
		return ContractType{}, err
	}
	return typeFromDomain(ct), nil
}

// ContractTypes returns all registered contract types.
func (c *Client) ContractTypes(ctx context.Context) ([]ContractType, error) {
	types, err := c.catalog.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ContractType, 0, len(types))
	for _, ct := range types {
		out = append(out, typeFromDomain(ct))
	}
	return out, nil
}

// DeleteContractType removes a contract type.
func (c *Client) DeleteContractType(ctx context.Context, id int64) error {
	return c.catalog.DeleteType(ctx, id)
}

// engineAdapter wraps the public Engine to satisfy the internal recognizer.
type engineAdapter struct {
	inner Engine
}

func (a *engineAdapter) Recognize(ctx context.Context, path, lang string) (acquire.Result, error) {
	r, err := a.inner.Recognize(ctx, path, lang)
	if err != nil {
		return acquire.Result{}, fmt.Errorf("recognize: %w", err)
	}
	return acquire.Result{Text: r.Text, Pages: r.Pages}, nil
}

func (a *engineAdapter) Name() string { return a.inner.Name() }
