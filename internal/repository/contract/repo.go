// Package contract persists contract metadata, extraction records and raw
// text. Metadata and record live in one JSON document per contract; the raw
// text is a plain value keyed separately so corpus scans can fetch it lazily.
package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/docuviet/hopdong/internal/db"
	"github.com/docuviet/hopdong/internal/domain"
)

// store is the consumer interface for contracts (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string, paths ...string) ([][]byte, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the contract storage used by the ingest, contract and
// search usecases.
type Repo struct {
	store  store
	prefix string
}

// New creates a contract repository. Keys are namespaced under prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// NextID allocates the next contract identifier from an atomic sequence.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.IncrBy(ctx, r.prefix+"seq:contract", 1)
	if err != nil {
		return 0, fmt.Errorf("incr contract sequence: %w", err)
	}
	return id, nil
}

// Save writes the contract document, creating or replacing it.
func (r *Repo) Save(ctx context.Context, c *domain.Contract) error {
	data, err := json.Marshal(toDoc(c))
	if err != nil {
		return fmt.Errorf("marshal contract %d: %w", c.ID, err)
	}
	key := r.docKey(c.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a contract by ID.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Contract, error) {
	key := r.docKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Contract{}, domain.ErrContractNotFound
		}
		return domain.Contract{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseDoc(raw)
}

// List returns all contracts, newest first. Documents that vanish between
// the key scan and the bulk fetch are skipped.
func (r *Repo) List(ctx context.Context) ([]domain.Contract, error) {
	ids, err := r.scanIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}

	docs, err := r.store.JSONGetMulti(ctx, keys, "$")
	if err != nil {
		return nil, fmt.Errorf("json.get multi: %w", err)
	}

	contracts := make([]domain.Contract, 0, len(docs))
	for _, raw := range docs {
		if raw == nil {
			continue
		}
		c, err := parseDoc(raw)
		if err != nil {
			continue
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

// Delete removes the contract document and its raw text.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	key := r.docKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrContractNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if err := r.store.Del(ctx, r.textKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", r.textKey(id), err)
	}
	return nil
}

// SaveText stores the recognized raw text of a contract.
func (r *Repo) SaveText(ctx context.Context, id int64, text string) error {
	key := r.textKey(id)
	if err := r.store.Set(ctx, key, []byte(text)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// ContractText returns the recognized raw text of a contract. A contract
// ingested without any recognizable text has an empty string stored, which
// is returned as such; a missing key maps to domain.ErrTextUnavailable.
func (r *Repo) ContractText(ctx context.Context, id int64) (string, error) {
	key := r.textKey(id)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrTextUnavailable
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return string(data), nil
}

func (r *Repo) docKey(id int64) string {
	return fmt.Sprintf("%scontract:%d", r.prefix, id)
}

func (r *Repo) textKey(id int64) string {
	return fmt.Sprintf("%stext:%d", r.prefix, id)
}

// scanIDs collects every contract ID currently stored.
func (r *Repo) scanIDs(ctx context.Context) ([]int64, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"contract:*")
	if err != nil {
		return nil, fmt.Errorf("scan contracts: %w", err)
	}

	ids := make([]int64, 0, len(keys))
	for _, key := range keys {
		suffix := strings.TrimPrefix(key, r.prefix+"contract:")
		id, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
