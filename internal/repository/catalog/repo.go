// Package catalog persists the user-managed reference data: contract types,
// partners, departments and tags. Each entry is one hash keyed by kind and
// numeric ID, with a per-kind ID sequence.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/docuviet/hopdong/internal/domain"
)

// Entry kinds, used as key segments.
const (
	kindType       = "type"
	kindPartner    = "partner"
	kindDepartment = "department"
	kindTag        = "tag"
)

// store is the consumer interface for catalog entries (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the catalog storage used by the catalog usecase.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository. Keys are namespaced under prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// CreateType stores a new contract type. Names are unique per kind.
func (r *Repo) CreateType(ctx context.Context, ct domain.ContractType) (domain.ContractType, error) {
	id, createdAt, err := r.create(ctx, kindType, ct.Name, typeFields(&ct))
	if err != nil {
		return domain.ContractType{}, err
	}
	ct.ID, ct.CreatedAt = id, createdAt
	return ct, nil
}

// ListTypes returns all contract types in ID order.
func (r *Repo) ListTypes(ctx context.Context) ([]domain.ContractType, error) {
	entries, err := r.list(ctx, kindType)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ContractType, 0, len(entries))
	for _, e := range entries {
		out = append(out, parseType(e))
	}
	return out, nil
}

// GetType returns one contract type by ID.
func (r *Repo) GetType(ctx context.Context, id int64) (domain.ContractType, error) {
	fields, err := r.get(ctx, kindType, id)
	if err != nil {
		return domain.ContractType{}, err
	}
	return parseType(fields), nil
}

// DeleteType removes a contract type.
func (r *Repo) DeleteType(ctx context.Context, id int64) error {
	return r.delete(ctx, kindType, id)
}

// CreatePartner stores a new partner.
func (r *Repo) CreatePartner(ctx context.Context, p domain.Partner) (domain.Partner, error) {
	id, createdAt, err := r.create(ctx, kindPartner, p.Name, partnerFields(&p))
	if err != nil {
		return domain.Partner{}, err
	}
	p.ID, p.CreatedAt = id, createdAt
	return p, nil
}

// ListPartners returns all partners in ID order.
func (r *Repo) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	entries, err := r.list(ctx, kindPartner)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Partner, 0, len(entries))
	for _, e := range entries {
		out = append(out, parsePartner(e))
	}
	return out, nil
}

// DeletePartner removes a partner.
func (r *Repo) DeletePartner(ctx context.Context, id int64) error {
	return r.delete(ctx, kindPartner, id)
}

// CreateDepartment stores a new department.
func (r *Repo) CreateDepartment(ctx context.Context, d domain.Department) (domain.Department, error) {
	id, createdAt, err := r.create(ctx, kindDepartment, d.Name, departmentFields(&d))
	if err != nil {
		return domain.Department{}, err
	}
	d.ID, d.CreatedAt = id, createdAt
	return d, nil
}

// ListDepartments returns all departments in ID order.
func (r *Repo) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	entries, err := r.list(ctx, kindDepartment)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Department, 0, len(entries))
	for _, e := range entries {
		out = append(out, parseDepartment(e))
	}
	return out, nil
}

// DeleteDepartment removes a department.
func (r *Repo) DeleteDepartment(ctx context.Context, id int64) error {
	return r.delete(ctx, kindDepartment, id)
}

// CreateTag stores a new tag.
func (r *Repo) CreateTag(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	id, createdAt, err := r.create(ctx, kindTag, tag.Name, tagFields(&tag))
	if err != nil {
		return domain.Tag{}, err
	}
	tag.ID, tag.CreatedAt = id, createdAt
	return tag, nil
}

// ListTags returns all tags in ID order.
func (r *Repo) ListTags(ctx context.Context) ([]domain.Tag, error) {
	entries, err := r.list(ctx, kindTag)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Tag, 0, len(entries))
	for _, e := range entries {
		out = append(out, parseTag(e))
	}
	return out, nil
}

// DeleteTag removes a tag.
func (r *Repo) DeleteTag(ctx context.Context, id int64) error {
	return r.delete(ctx, kindTag, id)
}

// create allocates an ID, stamps creation time and writes the hash.
// A live entry of the same kind with the same name is rejected.
func (r *Repo) create(
	ctx context.Context, kind, name string, fields map[string]string,
) (int64, time.Time, error) {
	taken, err := r.nameTaken(ctx, kind, name)
	if err != nil {
		return 0, time.Time{}, err
	}
	if taken {
		return 0, time.Time{}, fmt.Errorf("%s %q: %w", kind, name, domain.ErrAlreadyExists)
	}

	id, err := r.store.IncrBy(ctx, r.seqKey(kind), 1)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("incr %s sequence: %w", kind, err)
	}

	createdAt := time.Now().UTC().Truncate(time.Second)
	fields["id"] = strconv.FormatInt(id, 10)
	fields["created_at"] = createdAt.Format(time.RFC3339)

	key := r.entryKey(kind, id)
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return 0, time.Time{}, fmt.Errorf("hset %s: %w", key, err)
	}
	return id, createdAt, nil
}

func (r *Repo) get(ctx context.Context, kind string, id int64) (map[string]string, error) {
	key := r.entryKey(kind, id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	// HGETALL on a missing key yields an empty map, not an error.
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return fields, nil
}

// list fetches every entry of a kind in one DoMulti round-trip, ID ascending.
func (r *Repo) list(ctx context.Context, kind string) ([]map[string]string, error) {
	keys, err := r.store.Scan(ctx, r.prefix+kind+":*")
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	sort.Slice(keys, func(i, j int) bool {
		return r.entryID(kind, keys[i]) < r.entryID(kind, keys[j])
	})

	entries, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi %s: %w", kind, err)
	}

	out := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		if len(e) == 0 {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Repo) delete(ctx context.Context, kind string, id int64) error {
	key := r.entryKey(kind, id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (r *Repo) nameTaken(ctx context.Context, kind, name string) (bool, error) {
	entries, err := r.list(ctx, kind)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if strings.EqualFold(e["name"], name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repo) entryKey(kind string, id int64) string {
	return fmt.Sprintf("%s%s:%d", r.prefix, kind, id)
}

func (r *Repo) seqKey(kind string) string {
	return r.prefix + "seq:" + kind
}

func (r *Repo) entryID(kind, key string) int64 {
	id, _ := strconv.ParseInt(strings.TrimPrefix(key, r.prefix+kind+":"), 10, 64)
	return id
}
