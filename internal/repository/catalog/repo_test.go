package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/docuviet/hopdong/internal/domain"
)

func TestCreateType(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.incrByFn = func(_ context.Context, key string, _ int64) (int64, error) {
		if key != "hopdong:seq:type" {
			t.Errorf("unexpected sequence key: %s", key)
		}
		return 3, nil
	}
	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey, gotFields = key, fields
		return nil
	}

	ct, err := repo.CreateType(context.Background(), domain.ContractType{
		Name:        "Hợp đồng xây dựng",
		Description: "Thi công công trình",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct.ID != 3 {
		t.Errorf("expected id 3, got %d", ct.ID)
	}
	if ct.CreatedAt.IsZero() {
		t.Error("expected created_at to be stamped")
	}
	if gotKey != "hopdong:type:3" {
		t.Errorf("unexpected key: %s", gotKey)
	}
	if gotFields["name"] != "Hợp đồng xây dựng" || gotFields["description"] != "Thi công công trình" {
		t.Errorf("unexpected fields: %v", gotFields)
	}
	if gotFields["id"] != "3" || gotFields["created_at"] == "" {
		t.Errorf("id and created_at must be stored: %v", gotFields)
	}
}

func TestCreateType_DuplicateName(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(context.Context, string) ([]string, error) {
		return []string{"hopdong:type:1"}, nil
	}
	ms.hgetAllMultiFn = func(context.Context, []string) ([]map[string]string, error) {
		return []map[string]string{{"id": "1", "name": "Hợp đồng xây dựng"}}, nil
	}

	_, err := repo.CreateType(context.Background(), domain.ContractType{Name: "hợp đồng xây dựng"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for case-insensitive duplicate, got %v", err)
	}
}

func TestListTypes_IDAscending(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "hopdong:type:*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"hopdong:type:10", "hopdong:type:2"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		if keys[0] != "hopdong:type:2" || keys[1] != "hopdong:type:10" {
			t.Errorf("expected id-ascending key order, got %v", keys)
		}
		return []map[string]string{
			{"id": "2", "name": "A", "created_at": "2026-01-02T00:00:00Z"},
			{"id": "10", "name": "B", "created_at": "2026-01-10T00:00:00Z"},
		}, nil
	}

	types, err := repo.ListTypes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(types) != 2 || types[0].ID != 2 || types[1].ID != 10 {
		t.Errorf("unexpected result: %+v", types)
	}
	if types[1].CreatedAt.IsZero() {
		t.Error("created_at must parse")
	}
}

func TestGetType_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.GetType(context.Background(), 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteType(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		return key == "hopdong:type:5", nil
	}
	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}

	if err := repo.DeleteType(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "hopdong:type:5" {
		t.Errorf("unexpected deleted key: %s", deleted)
	}

	if err := repo.DeleteType(context.Background(), 6); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePartner_OptionalFieldsOmitted(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, _ string, fields map[string]string) error {
		gotFields = fields
		return nil
	}

	_, err := repo.CreatePartner(context.Background(), domain.Partner{
		Name:        "Công ty TNHH Thiên Phú",
		PartnerType: "supplier",
		TaxID:       "0312345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFields["tax_id"] != "0312345678" {
		t.Errorf("tax_id must be stored: %v", gotFields)
	}
	if _, ok := gotFields["email"]; ok {
		t.Errorf("empty optional fields must not be stored: %v", gotFields)
	}
}

func TestListTags_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(context.Context, string) ([]string, error) {
		return []string{"hopdong:tag:1"}, nil
	}
	ms.hgetAllMultiFn = func(context.Context, []string) ([]map[string]string, error) {
		return []map[string]string{
			{"id": "1", "name": "gấp", "color": "#ff0000", "created_at": "2026-02-01T08:00:00Z"},
		}, nil
	}

	tags, err := repo.ListTags(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "gấp" || tags[0].Color != "#ff0000" {
		t.Errorf("unexpected tags: %+v", tags)
	}
}
