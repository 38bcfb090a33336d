package contract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docuviet/hopdong/internal/domain"
)

type mockRepo struct {
	getResult  domain.Contract
	getErr     error
	listResult []domain.Contract
	listErr    error
	deletedID  int64
	deleteErr  error
}

func (m *mockRepo) Get(context.Context, int64) (domain.Contract, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) List(context.Context) ([]domain.Contract, error) {
	return m.listResult, m.listErr
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	m.deletedID = id
	return m.deleteErr
}

func TestGet_NotFound(t *testing.T) {
	svc := New(&mockRepo{getErr: domain.ErrContractNotFound})

	_, err := svc.Get(context.Background(), 404)
	if !errors.Is(err, domain.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
}

func TestDelete_RemovesArtifacts(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "abc.pdf")
	text := filepath.Join(dir, "abc.txt")
	for _, p := range []string{original, text} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	repo := &mockRepo{getResult: domain.Contract{
		ID:           7,
		OriginalPath: original,
		TextPath:     text,
	}}
	svc := New(repo)

	if err := svc.Delete(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletedID != 7 {
		t.Errorf("expected repo delete of id 7, got %d", repo.deletedID)
	}
	for _, p := range []string{original, text} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("artifact must be removed: %s", p)
		}
	}
}

func TestDelete_MissingArtifactsTolerated(t *testing.T) {
	repo := &mockRepo{getResult: domain.Contract{
		ID:           7,
		OriginalPath: filepath.Join(t.TempDir(), "gone.pdf"),
		TextPath:     filepath.Join(t.TempDir(), "gone.txt"),
	}}
	svc := New(repo)

	if err := svc.Delete(context.Background(), 7); err != nil {
		t.Fatalf("missing files must not fail the delete: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockRepo{getErr: domain.ErrContractNotFound}
	svc := New(repo)

	err := svc.Delete(context.Background(), 404)
	if !errors.Is(err, domain.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
	if repo.deletedID != 0 {
		t.Error("repo delete must not run for missing contracts")
	}
}

func TestFile(t *testing.T) {
	svc := New(&mockRepo{getResult: domain.Contract{
		OriginalPath:     "/data/uploads/uuid.pdf",
		OriginalFilename: "hợp đồng thuê nhà.pdf",
	}})

	path, filename, err := svc.File(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/data/uploads/uuid.pdf" {
		t.Errorf("unexpected path: %s", path)
	}
	if filename != "hợp đồng thuê nhà.pdf" {
		t.Errorf("download must carry the upload-time name, got %s", filename)
	}
}

func TestStats(t *testing.T) {
	svc := New(&mockRepo{listResult: []domain.Contract{
		{Status: domain.StatusProcessed, Record: domain.ContractRecord{Type: "mua_ban"}},
		{Status: domain.StatusProcessed, Record: domain.ContractRecord{Type: "mua_ban"}},
		{Status: domain.StatusProcessed, Record: domain.ContractRecord{Type: "thue"}},
		{Status: domain.StatusPending, Record: domain.ContractRecord{Type: "other"}},
	}})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("expected total 4, got %d", stats.Total)
	}
	if stats.Processed != 3 || stats.Pending != 1 {
		t.Errorf("unexpected status counts: %+v", stats)
	}
	if stats.ByType["mua_ban"] != 2 || stats.ByType["thue"] != 1 || stats.ByType["other"] != 1 {
		t.Errorf("unexpected by-type counts: %v", stats.ByType)
	}
}

func TestStats_ExpiringWindow(t *testing.T) {
	date := func(d time.Duration) *time.Time {
		ts := time.Now().Add(d)
		return &ts
	}
	svc := New(&mockRepo{listResult: []domain.Contract{
		{Status: domain.StatusProcessed, ExpirationDate: date(10 * 24 * time.Hour)},
		{Status: domain.StatusProcessed, ExpirationDate: date(60 * 24 * time.Hour)},
		{Status: domain.StatusProcessed, ExpirationDate: date(-24 * time.Hour)},
		{Status: domain.StatusPending, ExpirationDate: date(10 * 24 * time.Hour)},
		{Status: domain.StatusProcessed},
	}})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Expiring != 1 {
		t.Errorf("only processed contracts expiring within 30 days count, got %d", stats.Expiring)
	}
}

func TestStats_Empty(t *testing.T) {
	svc := New(&mockRepo{})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 0 || len(stats.ByType) != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}
