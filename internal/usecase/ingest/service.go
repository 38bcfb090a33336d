// Package ingest drives the contract ingestion pipeline: store the uploaded
// file, recognize its text, extract the structured record and persist both.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docuviet/hopdong/internal/acquire"
	"github.com/docuviet/hopdong/internal/domain"
	"github.com/docuviet/hopdong/internal/extract"
	"github.com/docuviet/hopdong/internal/logger"
	"github.com/docuviet/hopdong/internal/metrics"
)

// Upload is one incoming contract document. An empty Language keeps the
// engine's default language models.
type Upload struct {
	Filename       string
	Content        io.Reader
	Language       string
	ExpirationDate *time.Time
	ContractTypeID *int64
}

// Service runs the ingestion pipeline.
type Service struct {
	repo      Repository
	engine    Recognizer
	types     TypeReader
	uploadDir string
}

// New creates an ingestion service writing originals under uploadDir.
func New(repo Repository, engine Recognizer, types TypeReader, uploadDir string) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		types:     types,
		uploadDir: uploadDir,
	}
}

// Ingest stores the upload, recognizes its text and persists the contract.
//
// Recognition failure does not fail the ingest: the contract is stored with
// empty text and status pending so the original file is never lost.
func (s *Service) Ingest(ctx context.Context, up Upload) (domain.Contract, error) {
	format, ok := acquire.Format(up.Filename)
	if !ok {
		return domain.Contract{}, fmt.Errorf(
			"%w: %s", domain.ErrUnsupportedFormat, strings.ToLower(filepath.Ext(up.Filename)),
		)
	}

	var typeOverride string
	if up.ContractTypeID != nil {
		ct, err := s.types.GetType(ctx, *up.ContractTypeID)
		if err != nil {
			return domain.Contract{}, fmt.Errorf("resolve contract type %d: %w", *up.ContractTypeID, err)
		}
		typeOverride = ct.Name
	}

	path, err := s.storeOriginal(up.Filename, up.Content)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("store original: %w", err)
	}

	text, status := s.recognize(ctx, path, format, up.Language)

	textPath, err := s.storeText(path, text)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("store text artifact: %w", err)
	}

	record := extract.Extract(text)
	if up.ContractTypeID != nil {
		// The override replaces the heuristic classification entirely: the
		// catalog id becomes the type tag, so filtering and stats follow it.
		record.Type = strconv.FormatInt(*up.ContractTypeID, 10)
		record.TypeLabel = typeOverride
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("allocate contract id: %w", err)
	}

	if err := s.repo.SaveText(ctx, id, text); err != nil {
		return domain.Contract{}, fmt.Errorf("save contract text: %w", err)
	}

	c := domain.Contract{
		ID:               id,
		OriginalFilename: up.Filename,
		OriginalPath:     path,
		TextPath:         textPath,
		Record:           record,
		Status:           status,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
		ExpirationDate:   up.ExpirationDate,
		ContractTypeID:   up.ContractTypeID,
	}
	if err := s.repo.Save(ctx, &c); err != nil {
		return domain.Contract{}, fmt.Errorf("save contract: %w", err)
	}

	metrics.ContractsIngestedTotal.WithLabelValues(record.Type).Inc()
	return c, nil
}

// storeOriginal writes the upload under a fresh UUID name, keeping the extension.
func (s *Service) storeOriginal(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(s.uploadDir, uuid.New().String()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// storeText writes the recognized text next to the original, same stem.
func (s *Service) storeText(originalPath, text string) (string, error) {
	textPath := strings.TrimSuffix(originalPath, filepath.Ext(originalPath)) + ".txt"
	if err := os.WriteFile(textPath, []byte(text), 0o644); err != nil {
		return "", err
	}
	return textPath, nil
}

// recognize runs the engine and degrades to empty text on failure.
func (s *Service) recognize(ctx context.Context, path, format, lang string) (string, string) {
	start := time.Now()
	res, err := s.engine.Recognize(ctx, path, lang)
	metrics.AcquisitionDuration.WithLabelValues(s.engine.Name(), format).
		Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AcquisitionRequestsTotal.WithLabelValues(s.engine.Name(), format, "error").Inc()
		logger.FromContext(ctx).Warn("text recognition failed, storing contract without text",
			zap.String("engine", s.engine.Name()),
			zap.String("path", path),
			zap.Error(err),
		)
		return "", domain.StatusPending
	}

	metrics.AcquisitionRequestsTotal.WithLabelValues(s.engine.Name(), format, "success").Inc()
	logger.FromContext(ctx).Debug("text recognized",
		zap.String("engine", s.engine.Name()),
		zap.String("method", res.Method),
		zap.Int("pages", res.Pages),
		zap.Duration("engine_duration", res.Duration),
		zap.Strings("warnings", res.Warnings),
	)
	return res.Text, domain.StatusProcessed
}
