// Package openai implements a text recognition engine backed by an
// OpenAI-compatible vision model.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/docuviet/hopdong/internal/acquire"
	"github.com/docuviet/hopdong/internal/domain"
)

// visionPrompt asks the model for a plain transcription, nothing else.
// The downstream extraction heuristics expect raw document text.
const visionPrompt = "Transcribe all text in this document image exactly as written, " +
	"preserving line breaks and blank lines between sections. " +
	"The document is a Vietnamese contract. Output only the transcribed text."

// Vision recognizes scanned contract images through a chat completion with
// image input. It handles image formats only; PDFs need the local engine.
type Vision struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the vision provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewVision creates an OpenAI-compatible vision recognition engine.
func NewVision(cfg *Config) *Vision {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Vision{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Name identifies the engine in logs and metrics.
func (v *Vision) Name() string { return "openai" }

// Recognize implements acquire.Engine for single-image contract scans.
// A non-empty lang is passed to the model as a hint in the prompt.
func (v *Vision) Recognize(ctx context.Context, path, lang string) (acquire.Result, error) {
	format, ok := acquire.Format(path)
	if !ok || format != acquire.FormatImage {
		return acquire.Result{}, fmt.Errorf(
			"%w: vision engine accepts image files only, got %s",
			domain.ErrUnsupportedFormat, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return acquire.Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	prompt := visionPrompt
	if lang != "" {
		prompt += " Expect the language(s): " + lang + "."
	}

	start := time.Now()
	req := openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURI(path, data),
						Detail: openai.ImageURLDetailHigh,
					},
				},
			},
		}},
	}

	resp, err := v.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return acquire.Result{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return acquire.Result{}, fmt.Errorf("empty vision response: %w", domain.ErrAcquisitionFailed)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	v.logger.Debug("vision transcription complete",
		zap.String("path", path),
		zap.String("model", v.model),
		zap.Int("chars", len(text)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return acquire.Result{
		Text:     text,
		Pages:    1,
		Format:   acquire.FormatImage,
		Method:   acquire.MethodVision,
		Language: lang,
		Duration: time.Since(start),
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (v *Vision) HealthCheck(ctx context.Context) error {
	if _, err := v.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// dataURI inlines an image as a base64 data URI for the image_url part.
func dataURI(path string, data []byte) string {
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".bmp":
		mime = "image/bmp"
	case ".tif", ".tiff":
		mime = "image/tiff"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrAcquisitionFailed for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrAcquisitionFailed

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("vision API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("vision API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("vision API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("vision request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
