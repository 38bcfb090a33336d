// Package acquire turns uploaded contract files into raw text.
//
// Two engines exist: a local CLI pipeline built on poppler and tesseract,
// and a remote vision-model engine. Both satisfy Engine; the ingestion
// workflow does not care which one produced the text.
package acquire

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

// Recognition methods reported in Result.Method.
const (
	MethodTextLayer = "text_layer"
	MethodOCR       = "ocr"
	MethodMixed     = "mixed"
	MethodVision    = "vision"
)

// Result is the output of one recognition run. Warnings carry per-page
// failures that degraded the output without aborting it.
type Result struct {
	Text     string
	Pages    int
	Format   string
	Method   string
	Language string
	Duration time.Duration
	Warnings []string
}

// Engine recognizes the text of a contract file on disk. An empty lang
// keeps the engine's configured default language models.
type Engine interface {
	Recognize(ctx context.Context, path, lang string) (Result, error)
	Name() string
}

// Supported file formats.
const (
	FormatPDF   = "pdf"
	FormatImage = "image"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Format classifies a filename by extension. The second return is false
// for unsupported extensions.
func Format(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf":
		return FormatPDF, true
	case imageExts[ext]:
		return FormatImage, true
	default:
		return "", false
	}
}
