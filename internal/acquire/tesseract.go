package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docuviet/hopdong/internal/domain"
)

// TesseractConfig tunes the local CLI recognition pipeline.
type TesseractConfig struct {
	TesseractBin string
	PdftotextBin string
	PdftoppmBin  string
	Languages    string
	DPI          int
	Timeout      time.Duration
}

// Tesseract recognizes text with poppler and tesseract binaries. PDF pages
// that already carry an embedded text layer are taken verbatim; only pages
// without one are rasterized and OCRed.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *zap.Logger
}

// NewTesseract creates the CLI engine. Zero-value config fields fall back
// to binaries on PATH, Vietnamese plus English models and 300 DPI.
func NewTesseract(cfg TesseractConfig, logger *zap.Logger) *Tesseract {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TesseractBin == "" {
		cfg.TesseractBin = "tesseract"
	}
	if cfg.PdftotextBin == "" {
		cfg.PdftotextBin = "pdftotext"
	}
	if cfg.PdftoppmBin == "" {
		cfg.PdftoppmBin = "pdftoppm"
	}
	if cfg.Languages == "" {
		cfg.Languages = "vie+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Tesseract{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Name identifies the engine in logs and metrics.
func (t *Tesseract) Name() string { return "tesseract" }

// Recognize extracts the text of the file at path. An empty lang falls
// back to the configured language models.
func (t *Tesseract) Recognize(ctx context.Context, path, lang string) (Result, error) {
	format, ok := Format(path)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if lang == "" {
		lang = t.cfg.Languages
	}

	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()

	if format == FormatPDF {
		res, err := t.recognizePDF(ctx, path, lang)
		if err != nil {
			return Result{}, err
		}
		res.Format = FormatPDF
		res.Language = lang
		res.Duration = time.Since(start)
		return res, nil
	}

	text, err := t.ocrImage(ctx, path, lang)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Text:     strings.TrimSpace(text),
		Pages:    1,
		Format:   FormatImage,
		Method:   MethodOCR,
		Language: lang,
		Duration: time.Since(start),
	}, nil
}

// recognizePDF reads the embedded text layer page by page and OCRs only the
// pages that have none. Non-empty page texts join with a blank line.
func (t *Tesseract) recognizePDF(ctx context.Context, path, lang string) (Result, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := t.runner.Run(ctx, t.cfg.PdftotextBin,
		"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Result{}, fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512))
	}

	// Form feed is the default page separator.
	pages := strings.Split(string(out), "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}

	var ocrPages int
	var warnings []string
	parts := make([]string, 0, len(pages))
	for i, page := range pages {
		text := strings.TrimSpace(page)
		if text == "" {
			ocrPages++
			text, err = t.ocrPDFPage(ctx, path, i+1, lang)
			if err != nil {
				t.logger.Warn("page ocr failed",
					zap.String("path", path), zap.Int("page", i+1), zap.Error(err))
				warnings = append(warnings, fmt.Sprintf("page %d: %v", i+1, err))
				continue
			}
			text = strings.TrimSpace(text)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	method := MethodTextLayer
	switch {
	case ocrPages == len(pages):
		method = MethodOCR
	case ocrPages > 0:
		method = MethodMixed
	}

	return Result{
		Text:     strings.Join(parts, "\n\n"),
		Pages:    len(pages),
		Method:   method,
		Warnings: warnings,
	}, nil
}

// ocrPDFPage rasterizes a single page and runs it through tesseract.
func (t *Tesseract) ocrPDFPage(ctx context.Context, path string, page int, lang string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "hopdong-pp-*")
	if err != nil {
		return "", fmt.Errorf("mkdir temp: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			t.logger.Warn("failed to remove temp dir", zap.String("dir", tmpDir), zap.Error(rmErr))
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	n := strconv.Itoa(page)
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := t.runner.Run(ctx, t.cfg.PdftoppmBin,
		"-f", n, "-l", n, "-r", strconv.Itoa(t.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	return t.ocrImage(ctx, matches[0], lang)
}

// ocrImage runs tesseract on one image file.
func (t *Tesseract) ocrImage(ctx context.Context, path, lang string) (string, error) {
	// tesseract <file> stdout -l <langs>
	out, errb, err := t.runner.Run(ctx, t.cfg.TesseractBin, path, "stdout", "-l", lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
