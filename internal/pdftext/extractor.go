package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pgale/abn-tracker/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

type ExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "txt-passthrough"
	Duration time.Duration
	Warnings []string
}

// Extractor pulls the text layer out of registry extract files. These PDFs
// are generated, never scanned, so there is no raster/OCR fallback.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// NewExtractorWithRunner is NewExtractor with a custom command runner (tests).
func NewExtractorWithRunner(cfg Config, r Runner, logger *slog.Logger) *Extractor {
	e := NewExtractor(cfg, logger)
	e.runner = r
	return e
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))

	var res ExtractionResult
	var err error
	switch ext {
	case "pdf":
		res, err = e.pdfToText(ctx, path)
	case "txt":
		res, err = e.readText(path)
	default:
		e.logger.Error("unsupported extension", "path", path, "ext", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	if strings.TrimSpace(res.Text) == "" {
		return res, fmt.Errorf("no text layer in %q", filepath.Base(path))
	}
	return res, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (ExtractionResult, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return ExtractionResult{Method: "pdf-text", Warnings: []string{string(errb)}}, err
	}
	text := string(out)
	// A form-feed \f is used as page separator by default
	return ExtractionResult{
		Text:   text,
		Pages:  1 + strings.Count(text, "\f"),
		Method: "pdf-text",
	}, nil
}

func (e *Extractor) readText(path string) (ExtractionResult, error) {
	out, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{Method: "txt-passthrough"}, err
	}
	text := string(out)
	return ExtractionResult{
		Text:   text,
		Pages:  1 + strings.Count(text, "\f"),
		Method: "txt-passthrough",
	}, nil
}
