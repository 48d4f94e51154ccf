// Package pipeline orchestrates a translation request end to end: extraction,
// remote model calls, alignment, rebuild, and packaging, under a scoped
// working directory that never leaks partial output.
package pipeline

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pdf-translator/internal/llm"
	"pdf-translator/internal/logger"
	"pdf-translator/internal/pdf"
	"pdf-translator/internal/types"
)

// Mode selects which artifacts a request produces.
type Mode string

const (
	// ModeStructured produces output.json with entities and the full translation.
	ModeStructured Mode = "structured"
	// ModeRebuild produces translated.pdf with the original layout.
	ModeRebuild Mode = "rebuild"
	// ModeBoth produces result.zip containing both artifacts.
	ModeBoth Mode = "both"
)

// Deterministic artifact names.
const (
	OutputJSONName    = "output.json"
	TranslatedPDFName = "translated.pdf"
	ResultZipName     = "result.zip"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStructured:
		return ModeStructured, nil
	case ModeRebuild:
		return ModeRebuild, nil
	case ModeBoth:
		return ModeBoth, nil
	default:
		return "", types.NewPipelineErrorWithDetails(types.ErrInvalidInput,
			"invalid mode", fmt.Sprintf("%q is not one of structured, rebuild, both", s), nil)
	}
}

// Result describes the single file a successful request delivered.
type Result struct {
	Mode       Mode   `json:"mode"`
	OutputPath string `json:"output_path"`
	FileName   string `json:"file_name"`
}

// extractor is the extraction capability the orchestrator needs.
type extractor interface {
	ExtractPages(path string) ([]pdf.Page, error)
	FullText(path string) (string, error)
}

// rebuilder is the reconstruction capability the orchestrator needs.
type rebuilder interface {
	Rebuild(originalPath string, pages []pdf.TranslatedPage, outputPath string) error
}

// Pipeline runs translation requests. Safe for concurrent use; every request
// works in its own temp directory.
type Pipeline struct {
	extractor   extractor
	aligner     pdf.Aligner
	rebuilder   rebuilder
	client      llm.Client
	concurrency int
	workDir     string
}

// New creates a Pipeline with the standard components.
func New(client llm.Client, cfg *types.Config) *Pipeline {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Pipeline{
		extractor:   pdf.NewExtractor(),
		aligner:     pdf.NewLineAligner(),
		rebuilder:   pdf.NewRebuilder(),
		client:      client,
		concurrency: concurrency,
		workDir:     cfg.WorkDirectory,
	}
}

// Run executes one request. outputDir is where the delivered file lands; an
// empty outputDir means the current directory. Nothing is delivered on
// failure or cancellation: artifacts are staged in a temp directory that is
// removed unconditionally, and only moved out after the whole request
// succeeded.
func (p *Pipeline) Run(ctx context.Context, inputPath, targetLanguage string, mode Mode, outputDir string) (*Result, error) {
	if err := validateInput(inputPath); err != nil {
		return nil, err
	}
	if outputDir == "" {
		outputDir = "."
	}

	tempDir, err := os.MkdirTemp(p.workDir, "pdf-translate-*")
	if err != nil {
		return nil, types.NewPipelineError(types.ErrPDFWrite, "cannot create working directory", err)
	}
	defer os.RemoveAll(tempDir)

	logger.Info("starting translation request",
		logger.String("input", filepath.Base(inputPath)),
		logger.String("language", targetLanguage),
		logger.String("mode", string(mode)))

	staged, err := p.runMode(ctx, inputPath, targetLanguage, mode, tempDir)
	if err != nil {
		return nil, err
	}

	finalPath := filepath.Join(outputDir, filepath.Base(staged))
	if err := moveFile(staged, finalPath); err != nil {
		return nil, types.NewPipelineError(types.ErrPDFWrite, "cannot deliver output file", err)
	}

	logger.Info("translation request complete", logger.String("output", finalPath))
	return &Result{
		Mode:       mode,
		OutputPath: finalPath,
		FileName:   filepath.Base(finalPath),
	}, nil
}

// runMode stages the mode's artifact inside tempDir and returns its path.
func (p *Pipeline) runMode(ctx context.Context, inputPath, targetLanguage string, mode Mode, tempDir string) (string, error) {
	switch mode {
	case ModeStructured:
		return p.runStructured(ctx, inputPath, targetLanguage, tempDir)
	case ModeRebuild:
		return p.runRebuild(ctx, inputPath, targetLanguage, tempDir)
	case ModeBoth:
		return p.runBoth(ctx, inputPath, targetLanguage, tempDir)
	default:
		return "", types.NewPipelineErrorWithDetails(types.ErrInvalidInput, "invalid mode", string(mode), nil)
	}
}

// runStructured extracts the full text, asks the model for the structured
// JSON document, and stages it as output.json.
func (p *Pipeline) runStructured(ctx context.Context, inputPath, targetLanguage, tempDir string) (string, error) {
	text, err := p.extractor.FullText(inputPath)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", types.NewPipelineErrorWithDetails(types.ErrInvalidInput,
			"no extractable text", "the document may be scanned or image-only", nil)
	}

	raw, err := p.client.ExtractEntities(ctx, text, targetLanguage)
	if err != nil {
		return "", err
	}

	doc, err := ParseStructuredDocument(raw)
	if err != nil {
		return "", err
	}

	staged := filepath.Join(tempDir, OutputJSONName)
	if err := doc.WriteFile(staged); err != nil {
		return "", err
	}
	return staged, nil
}

// runRebuild translates each page, aligns the lines back onto the extracted
// blocks, and stages the rebuilt PDF as translated.pdf.
func (p *Pipeline) runRebuild(ctx context.Context, inputPath, targetLanguage, tempDir string) (string, error) {
	pages, err := p.extractor.ExtractPages(inputPath)
	if err != nil {
		return "", err
	}

	translated, err := p.translatePages(ctx, pages, targetLanguage)
	if err != nil {
		return "", err
	}

	staged := filepath.Join(tempDir, TranslatedPDFName)
	if err := p.rebuilder.Rebuild(inputPath, translated, staged); err != nil {
		return "", err
	}
	return staged, nil
}

// translatePages translates pages concurrently under the configured bound.
// Results land in a slice indexed by page position, so document order is
// preserved regardless of completion order.
func (p *Pipeline) translatePages(ctx context.Context, pages []pdf.Page, targetLanguage string) ([]pdf.TranslatedPage, error) {
	translated := make([]pdf.TranslatedPage, len(pages))

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, page := range pages {
		translated[i] = pdf.TranslatedPage{Number: page.Number}
		if len(page.Blocks) == 0 {
			continue
		}

		wg.Add(1)
		go func(i int, page pdf.Page) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			out, err := p.client.Translate(ctx, page.Text(), targetLanguage)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
				return
			}

			translated[i].Blocks = p.aligner.Align(page.Blocks, out)
			logger.Debug("page translated",
				logger.Int("page", page.Number),
				logger.Int("blocks", len(page.Blocks)))
		}(i, page)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, types.NewPipelineError(types.ErrRemoteService, "request canceled", err)
	}
	return translated, nil
}

// runBoth runs the structured and rebuild branches concurrently and stages
// both artifacts into result.zip. Either failure aborts the whole request.
func (p *Pipeline) runBoth(ctx context.Context, inputPath, targetLanguage, tempDir string) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var jsonPath, pdfPath string
	var jsonErr, pdfErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		jsonPath, jsonErr = p.runStructured(ctx, inputPath, targetLanguage, tempDir)
		if jsonErr != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		pdfPath, pdfErr = p.runRebuild(ctx, inputPath, targetLanguage, tempDir)
		if pdfErr != nil {
			cancel()
		}
	}()
	wg.Wait()

	if jsonErr != nil {
		return "", jsonErr
	}
	if pdfErr != nil {
		return "", pdfErr
	}

	staged := filepath.Join(tempDir, ResultZipName)
	if err := writeZip(staged, jsonPath, pdfPath); err != nil {
		return "", err
	}
	return staged, nil
}

// writeZip packages the two artifacts under their deterministic entry names.
func writeZip(zipPath string, files ...string) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return types.NewPipelineError(types.ErrPDFWrite, "cannot create archive", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, path := range files {
		if err := addZipEntry(w, path); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return types.NewPipelineError(types.ErrPDFWrite, "cannot finalize archive", err)
	}
	return nil
}

func addZipEntry(w *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return types.NewPipelineError(types.ErrPDFWrite, "cannot read artifact", err)
	}
	defer src.Close()

	entry, err := w.Create(filepath.Base(path))
	if err != nil {
		return types.NewPipelineError(types.ErrPDFWrite, "cannot create archive entry", err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return types.NewPipelineError(types.ErrPDFWrite, "cannot write archive entry", err)
	}
	return nil
}

// validateInput checks that the input exists and claims to be a PDF.
func validateInput(path string) error {
	if strings.TrimSpace(path) == "" {
		return types.NewPipelineError(types.ErrInvalidInput, "input file is required", nil)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return types.NewPipelineErrorWithDetails(types.ErrInvalidInput,
			"input must be a PDF file", path, nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.NewPipelineErrorWithDetails(types.ErrInvalidInput, "cannot access input file", path, err)
	}
	if info.IsDir() {
		return types.NewPipelineErrorWithDetails(types.ErrInvalidInput, "input is a directory", path, nil)
	}
	return nil
}

// moveFile renames src to dst, copying across filesystems when rename fails.
func moveFile(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
