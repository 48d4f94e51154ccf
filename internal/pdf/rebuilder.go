package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

const (
	// insertFontName is the fixed fallback font for inserted text.
	insertFontName = "Helvetica"
	// insertFontSize is the fixed point size for inserted text.
	insertFontSize = 10
)

// Rebuilder produces a new PDF from the original by redacting every original
// block's region and inserting the aligned replacement text at each box's
// top-left anchor. Page count and page dimensions are preserved; non-text
// content overlapping a text bounding box is destroyed by the redaction,
// which is a documented limitation of the approach.
type Rebuilder struct {
	conf *model.Configuration
}

// NewRebuilder creates a new Rebuilder.
func NewRebuilder() *Rebuilder {
	return &Rebuilder{conf: model.NewDefaultConfiguration()}
}

// Rebuild writes a translated copy of the PDF at originalPath to outputPath.
// All redactions on a page are applied before any insertion, because the
// white fill only blanks content drawn before it. Any stamp failure aborts
// the rebuild; a partially stamped document is never delivered as success.
func (r *Rebuilder) Rebuild(originalPath string, pages []TranslatedPage, outputPath string) error {
	if err := copyFile(originalPath, outputPath); err != nil {
		return types.NewPipelineError(types.ErrPDFWrite, "cannot write output PDF", err)
	}

	pageCount, err := r.PageCount(outputPath)
	if err != nil {
		return err
	}

	for _, page := range pages {
		if page.Number < 1 || page.Number > pageCount {
			return types.NewPipelineErrorWithDetails(types.ErrPDFWrite,
				"page out of range", fmt.Sprintf("page %d of %d", page.Number, pageCount), nil)
		}
		for _, block := range page.Blocks {
			if err := r.redact(outputPath, page.Number, block.Box); err != nil {
				return types.NewPipelineErrorWithDetails(types.ErrPDFWrite,
					"failed to redact block", fmt.Sprintf("page %d", page.Number), err)
			}
		}
	}

	for _, page := range pages {
		for _, block := range page.Blocks {
			if block.Text == "" {
				continue
			}
			if err := r.insertText(outputPath, page.Number, block); err != nil {
				return types.NewPipelineErrorWithDetails(types.ErrPDFWrite,
					"failed to insert text", fmt.Sprintf("page %d", page.Number), err)
			}
		}
	}

	if err := api.ValidateFile(outputPath, r.conf); err != nil {
		return types.NewPipelineError(types.ErrPDFWrite, "output PDF failed validation", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return types.NewPipelineError(types.ErrPDFWrite, "output PDF is empty", err)
	}

	logger.Info("rebuilt PDF",
		logger.String("output", filepath.Base(outputPath)),
		logger.Int("pages", pageCount),
		logger.Int64("size", info.Size()))
	return nil
}

// baseStamp returns a stamp initialized by pdfcpu and normalized for block
// placement. Starting from DefaultWatermarkConfig matters: it sets up
// internal state (the form cache) that a bare Watermark literal lacks, and
// AddWatermarksFile requires. The diagonal/scale defaults are reset so text
// renders horizontally at its natural size.
func (r *Rebuilder) baseStamp() *model.Watermark {
	wm := model.DefaultWatermarkConfig()
	wm.Mode = model.WMText
	wm.FontName = insertFontName
	wm.Pos = pdftypes.TopLeft
	wm.Diagonal = 0
	wm.Rotation = 0
	wm.Scale = 1
	wm.ScaleAbs = true
	wm.Opacity = 1.0
	wm.OnTop = true
	return wm
}

// redactStamp builds the solid white fill covering a bounding box. The stamp
// carries a real font name even though its text is blank: pdfcpu resolves the
// font before drawing the background.
func (r *Rebuilder) redactStamp(box BoundingBox) *model.Watermark {
	bg := color.White
	wm := r.baseStamp()
	wm.TextString = " " // blank text, background fill only
	wm.BgColor = &bg
	wm.Dx = box.Left
	wm.Dy = box.Top
	wm.Width = int(box.Width())
	wm.Height = int(box.Height())
	return wm
}

// redact covers a bounding box with a solid white fill.
func (r *Rebuilder) redact(path string, page int, box BoundingBox) error {
	return api.AddWatermarksFile(path, "", selectPage(page), r.redactStamp(box), r.conf)
}

// insertText stamps the replacement text at the box's top-left anchor in the
// fixed fallback font, size, and color.
func (r *Rebuilder) insertText(path string, page int, block TranslatedBlock) error {
	wm, err := r.textStamp(block)
	if err != nil {
		return err
	}
	return api.AddWatermarksFile(path, "", selectPage(page), wm, r.conf)
}

// textStamp builds the stamp configuration for one translated block.
func (r *Rebuilder) textStamp(block TranslatedBlock) (*model.Watermark, error) {
	text := prepareStampText(block.Text)
	if text == "" {
		return nil, types.NewPipelineError(types.ErrPDFWrite, "empty stamp text", nil)
	}

	wm := r.baseStamp()
	wm.TextString = text
	wm.FontSize = insertFontSize
	wm.ScaledFontSize = insertFontSize
	wm.Color = color.Black
	wm.Dx = block.Box.Left
	wm.Dy = block.Box.Top

	if w, h := int(block.Box.Width()), int(block.Box.Height()); w > 0 && h > 0 {
		wm.Width = w
		wm.Height = h
	}

	return wm, nil
}

// PageCount returns the number of pages in the PDF at path.
func (r *Rebuilder) PageCount(path string) (int, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, types.NewPipelineError(types.ErrDocumentParse, "cannot read PDF", err)
	}
	return ctx.PageCount, nil
}

// selectPage formats a single page selection for the stamping API.
func selectPage(page int) []string {
	return []string{fmt.Sprintf("%d", page)}
}

// prepareStampText flattens the text to a single line and escapes characters
// that interfere with the stamp syntax.
func prepareStampText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "(", "\\(")
	text = strings.ReplaceAll(text, ")", "\\)")
	return text
}

// copyFile copies src to dst, creating parent directories as needed.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(dst); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(dst, data, 0644)
}
