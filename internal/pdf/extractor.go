package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

// Extractor reads a PDF and produces, per page in document order, the text
// blocks with their bounding boxes. A block is included only if its text,
// after trimming, is non-empty.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPages extracts all pages from the PDF at path. Pages without
// extractable text appear with an empty block list so page numbering stays
// aligned with the document.
func (e *Extractor) ExtractPages(path string) (pages []Page, err error) {
	defer recoverParse(&pages, &err)

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, types.NewPipelineError(types.ErrDocumentParse, "cannot open PDF", err)
	}
	defer f.Close()

	return e.extract(r)
}

// ExtractPagesFromBytes is the byte-oriented entry point with the same
// contract as ExtractPages.
func (e *Extractor) ExtractPagesFromBytes(content []byte) (pages []Page, err error) {
	defer recoverParse(&pages, &err)

	if len(content) == 0 {
		return nil, types.NewPipelineError(types.ErrDocumentParse, "empty PDF content", nil)
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, types.NewPipelineError(types.ErrDocumentParse, "cannot open PDF", err)
	}

	return e.extract(r)
}

// recoverParse converts reader panics into parse errors. The underlying
// library panics on some malformed cross-reference tables; the extractor
// contract is a DocumentParse failure with no partial results.
func recoverParse(pages *[]Page, err *error) {
	if rec := recover(); rec != nil {
		*pages = nil
		*err = types.NewPipelineErrorWithDetails(types.ErrDocumentParse,
			"malformed PDF", fmt.Sprintf("%v", rec), nil)
	}
}

// extract walks every page and turns each text row into a block.
func (e *Extractor) extract(r *pdf.Reader) ([]Page, error) {
	totalPages := r.NumPage()
	pages := make([]Page, 0, totalPages)

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		p := Page{Number: pageNum}

		page := r.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, p)
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			logger.Warn("failed to read page rows",
				logger.Int("page", pageNum), logger.Err(err))
			pages = append(pages, p)
			continue
		}

		for _, row := range rows {
			if block, ok := rowToBlock(row); ok {
				p.Blocks = append(p.Blocks, block)
			}
		}

		sortBlocks(p.Blocks)
		pages = append(pages, p)
	}

	return pages, nil
}

// FullText returns the document's plain text, pages separated by blank
// lines. Used by the structured-extraction branch.
func (e *Extractor) FullText(path string) (string, error) {
	pages, err := e.ExtractPages(path)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, p := range pages {
		if len(p.Blocks) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p.Text())
	}
	return sb.String(), nil
}

// Info returns basic information about the PDF at path, including a probe
// over the first pages for extractable text.
func (e *Extractor) Info(path string) (info *DocumentInfo, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			info = nil
			err = types.NewPipelineErrorWithDetails(types.ErrDocumentParse,
				"malformed PDF", fmt.Sprintf("%v", rec), nil)
		}
	}()

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, types.NewPipelineError(types.ErrDocumentParse, "cannot access file", err)
	}
	if fileInfo.IsDir() {
		return nil, types.NewPipelineErrorWithDetails(types.ErrDocumentParse, "not a file", path, nil)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, types.NewPipelineError(types.ErrDocumentParse, "cannot open PDF", err)
	}
	defer f.Close()

	return &DocumentInfo{
		FilePath:  path,
		FileName:  filepath.Base(path),
		PageCount: r.NumPage(),
		FileSize:  fileInfo.Size(),
		HasText:   hasExtractableText(r),
	}, nil
}

// hasExtractableText probes the first few pages for non-whitespace content.
func hasExtractableText(r *pdf.Reader) bool {
	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	total := 0
	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, c := range content {
			if !unicode.IsSpace(c) {
				total++
			}
		}
		if total > 50 {
			return true
		}
	}

	return total > 0
}

// rowToBlock merges a row's fragments into a single block with a bounding
// box. Returns false for rows that are empty after trimming or that look
// like PDF operator garbage rather than document text.
func rowToBlock(row *pdf.Row) (TextBlock, bool) {
	if len(row.Content) == 0 {
		return TextBlock{}, false
	}

	var sb strings.Builder
	var minX, maxX, minY float64
	var totalFontSize float64
	count := 0

	for _, t := range row.Content {
		if t.S == "" {
			continue
		}
		sb.WriteString(t.S)

		if count == 0 {
			minX, maxX, minY = t.X, t.X, t.Y
		} else {
			if t.X < minX {
				minX = t.X
			}
			if t.X > maxX {
				maxX = t.X
			}
			if t.Y < minY {
				minY = t.Y
			}
		}
		totalFontSize += t.FontSize
		count++
	}

	text := strings.TrimSpace(sb.String())
	if text == "" || count == 0 {
		return TextBlock{}, false
	}
	if isOperatorGarbage(text) || hasExcessiveNonPrintable(text) {
		return TextBlock{}, false
	}

	avgFontSize := totalFontSize / float64(count)
	if avgFontSize <= 0 {
		avgFontSize = 10.0
	}

	// Width from the fragment spread plus one glyph of slack; fall back to a
	// length-based estimate when all fragments share an X coordinate.
	width := maxX - minX + avgFontSize
	if est := float64(len(text)) * avgFontSize * 0.5; est > width {
		width = est
	}
	height := avgFontSize * 1.2

	return TextBlock{
		Box: BoundingBox{
			Left:   minX,
			Top:    minY,
			Right:  minX + width,
			Bottom: minY + height,
		},
		Text: text,
	}, true
}

// sortBlocks orders blocks top-to-bottom, left-to-right. PDF coordinates
// have their origin at the bottom-left, so higher Y means higher on the page.
func sortBlocks(blocks []TextBlock) {
	const yTolerance = 5.0
	sort.SliceStable(blocks, func(i, j int) bool {
		yi, yj := blocks[i].Box.Top, blocks[j].Box.Top
		if yi-yj < yTolerance && yj-yi < yTolerance {
			return blocks[i].Box.Left < blocks[j].Box.Left
		}
		return yi > yj
	})
}

// isOperatorGarbage reports whether text looks like PostScript/PDF operator
// code leaked into the text stream rather than document content.
func isOperatorGarbage(text string) bool {
	textLower := strings.ToLower(text)

	if strings.Contains(text, "/") && (strings.Contains(text, " def ") || strings.HasSuffix(text, " def")) {
		return true
	}
	if strings.Contains(textLower, "null def") {
		return true
	}

	operators := []string{
		"currentpoint", "gsave", "grestore", "newpath", "closepath",
		"setrgbcolor", "setgray", "setlinewidth", "showpage",
		"moveto", "lineto", "curveto",
	}
	for _, op := range operators {
		if strings.Contains(textLower, op) {
			return true
		}
	}

	// Several /Name tokens in a row is operator syntax, not prose. URLs also
	// contain slashes, so skip anything that looks like one.
	if !strings.Contains(text, "://") {
		nameCount := 0
		for _, word := range strings.Fields(text) {
			if len(word) > 1 && word[0] == '/' && isIdentifier(word[1:]) {
				nameCount++
			}
		}
		if nameCount >= 3 {
			return true
		}
	}

	return false
}

func isIdentifier(s string) bool {
	for _, c := range s {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '@') {
			return false
		}
	}
	return true
}

// hasExcessiveNonPrintable reports whether more than 10% of the characters
// are control characters.
func hasExcessiveNonPrintable(text string) bool {
	if len(text) == 0 {
		return false
	}

	nonPrintable := 0
	for _, r := range text {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			nonPrintable++
		}
		if r >= 0x7F && r <= 0x9F {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(len(text)) > 0.1
}
