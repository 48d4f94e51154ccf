// Package pdf implements the PDF side of the translation pipeline: block
// extraction with bounding boxes, positional alignment of translated text,
// and document reconstruction with redaction and text insertion.
package pdf

import "strings"

// BoundingBox delimits a rectangular text region in the PDF library's native
// page coordinate space. Coordinates are passed through the pipeline
// unchanged so redaction and insertion line up with the extracted region.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.Right - b.Left
}

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 {
	return b.Bottom - b.Top
}

// TextBlock is one contiguous text region on a page. Blocks are immutable
// once extracted; the text is already whitespace-trimmed and non-empty.
type TextBlock struct {
	Box  BoundingBox `json:"box"`
	Text string      `json:"text"`
}

// Page is the ordered block sequence for one page. Order is the extraction
// order of the underlying library and must be preserved end-to-end: the
// aligner pairs translated line i with block i.
type Page struct {
	Number int         `json:"number"` // 1-based
	Blocks []TextBlock `json:"blocks"`
}

// Text joins the page's block texts with newlines, one block per line. This
// is the unit sent to the remote model for a page.
func (p Page) Text() string {
	parts := make([]string, len(p.Blocks))
	for i, b := range p.Blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n")
}

// TranslatedBlock pairs an original block's bounding box with its replacement
// text. When translation yields fewer lines than blocks, the replacement is
// the original text, never a blank.
type TranslatedBlock struct {
	Box  BoundingBox `json:"box"`
	Text string      `json:"text"`
}

// TranslatedPage is the aligned result for one page.
type TranslatedPage struct {
	Number int               `json:"number"`
	Blocks []TranslatedBlock `json:"blocks"`
}

// DocumentInfo describes an input PDF.
type DocumentInfo struct {
	FilePath  string `json:"file_path"`
	FileName  string `json:"file_name"`
	PageCount int    `json:"page_count"`
	FileSize  int64  `json:"file_size"`
	HasText   bool   `json:"has_text"`
}
