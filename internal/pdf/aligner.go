package pdf

import (
	"strings"

	"pdf-translator/internal/logger"
)

// Aligner maps translated output back onto the original bounding boxes. It
// is a pluggable strategy so the naive positional aligner can later be
// replaced by a semantic one without touching the rest of the pipeline.
type Aligner interface {
	Align(blocks []TextBlock, translated string) []TranslatedBlock
}

// LineAligner is the index-based alignment strategy: line i of the
// translated output is paired with block i. It has no mechanism to detect
// reordering, merged lines, or split lines introduced by translation.
type LineAligner struct{}

// NewLineAligner creates a new LineAligner.
func NewLineAligner() *LineAligner {
	return &LineAligner{}
}

// Align splits the translated text on line boundaries and pairs lines with
// blocks by index. Blocks beyond the available lines keep their original
// text, never a blank. A line/block count mismatch is logged but does not
// fail the request; the fallback masks it in the output.
func (a *LineAligner) Align(blocks []TextBlock, translated string) []TranslatedBlock {
	lines := splitLines(translated)

	if len(lines) != len(blocks) {
		logger.Warn("translated line count does not match block count",
			logger.Int("blocks", len(blocks)),
			logger.Int("lines", len(lines)))
	}

	aligned := make([]TranslatedBlock, len(blocks))
	for i, block := range blocks {
		text := block.Text
		if i < len(lines) {
			text = lines[i]
		}
		aligned[i] = TranslatedBlock{Box: block.Box, Text: text}
	}
	return aligned
}

// splitLines splits on newlines, normalizing CRLF first. Trailing empty
// lines are dropped so a terminal newline does not count as a line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
