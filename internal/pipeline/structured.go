package pipeline

import (
	"encoding/json"
	"os"
	"strings"

	"pdf-translator/internal/types"
)

// StructuredDocument is the JSON artifact of the structured-extraction branch.
type StructuredDocument struct {
	DocType            string         `json:"doc_type"`
	Metadata           Metadata       `json:"metadata"`
	Entities           map[string]any `json:"entities"`
	FullTranslatedText string         `json:"full_translated_text"`
}

// Metadata carries the model's language detection result.
type Metadata struct {
	DetectedLanguage string  `json:"detected_language"`
	Confidence       float64 `json:"confidence"`
}

// ParseStructuredDocument parses the raw model output into a
// StructuredDocument. Models wrap JSON in markdown code fences or surround it
// with prose often enough that both are recovered from before giving up.
func ParseStructuredDocument(raw string) (*StructuredDocument, error) {
	cleaned := stripCodeFences(raw)

	doc := &StructuredDocument{}
	if err := json.Unmarshal([]byte(cleaned), doc); err != nil {
		candidate := findFirstJSON(cleaned)
		if candidate == "" {
			return nil, types.NewPipelineErrorWithDetails(types.ErrModelResponseFormat,
				"model response is not JSON", preview(raw), err)
		}
		doc = &StructuredDocument{}
		if err2 := json.Unmarshal([]byte(candidate), doc); err2 != nil {
			return nil, types.NewPipelineErrorWithDetails(types.ErrModelResponseFormat,
				"model response is not valid JSON", preview(raw), err2)
		}
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// validate checks the required shape. Entities may be empty but must exist so
// consumers can range over it without a nil check.
func (d *StructuredDocument) validate() error {
	if d.DocType == "" {
		return types.NewPipelineErrorWithDetails(types.ErrModelResponseFormat,
			"model response missing required field", "doc_type", nil)
	}
	if d.Metadata.DetectedLanguage == "" {
		return types.NewPipelineErrorWithDetails(types.ErrModelResponseFormat,
			"model response missing required field", "metadata.detected_language", nil)
	}
	if d.Metadata.Confidence < 0 || d.Metadata.Confidence > 1 {
		return types.NewPipelineErrorWithDetails(types.ErrModelResponseFormat,
			"confidence out of range", "must be between 0 and 1", nil)
	}
	if d.FullTranslatedText == "" {
		return types.NewPipelineErrorWithDetails(types.ErrModelResponseFormat,
			"model response missing required field", "full_translated_text", nil)
	}
	if d.Entities == nil {
		d.Entities = map[string]any{}
	}
	return nil
}

// WriteFile writes the document as UTF-8 JSON with two-space indentation.
func (d *StructuredDocument) WriteFile(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return types.NewPipelineError(types.ErrPDFWrite, "failed to encode structured document", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return types.NewPipelineError(types.ErrPDFWrite, "failed to write structured document", err)
	}
	return nil
}

// stripCodeFences removes a surrounding markdown code fence, including a
// language tag on the opening fence.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	return s
}

// findFirstJSON returns the first balanced top-level JSON object in s, or "".
func findFirstJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

// preview truncates raw model output for error details.
func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
