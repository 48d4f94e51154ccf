package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf-translator/internal/types"
)

const validResponse = `{
  "doc_type": "invoice",
  "metadata": {"detected_language": "ja", "confidence": 0.94},
  "entities": {"Rechnungsnummer": "42", "Betrag": "1.234,56 EUR"},
  "full_translated_text": "Rechnung Nr. 42 ..."
}`

func TestParseStructuredDocument(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		doc, err := ParseStructuredDocument(validResponse)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if doc.DocType != "invoice" {
			t.Errorf("expected doc_type invoice, got %q", doc.DocType)
		}
		if doc.Metadata.DetectedLanguage != "ja" {
			t.Errorf("expected detected_language ja, got %q", doc.Metadata.DetectedLanguage)
		}
		if doc.Metadata.Confidence != 0.94 {
			t.Errorf("expected confidence 0.94, got %f", doc.Metadata.Confidence)
		}
		if len(doc.Entities) != 2 {
			t.Errorf("expected 2 entities, got %d", len(doc.Entities))
		}
	})

	t.Run("json in code fence", func(t *testing.T) {
		doc, err := ParseStructuredDocument("```json\n" + validResponse + "\n```")
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if doc.DocType != "invoice" {
			t.Errorf("expected doc_type invoice, got %q", doc.DocType)
		}
	})

	t.Run("json surrounded by prose", func(t *testing.T) {
		raw := "Here is the analysis you requested:\n" + validResponse + "\nLet me know if you need anything else."
		doc, err := ParseStructuredDocument(raw)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if doc.DocType != "invoice" {
			t.Errorf("expected doc_type invoice, got %q", doc.DocType)
		}
	})

	t.Run("nil entities becomes empty map", func(t *testing.T) {
		raw := `{"doc_type": "letter", "metadata": {"detected_language": "en", "confidence": 1},
			"full_translated_text": "Dear..."}`
		doc, err := ParseStructuredDocument(raw)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if doc.Entities == nil {
			t.Error("expected entities to be initialized")
		}
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"not json at all", "I could not process this document."},
		{"empty", ""},
		{"missing doc_type", `{"metadata": {"detected_language": "en", "confidence": 0.5}, "full_translated_text": "x"}`},
		{"missing detected_language", `{"doc_type": "letter", "metadata": {"confidence": 0.5}, "full_translated_text": "x"}`},
		{"missing full_translated_text", `{"doc_type": "letter", "metadata": {"detected_language": "en", "confidence": 0.5}}`},
		{"confidence above one", `{"doc_type": "letter", "metadata": {"detected_language": "en", "confidence": 1.5}, "full_translated_text": "x"}`},
		{"confidence negative", `{"doc_type": "letter", "metadata": {"detected_language": "en", "confidence": -0.1}, "full_translated_text": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStructuredDocument(tt.raw)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code, ok := types.CodeOf(err); !ok || code != types.ErrModelResponseFormat {
				t.Errorf("expected %s, got %v", types.ErrModelResponseFormat, err)
			}
		})
	}
}

func TestStructuredDocument_WriteFile(t *testing.T) {
	doc, err := ParseStructuredDocument(validResponse)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), OutputJSONName)
	if err := doc.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output failed: %v", err)
	}
	if !strings.Contains(string(data), "  \"doc_type\"") {
		t.Error("expected two-space indentation")
	}

	var roundtrip StructuredDocument
	if err := json.Unmarshal(data, &roundtrip); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if roundtrip.DocType != doc.DocType {
		t.Errorf("expected doc_type %q, got %q", doc.DocType, roundtrip.DocType)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindFirstJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"prose around", `before {"a": 1} after`, `{"a": 1}`},
		{"nested object", `x {"a": {"b": 2}} y`, `{"a": {"b": 2}}`},
		{"brace inside string", `{"a": "}"}`, `{"a": "}"}`},
		{"no object", "nothing here", ""},
		{"unclosed", `{"a": 1`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findFirstJSON(tt.in); got != tt.want {
				t.Errorf("findFirstJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
