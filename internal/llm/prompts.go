package llm

import "fmt"

// extractionPrompt asks the model to analyze a document and answer with one
// strict JSON object carrying the document type, detected language, extracted
// entities, and the full translation.
func extractionPrompt(text, targetLanguage string) string {
	return fmt.Sprintf(`Please analyze the following document text.

Instructions:
1. Detect the original language automatically.
2. Translate all text into %[1]s.
3. Provide the result in this exact JSON format (valid JSON, no extra text outside the JSON):

{
  "doc_type": "auto-detected document type (e.g., invoice, contract, letter, etc.)",
  "metadata": {
    "detected_language": "ISO language code (e.g., 'ja', 'zh', 'ko', 'en')",
    "confidence": float_between_0_and_1
  },
  "entities": {
    // Extract all identifiable information as key-value pairs
    // Use descriptive keys written in %[1]s
  },
  "full_translated_text": "Full translation of the document in %[1]s"
}

4. Preserve numbers, dates, and currency formats exactly as in the original.
5. If any content is unreadable, replace it with "[unreadable]".
6. Include all readable information from the document without summarizing or omitting.

Document text:
%[2]s
`, targetLanguage, text)
}

// translationPrompt asks the model for a plain translation that keeps the
// line structure of the input, one translated line per input line.
func translationPrompt(text, targetLanguage string) string {
	return fmt.Sprintf(`You are a professional document translator.

Instructions:
1. Detect the original language automatically.
2. Translate the entire document into %[1]s.
3. Maintain the original document's formatting exactly:
   - Keep the same line structure: output exactly one translated line per input line.
   - Keep numbers, dates, and currency values exactly as in the original.
4. Only translate text; do not add commentary or alter non-text elements.

Document text:
%[2]s
`, targetLanguage, text)
}
