// Package types defines core data types and the error taxonomy shared across
// the PDF translation pipeline.
package types

import "errors"

// Provider identifies the remote model vendor used for translation and
// entity extraction.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Config holds the application configuration.
type Config struct {
	Provider      Provider `json:"provider"`        // "gemini" or "openai"
	GeminiAPIKey  string   `json:"gemini_api_key"`
	GeminiModel   string   `json:"gemini_model"`
	OpenAIAPIKey  string   `json:"openai_api_key"`
	OpenAIBaseURL string   `json:"openai_base_url"` // base URL for OpenAI-compatible APIs
	OpenAIModel   string   `json:"openai_model"`
	WorkDirectory string   `json:"work_directory"`
	Concurrency   int      `json:"concurrency"`    // concurrent page translations
	MaxRetries    int      `json:"max_retries"`    // remote call retries, 0 disables
	LanguagesFile string   `json:"languages_file"` // optional languages.json path
}

// ErrorCode classifies request-scoped failures.
type ErrorCode string

const (
	// ErrDocumentParse indicates the input could not be read as a PDF.
	ErrDocumentParse ErrorCode = "DOCUMENT_PARSE_ERROR"
	// ErrModelResponseFormat indicates the remote model returned something
	// that was required to be JSON but is not.
	ErrModelResponseFormat ErrorCode = "MODEL_RESPONSE_FORMAT_ERROR"
	// ErrRemoteService indicates a network, timeout, or quota failure while
	// calling the remote model.
	ErrRemoteService ErrorCode = "REMOTE_SERVICE_ERROR"
	// ErrPDFWrite indicates the output PDF could not be produced.
	ErrPDFWrite ErrorCode = "PDF_WRITE_ERROR"
	// ErrConfig indicates invalid or incomplete configuration.
	ErrConfig ErrorCode = "CONFIG_ERROR"
	// ErrInvalidInput indicates a bad request parameter (mode, language).
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
)

// PipelineError is the error type surfaced by every pipeline stage. All
// failures are request-scoped: the request terminates and no file is
// delivered.
type PipelineError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for PipelineError
func (e *PipelineError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewPipelineError creates a new PipelineError with the given code, message, and optional cause
func NewPipelineError(code ErrorCode, message string, cause error) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewPipelineErrorWithDetails creates a new PipelineError with details
func NewPipelineErrorWithDetails(code ErrorCode, message, details string, cause error) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// CodeOf returns the ErrorCode carried by err, unwrapping as needed.
// The second return is false if err is not a PipelineError.
func CodeOf(err error) (ErrorCode, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return "", false
}
