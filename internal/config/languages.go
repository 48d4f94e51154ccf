package config

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"pdf-translator/internal/types"
)

// defaultLanguages returns the built-in supported-language allow-list,
// mapping ISO codes to the English display names used in prompts.
func defaultLanguages() map[string]string {
	return map[string]string{
		"ar": "Arabic",
		"de": "German",
		"en": "English",
		"es": "Spanish",
		"fr": "French",
		"hi": "Hindi",
		"id": "Indonesian",
		"it": "Italian",
		"ja": "Japanese",
		"ko": "Korean",
		"nl": "Dutch",
		"pl": "Polish",
		"pt": "Portuguese",
		"ru": "Russian",
		"sv": "Swedish",
		"th": "Thai",
		"tr": "Turkish",
		"uk": "Ukrainian",
		"vi": "Vietnamese",
		"zh": "Chinese",
	}
}

// Languages returns the supported ISO codes in sorted order.
func (m *Manager) Languages() []string {
	codes := make([]string, 0, len(m.languages))
	for code := range m.languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LanguageName returns the display name for an ISO code in the allow-list.
func (m *Manager) LanguageName(code string) (string, bool) {
	name, ok := m.languages[code]
	return name, ok
}

// ResolveLanguage validates a target-language identifier against the
// allow-list and returns the display name used in prompts. It accepts an ISO
// code ("es"), a display name ("Spanish", case-insensitive), or any BCP-47
// tag whose base language is in the allow-list ("es-MX").
func (m *Manager) ResolveLanguage(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", types.NewPipelineError(types.ErrInvalidInput, "target language is required", nil)
	}

	if name, ok := m.languages[strings.ToLower(target)]; ok {
		return name, nil
	}

	for _, name := range m.languages {
		if strings.EqualFold(name, target) {
			return name, nil
		}
	}

	// Last chance: parse as a BCP-47 tag and match its base language.
	if tag, err := language.Parse(target); err == nil {
		base, conf := tag.Base()
		if conf >= language.High {
			if name, ok := m.languages[base.String()]; ok {
				return name, nil
			}
		}
		return "", types.NewPipelineErrorWithDetails(types.ErrInvalidInput,
			"unsupported target language", display.English.Languages().Name(tag), nil)
	}

	return "", types.NewPipelineErrorWithDetails(types.ErrInvalidInput,
		"unsupported target language", target, nil)
}
