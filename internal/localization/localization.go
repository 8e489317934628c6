package localization

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations/*.yaml
var translationsFS embed.FS

const DefaultLanguage = "ru"

var languages = []string{"ru", "en"}

type Service struct {
	fallback     string
	translations map[string]map[string]interface{}
}

func NewService(fallback string) (*Service, error) {
	if fallback == "" {
		fallback = DefaultLanguage
	}

	s := &Service{
		fallback:     fallback,
		translations: make(map[string]map[string]interface{}),
	}

	for _, lang := range languages {
		data, err := translationsFS.ReadFile(fmt.Sprintf("translations/%s.yaml", lang))
		if err != nil {
			return nil, fmt.Errorf("read %s translations: %w", lang, err)
		}

		var translations map[string]interface{}
		if err := yaml.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("parse %s translations: %w", lang, err)
		}

		s.translations[lang] = translations
	}

	if _, ok := s.translations[fallback]; !ok {
		return nil, fmt.Errorf("unsupported fallback language %q", fallback)
	}

	return s, nil
}

// Languages returns the supported language codes, sorted.
func (s *Service) Languages() []string {
	out := make([]string, 0, len(s.translations))
	for lang := range s.translations {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Supported reports whether lang has translations.
func (s *Service) Supported(lang string) bool {
	_, ok := s.translations[lang]
	return ok
}

// Get retrieves a translation by key for the given language
// Key format: "section.subsection.key" or "section.key"
// Params can contain placeholders like {{name}}, {{days}}, etc.
func (s *Service) Get(lang, key string, params map[string]interface{}) string {
	text, ok := s.lookup(lang, key)
	if !ok {
		return key
	}
	return s.replacePlaceholders(text, params)
}

// Lookup is Get without the key fallback: ok is false for missing keys.
func (s *Service) Lookup(lang, key string) (string, bool) {
	return s.lookup(lang, key)
}

func (s *Service) lookup(lang, key string) (string, bool) {
	langTranslations, ok := s.translations[lang]
	if !ok {
		langTranslations = s.translations[s.fallback]
	}

	parts := strings.Split(key, ".")
	var current interface{} = langTranslations

	for _, part := range parts {
		if m, ok := current.(map[string]interface{}); ok {
			current = m[part]
		} else {
			return "", false
		}
	}

	text, ok := current.(string)
	return text, ok
}

// DaysUnit returns the "day" word agreeing with n.
func (s *Service) DaysUnit(lang string, n int) string {
	return s.Get(lang, "days."+pluralForm(n), nil)
}

// pluralForm follows the Russian rules; languages with fewer forms map
// "few" and "many" to the same word.
func pluralForm(n int) string {
	if n < 0 {
		n = -n
	}
	mod10, mod100 := n%10, n%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return "one"
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return "few"
	default:
		return "many"
	}
}

// Negotiate picks the language from an explicit choice or an Accept-Language
// header, falling back to the service default.
func (s *Service) Negotiate(explicit, acceptLanguage string) string {
	if lang := normalizeTag(explicit); s.Supported(lang) {
		return lang
	}

	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang := normalizeTag(tag); s.Supported(lang) {
			return lang
		}
	}

	return s.fallback
}

func normalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag
}

func (s *Service) replacePlaceholders(text string, params map[string]interface{}) string {
	if params == nil {
		return text
	}

	result := text
	for key, value := range params {
		placeholder := fmt.Sprintf("{{%s}}", key)
		result = strings.ReplaceAll(result, placeholder, fmt.Sprint(value))
	}

	return result
}
