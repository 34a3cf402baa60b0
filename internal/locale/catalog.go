package locale

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/nhc-marketplace/storefront/pkg/enums"
	"gopkg.in/yaml.v3"
)

//go:embed translations.yaml
var defaultTranslations []byte

// Catalog maps translation keys to their text per language.
type Catalog struct {
	entries map[string]map[enums.Lang]string
}

// ParseCatalog decodes a YAML document of the form `key: {ar: ..., en: ...}`.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	entries := make(map[string]map[enums.Lang]string, len(doc))
	for key, texts := range doc {
		entry := make(map[enums.Lang]string, len(texts))
		for rawLang, text := range texts {
			lang, err := enums.ParseLang(rawLang)
			if err != nil {
				return nil, fmt.Errorf("translation %q: %w", key, err)
			}
			entry[lang] = text
		}
		entries[key] = entry
	}
	return &Catalog{entries: entries}, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return ParseCatalog(defaultTranslations)
})

// DefaultCatalog returns the embedded storefront translations.
func DefaultCatalog() (*Catalog, error) {
	return loadDefault()
}

// Lookup returns the text for key in lang, or the key itself when missing.
func (c *Catalog) Lookup(key string, lang enums.Lang) string {
	if c == nil {
		return key
	}
	entry, ok := c.entries[key]
	if !ok {
		return key
	}
	if text, ok := entry[lang]; ok && text != "" {
		return text
	}
	return key
}

// Len reports how many keys the catalog holds.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
