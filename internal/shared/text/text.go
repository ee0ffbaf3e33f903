// Package text provides localizable text handles for application metadata.
//
// A Text is resolved against a Catalog for a language; when the catalog has
// no entry the fallback string is formatted instead.
package text

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Text is an immutable localizable text handle
type Text struct {
	Key      string
	Fallback string
	Args     []any
}

// New creates a text handle. The fallback is used when no translation exists.
func New(key, fallback string, args ...any) Text {
	return Text{Key: key, Fallback: fallback, Args: args}
}

// String returns the untranslated fallback, or the key if none was given.
func (t Text) String() string {
	if t.Fallback == "" {
		return t.Key
	}
	return fmt.Sprintf(t.Fallback, t.Args...)
}

// Catalog holds translations for text keys
type Catalog struct {
	builder *catalog.Builder
}

// NewCatalog creates an empty catalog with English as fallback language
func NewCatalog() *Catalog {
	return &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
	}
}

// Set registers a translation for key in the given language
func (c *Catalog) Set(lang, key, msg string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid language %q: %w", lang, err)
	}
	if err := c.builder.SetString(tag, key, msg); err != nil {
		return fmt.Errorf("failed to set %q for %s: %w", key, tag, err)
	}
	return nil
}

// LoadYAML adds translations from a document mapping language to key to message:
//
//	de:
//	  app.clock.name: Uhr
func (c *Catalog) LoadYAML(data []byte) error {
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse translations: %w", err)
	}

	langs := make([]string, 0, len(doc))
	for lang := range doc {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	for _, lang := range langs {
		for key, msg := range doc[lang] {
			if err := c.Set(lang, key, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Localize resolves t for the given language. Unknown languages fall back to English.
func (c *Catalog) Localize(t Text, lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}

	fallback := t.Fallback
	if fallback == "" {
		fallback = t.Key
	}

	p := message.NewPrinter(tag, message.Catalog(c.builder))
	return p.Sprintf(message.Key(t.Key, fallback), t.Args...)
}
