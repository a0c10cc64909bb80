// Package i18n holds the language-keyed message tables for user-facing
// strings. Catalogs are embedded YAML files, one per locale; locale selection
// follows the request's Accept-Language header with en-US as the fallback.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Catalog is the full set of loaded locale tables.
type Catalog struct {
	tables  map[language.Tag]map[string]string
	tags    []language.Tag
	matcher language.Matcher
}

// Messages is the resolved table for a single locale.
type Messages struct {
	tag   language.Tag
	table map[string]string
}

// Load parses every embedded locale file. The first loaded tag is always
// en-US so the matcher falls back to it for unrecognized locales.
func Load() (*Catalog, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	tables := make(map[language.Tag]map[string]string, len(entries))
	tags := []language.Tag{language.AmericanEnglish}

	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", entry.Name(), err)
		}

		raw, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", entry.Name(), err)
		}

		table := make(map[string]string)
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", entry.Name(), err)
		}

		tables[tag] = table
		if tag != language.AmericanEnglish {
			tags = append(tags, tag)
		}
	}

	if _, ok := tables[language.AmericanEnglish]; !ok {
		return nil, fmt.Errorf("default locale en-US missing")
	}

	return &Catalog{
		tables:  tables,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Match resolves the best locale for an Accept-Language header value.
func (c *Catalog) Match(acceptLanguage string) *Messages {
	_, index := language.MatchStrings(c.matcher, acceptLanguage)
	tag := c.tags[index]
	return &Messages{tag: tag, table: c.tables[tag]}
}

// Tag returns the resolved locale tag.
func (m *Messages) Tag() language.Tag {
	return m.tag
}

// Get returns the message for key, or empty string if the key is unknown.
func (m *Messages) Get(key string) string {
	return m.table[key]
}

// Format returns the message for key with {name} placeholders substituted.
// Unknown placeholders are replaced with an empty string, matching the
// forgiving behavior callers rely on for optional parameters.
func (m *Messages) Format(key string, params map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(m.table[key], func(match string) string {
		name := match[1 : len(match)-1]
		return params[name]
	})
}
