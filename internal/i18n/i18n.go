// Package i18n provides the engine's message catalog: per-locale YAML
// bundles embedded in the binary, with fallback to a configured default
// locale when a requested one is unavailable.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Catalog resolves message keys against per-locale bundles.
// It implements ports.Localizer.
type Catalog struct {
	bundles       map[string]map[string]string
	defaultLocale string
	log           *slog.Logger
}

// NewCatalog loads the embedded bundles. The default locale must be among
// them; it is the fallback for every unavailable locale or missing key.
func NewCatalog(defaultLocale string, log *slog.Logger) (*Catalog, error) {
	bundles, err := loadBundles(localeFS)
	if err != nil {
		return nil, err
	}
	base := baseTag(defaultLocale)
	if _, ok := bundles[base]; !ok {
		return nil, fmt.Errorf("no message bundle for default locale %q", defaultLocale)
	}
	return &Catalog{
		bundles:       bundles,
		defaultLocale: base,
		log:           log,
	}, nil
}

// Locales lists the loaded bundle tags.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.bundles))
	for tag := range c.bundles {
		out = append(out, tag)
	}
	return out
}

// Message returns the localized text for key, formatting args into the
// catalog template. An unavailable locale falls back to the default bundle
// with a logged warning; a key missing everywhere comes back verbatim so
// broken output is at least traceable.
func (c *Catalog) Message(locale, key string, args ...any) string {
	bundle, ok := c.bundles[baseTag(locale)]
	if !ok {
		c.log.Warn("no message bundle for locale, falling back",
			"locale", locale, "fallback", c.defaultLocale)
		bundle = c.bundles[c.defaultLocale]
	}

	tmpl, ok := bundle[key]
	if !ok {
		tmpl, ok = c.bundles[c.defaultLocale][key]
		if !ok {
			c.log.Error("message key missing from every bundle", "key", key)
			return key
		}
	}

	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

func loadBundles(fsys fs.FS) (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(fsys, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	bundles := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		raw, err := fs.ReadFile(fsys, path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("read bundle %s: %w", name, err)
		}
		messages := make(map[string]string)
		if err := yaml.Unmarshal(raw, &messages); err != nil {
			return nil, fmt.Errorf("parse bundle %s: %w", name, err)
		}
		tag := strings.TrimSuffix(name, path.Ext(name))
		bundles[tag] = messages
	}
	return bundles, nil
}

// baseTag reduces a locale tag to its language part: "de-AT" -> "de".
func baseTag(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return locale[:i]
	}
	return locale
}
