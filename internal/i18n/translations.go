package i18n

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Translations holds the page copy of every supported locale.
type Translations struct {
	data map[Locale]map[string]any
}

// LoadTranslations parses the embedded locales/<locale>.yaml files.
func LoadTranslations() (*Translations, error) {
	t := &Translations{data: make(map[Locale]map[string]any, len(Supported))}
	for _, l := range Supported {
		raw, err := localeFS.ReadFile("locales/" + string(l) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s translations: %w", l, err)
		}
		var m map[string]any
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("i18n: parse %s translations: %w", l, err)
		}
		t.data[l] = m
	}
	return t, nil
}

// T returns the string at a dot-separated key ("hero.title"). Missing keys
// fall back to the default locale and then to the key itself.
func (t *Translations) T(l Locale, key string) string {
	if v, ok := t.lookup(l, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	if l != Default {
		return t.T(Default, key)
	}
	return key
}

// List returns the sequence at key, e.g. FAQ items or plan features.
func (t *Translations) List(l Locale, key string) []any {
	if v, ok := t.lookup(l, key); ok {
		if list, ok := v.([]any); ok {
			return list
		}
	}
	if l != Default {
		return t.List(Default, key)
	}
	return nil
}

// Number returns the numeric value at key, such as a plan amount.
func (t *Translations) Number(l Locale, key string) (float64, bool) {
	v, ok := t.lookup(l, key)
	if !ok {
		if l != Default {
			return t.Number(Default, key)
		}
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func (t *Translations) Has(l Locale, key string) bool {
	_, ok := t.lookup(l, key)
	return ok
}

func (t *Translations) lookup(l Locale, key string) (any, bool) {
	current, ok := t.data[l]
	if !ok {
		return nil, false
	}
	parts := strings.Split(key, ".")
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}
