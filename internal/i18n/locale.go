package i18n

import "strings"

type Locale string

const (
	English Locale = "en"
	Chinese Locale = "zh"

	Default = English
)

// Supported lists the locales in display order. The first is the default.
var Supported = []Locale{English, Chinese}

// Config holds the per-locale display settings.
type Config struct {
	Locale     Locale
	Name       string
	Flag       string
	Currency   string
	DateFormat string
	Tag        string // BCP 47 tag used for hreflang and formatting
}

var configs = map[Locale]Config{
	English: {Locale: English, Name: "English", Flag: "🇺🇸", Currency: "USD", DateFormat: "MM/DD/YYYY", Tag: "en-US"},
	Chinese: {Locale: Chinese, Name: "中文", Flag: "🇨🇳", Currency: "CNY", DateFormat: "YYYY年MM月DD日", Tag: "zh-CN"},
}

func ConfigFor(l Locale) Config {
	if c, ok := configs[l]; ok {
		return c
	}
	return configs[Default]
}

func IsSupported(s string) bool {
	for _, l := range Supported {
		if string(l) == s {
			return true
		}
	}
	return false
}

// Parse returns the locale named by s, or false when s is not supported.
func Parse(s string) (Locale, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if IsSupported(s) {
		return Locale(s), true
	}
	return "", false
}

// FromPath returns the locale in the first path segment ("/zh/pricing" -> zh).
func FromPath(path string) (Locale, bool) {
	segments := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if IsSupported(segments[0]) {
		return Locale(segments[0]), true
	}
	return "", false
}

// StripLocale removes a leading locale segment. The result is never empty.
func StripLocale(path string) string {
	l, ok := FromPath(path)
	if !ok {
		return path
	}
	rest := strings.TrimPrefix(path, "/"+string(l))
	if rest == "" {
		return "/"
	}
	return rest
}

// AddLocale prefixes path with l, replacing any locale already present.
func AddLocale(path string, l Locale) string {
	clean := StripLocale(path)
	if clean == "/" || clean == "" {
		return "/" + string(l)
	}
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}
	return "/" + string(l) + clean
}
