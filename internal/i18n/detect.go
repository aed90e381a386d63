package i18n

import (
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// CountryResolver maps a client IP to an ISO country code.
type CountryResolver interface {
	CountryCode(ip string) (string, error)
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Chinese})

var chineseCountries = map[string]bool{"CN": true, "TW": true, "HK": true, "MO": true}

// Detector picks the response locale for API requests.
type Detector struct {
	geo CountryResolver
}

// NewDetector returns a detector. geo may be nil.
func NewDetector(geo CountryResolver) *Detector {
	return &Detector{geo: geo}
}

// Detect checks, in order: the URL path prefix, the body locale, the X-Locale
// header, Accept-Language, the Referer path and the client's country.
func (d *Detector) Detect(r *http.Request, bodyLocale, clientIP string) Locale {
	if l, ok := FromPath(r.URL.Path); ok {
		return l
	}
	if l, ok := Parse(bodyLocale); ok {
		return l
	}
	if l, ok := Parse(r.Header.Get("X-Locale")); ok {
		return l
	}
	if l, ok := FromAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return l
	}
	if l, ok := fromReferer(r.Header.Get("Referer")); ok {
		return l
	}
	if d != nil && d.geo != nil && clientIP != "" {
		if code, err := d.geo.CountryCode(clientIP); err == nil {
			if chineseCountries[strings.ToUpper(code)] {
				return Chinese
			}
		}
	}
	return Default
}

// FromAcceptLanguage matches the header against the supported locales.
func FromAcceptLanguage(header string) (Locale, bool) {
	if strings.TrimSpace(header) == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}

	if _, idx, conf := matcher.Match(tags...); conf != language.No {
		return Supported[idx], true
	}

	// Regional variants (zh-TW, en-IN) may match with no confidence; fall
	// back to the base language.
	for _, t := range tags {
		base, _ := t.Base()
		if l, ok := Parse(base.String()); ok {
			return l, true
		}
	}
	return "", false
}

func fromReferer(ref string) (Locale, bool) {
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	return FromPath(u.Path)
}
