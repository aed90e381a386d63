package i18n

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGeo map[string]string

func (s stubGeo) CountryCode(ip string) (string, error) {
	code, ok := s[ip]
	if !ok {
		return "", errors.New("unknown ip")
	}
	return code, nil
}

func TestDetect(t *testing.T) {
	d := NewDetector(stubGeo{"1.1.1.1": "CN", "2.2.2.2": "US"})

	tests := []struct {
		name    string
		path    string
		headers map[string]string
		body    string
		ip      string
		want    Locale
	}{
		{name: "path prefix", path: "/zh/api/x", headers: map[string]string{"X-Locale": "en"}, want: Chinese},
		{name: "body locale", path: "/api/generate-image", body: "zh", want: Chinese},
		{name: "x-locale header", path: "/api/x", headers: map[string]string{"X-Locale": "zh"}, want: Chinese},
		{name: "accept-language", path: "/api/x", headers: map[string]string{"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8"}, want: Chinese},
		{name: "accept-language english", path: "/api/x", headers: map[string]string{"Accept-Language": "en-GB,en;q=0.9"}, want: English},
		{name: "referer", path: "/api/x", headers: map[string]string{"Referer": "https://nano-banana.ai/zh/pricing"}, want: Chinese},
		{name: "geoip", path: "/api/x", ip: "1.1.1.1", want: Chinese},
		{name: "geoip other country", path: "/api/x", ip: "2.2.2.2", want: English},
		{name: "invalid body locale ignored", path: "/api/x", body: "fr", want: English},
		{name: "default", path: "/api/x", want: English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.path, nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, d.Detect(r, tt.body, tt.ip))
		})
	}
}

func TestDetectWithoutGeo(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/x", nil)
	assert.Equal(t, English, NewDetector(nil).Detect(r, "", "1.1.1.1"))
}

func TestFromAcceptLanguage(t *testing.T) {
	_, ok := FromAcceptLanguage("")
	assert.False(t, ok)

	l, ok := FromAcceptLanguage("zh-TW")
	assert.True(t, ok)
	assert.Equal(t, Chinese, l)
}
