package siteapi

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redants-101/nano-banana-ai/internal/app/http/middleware"
	"github.com/redants-101/nano-banana-ai/internal/auth"
	"github.com/redants-101/nano-banana-ai/internal/domain/plans"
	"github.com/redants-101/nano-banana-ai/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var sessions = auth.NewSessions("test-secret", time.Hour)

func newSite(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	tr, err := i18n.LoadTranslations()
	require.NoError(t, err)

	h, err := NewHandler(Options{
		SiteURL:      "https://nano.test",
		SiteName:     "Nano Banana",
		Catalog:      plans.Catalog("prod_m", "prod_y"),
		Translations: tr,
		Detector:     middleware.DetectLocale{Detector: i18n.NewDetector(nil)},
	})
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.Use(middleware.Session(sessions))
	h.Register(r)
	r.NoRoute(h.NotFound)
	return r, h
}

func get(r *gin.Engine, path string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, fn := range setup {
		fn(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPagesRenderPerLocale(t *testing.T) {
	r, _ := newSite(t)

	w := get(r, "/en")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `lang="en-US"`)
	assert.Contains(t, w.Body.String(), "Edit any image with words")
	assert.Contains(t, w.Body.String(), `hreflang="zh" href="https://nano.test/zh"`)

	w = get(r, "/zh/pricing")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `lang="zh-CN"`)
	assert.Contains(t, body, `data-monthly="prod_m"`)
	assert.Contains(t, body, `data-yearly="prod_y"`)

	for _, p := range []string{"/en/payment/success", "/zh/payment/cancel"} {
		assert.Equal(t, http.StatusOK, get(r, p).Code, p)
	}
}

func TestPricingFormatsAmountsPerLocale(t *testing.T) {
	r, _ := newSite(t)

	body := get(r, "/en/pricing").Body.String()
	assert.Contains(t, body, i18n.FormatCurrency(9.9, i18n.English)+"/mo")
	assert.Contains(t, body, i18n.FormatCurrency(99, i18n.English)+"/yr")
	assert.Contains(t, body, "500 edits per month")
	assert.Contains(t, body, "Unlimited edits")
	assert.Contains(t, body, ">Custom<")

	body = get(r, "/zh/pricing").Body.String()
	assert.Contains(t, body, i18n.FormatCurrency(69, i18n.Chinese)+"/月")
	assert.Contains(t, body, "每月 500 次编辑")
}

func TestPageShowsSignedInUser(t *testing.T) {
	r, _ := newSite(t)
	token, err := sessions.Issue("u-1", "a@b.c", "Ann", "github")
	require.NoError(t, err)

	w := get(r, "/en", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	})
	assert.Contains(t, w.Body.String(), "Ann")
	assert.Contains(t, w.Body.String(), `data-action="logout"`)
}

func TestRedirectsToDetectedLocale(t *testing.T) {
	r, _ := newSite(t)

	w := get(r, "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/en", w.Header().Get("Location"))

	w = get(r, "/pricing?ref=ad", func(req *http.Request) {
		req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/zh/pricing?ref=ad", w.Header().Get("Location"))
}

func TestUnsupportedLocaleIsNotFound(t *testing.T) {
	r, _ := newSite(t)

	w := get(r, "/fr/pricing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")

	w = get(r, "/zh/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "页面未找到")

	w = get(r, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestSitemap(t *testing.T) {
	r, _ := newSite(t)
	w := get(r, "/sitemap.xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), xml.Header))

	var set struct {
		URLs []struct {
			Loc        string `xml:"loc"`
			LastMod    string `xml:"lastmod"`
			Priority   string `xml:"priority"`
			ChangeFreq string `xml:"changefreq"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &set))
	require.Len(t, set.URLs, len(routes)*len(i18n.Supported))

	assert.Equal(t, "https://nano.test", set.URLs[0].Loc)
	assert.Equal(t, "1.0", set.URLs[0].Priority)
	assert.Equal(t, "daily", set.URLs[0].ChangeFreq)
	assert.Equal(t, "2026-05-01", set.URLs[0].LastMod)
	assert.Equal(t, "https://nano.test/zh", set.URLs[1].Loc)
	assert.Equal(t, "https://nano.test/pricing", set.URLs[2].Loc)
	assert.Equal(t, "https://nano.test/zh/payment/cancel", set.URLs[7].Loc)
	assert.Contains(t, w.Body.String(), `<xhtml:link rel="alternate" hreflang="zh" href="https://nano.test/zh/pricing"></xhtml:link>`)
}

func TestRobots(t *testing.T) {
	r, _ := newSite(t)
	w := get(r, "/robots.txt")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "User-agent: *\nAllow: /\nDisallow: /api/\nDisallow: /payment/cancel\n")
	assert.Contains(t, body, "Disallow: /zh/payment/cancel\n")
	assert.Contains(t, body, "Sitemap: https://nano.test/sitemap.xml")
}
