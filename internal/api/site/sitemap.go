package siteapi

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/redants-101/nano-banana-ai/internal/i18n"

	"github.com/gin-gonic/gin"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string          `xml:"loc"`
	LastMod    string          `xml:"lastmod"`
	ChangeFreq string          `xml:"changefreq"`
	Priority   string          `xml:"priority"`
	Alternates []alternateLink `xml:"xhtml:link"`
}

type alternateLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// publicURL is the sitemap address of a page. The default locale is listed
// without a prefix; those URLs redirect to the prefixed page.
func (h *Handler) publicURL(path string, l i18n.Locale) string {
	if l == i18n.Default {
		if path == "/" {
			return h.opts.SiteURL
		}
		return h.opts.SiteURL + path
	}
	return h.opts.SiteURL + i18n.AddLocale(path, l)
}

// Sitemap handles GET /sitemap.xml: every page in every locale.
func (h *Handler) Sitemap(c *gin.Context) {
	lastMod := h.now().UTC().Format("2006-01-02")
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}
	for _, rt := range routes {
		alternates := make([]alternateLink, 0, len(i18n.Supported))
		for _, l := range i18n.Supported {
			alternates = append(alternates, alternateLink{Rel: "alternate", Hreflang: string(l), Href: h.publicURL(rt.Path, l)})
		}
		for _, l := range i18n.Supported {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        h.publicURL(rt.Path, l),
				LastMod:    lastMod,
				ChangeFreq: rt.ChangeFreq,
				Priority:   rt.Priority,
				Alternates: alternates,
			})
		}
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		c.String(http.StatusInternalServerError, "sitemap unavailable")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

// Robots handles GET /robots.txt.
func (h *Handler) Robots(c *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /payment/cancel\n")
	for _, l := range i18n.Supported {
		b.WriteString("Disallow: /" + string(l) + "/payment/cancel\n")
	}
	b.WriteString("\nSitemap: " + h.opts.SiteURL + "/sitemap.xml\n")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}
