package siteapi

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/redants-101/nano-banana-ai/internal/app/http/middleware"
	"github.com/redants-101/nano-banana-ai/internal/domain/plans"
	"github.com/redants-101/nano-banana-ai/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// route is one marketing page. Path is the locale-less path.
type route struct {
	Name       string
	Path       string
	Template   string
	Priority   string
	ChangeFreq string
}

var routes = []route{
	{Name: "home", Path: "/", Template: "home.html", Priority: "1.0", ChangeFreq: "daily"},
	{Name: "pricing", Path: "/pricing", Template: "pricing.html", Priority: "0.9", ChangeFreq: "weekly"},
	{Name: "payment.success", Path: "/payment/success", Template: "payment.html", Priority: "0.5", ChangeFreq: "monthly"},
	{Name: "payment.cancel", Path: "/payment/cancel", Template: "payment.html", Priority: "0.5", ChangeFreq: "monthly"},
}

type Options struct {
	SiteURL      string
	SiteName     string
	Catalog      []plans.Plan
	Translations *i18n.Translations
	Detector     middleware.LocaleDetector
}

type Handler struct {
	opts      Options
	templates map[string]*template.Template
	now       func() time.Time
}

func NewHandler(opts Options) (*Handler, error) {
	h := &Handler{opts: opts, templates: map[string]*template.Template{}, now: time.Now}
	for _, rt := range routes {
		if _, ok := h.templates[rt.Template]; ok {
			continue
		}
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+rt.Template)
		if err != nil {
			return nil, fmt.Errorf("site: parse %s: %w", rt.Template, err)
		}
		h.templates[rt.Template] = t
	}
	t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/notfound.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse notfound.html: %w", err)
	}
	h.templates["notfound.html"] = t
	return h, nil
}

// Register mounts every page under each locale prefix, plus redirects for
// the bare paths. Anything else falls through to NotFound.
func (h *Handler) Register(r gin.IRoutes) {
	for _, l := range i18n.Supported {
		for _, rt := range routes {
			r.GET(i18n.AddLocale(rt.Path, l), h.page(rt, l))
		}
	}
	for _, rt := range routes {
		r.GET(rt.Path, h.redirect(rt.Path))
	}
	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/robots.txt", h.Robots)
}

func (h *Handler) redirect(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := i18n.AddLocale(path, h.opts.Detector.Detect(c))
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}
		c.Redirect(http.StatusFound, target)
	}
}

func (h *Handler) page(rt route, l i18n.Locale) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetLocale(c, l)
		h.render(c, http.StatusOK, rt.Template, h.pageData(c, rt.Name, rt.Path, l))
	}
}

// NotFound serves JSON for API paths and the localized 404 page otherwise.
func (h *Handler) NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	l, ok := i18n.FromPath(path)
	if !ok {
		l = i18n.Default
	}
	h.render(c, http.StatusNotFound, "notfound.html", h.pageData(c, "notfound", "/", l))
}

func (h *Handler) render(c *gin.Context, status int, name string, page *Page) {
	c.Render(status, render.HTML{Template: h.templates[name], Name: "layout", Data: page})
}

func (h *Handler) pageData(c *gin.Context, name, path string, l i18n.Locale) *Page {
	p := &Page{
		Name:      name,
		Path:      path,
		Locale:    l,
		Config:    i18n.ConfigFor(l),
		SiteName:  h.opts.SiteName,
		SiteURL:   h.opts.SiteURL,
		Canonical: h.opts.SiteURL + i18n.AddLocale(path, l),
		User:      middleware.Claims(c),
		tr:        h.opts.Translations,
	}
	for _, alt := range i18n.Supported {
		cfg := i18n.ConfigFor(alt)
		p.Alternates = append(p.Alternates, Alternate{
			Locale:  alt,
			Name:    cfg.Name,
			Flag:    cfg.Flag,
			URL:     i18n.AddLocale(path, alt),
			Current: alt == l,
		})
	}
	if name == "pricing" {
		for _, plan := range h.opts.Catalog {
			prefix := "pricing.plans." + plan.ID + "."
			limit := plans.CreditsLimit(plan.Tier)
			p.Plans = append(p.Plans, PlanView{
				Plan:         plan,
				Name:         p.T(prefix + "name"),
				Price:        p.price(prefix+"amount", "pricing.perMonth", prefix+"price"),
				YearlyPrice:  p.price(prefix+"yearlyAmount", "pricing.perYear", ""),
				Credits:      p.credits(prefix+"credits", limit),
				CreditsLimit: limit,
			})
		}
	}
	return p
}

// price formats the amount at key in the locale's currency. Free plans show
// the bare amount; plans without an amount use the copy at fallback.
func (p *Page) price(key, periodKey, fallback string) string {
	amount, ok := p.tr.Number(p.Locale, key)
	if !ok {
		if fallback == "" {
			return ""
		}
		return p.T(fallback)
	}
	s := i18n.FormatCurrency(amount, p.Locale)
	if amount > 0 {
		s += p.T(periodKey)
	}
	return s
}

func (p *Page) credits(key string, limit int) string {
	s := p.T(key)
	if limit > 0 && strings.Contains(s, "%s") {
		return fmt.Sprintf(s, i18n.FormatNumber(float64(limit), p.Locale))
	}
	return s
}
