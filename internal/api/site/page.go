package siteapi

import (
	"github.com/redants-101/nano-banana-ai/internal/auth"
	"github.com/redants-101/nano-banana-ai/internal/domain/plans"
	"github.com/redants-101/nano-banana-ai/internal/i18n"
)

// Alternate links one page to its translation.
type Alternate struct {
	Locale  i18n.Locale
	Name    string
	Flag    string
	URL     string
	Current bool
}

// PlanView is a catalogue entry with its localized copy.
type PlanView struct {
	plans.Plan
	Name         string
	Price        string
	YearlyPrice  string
	Credits      string
	CreditsLimit int
}

// Page is the data every template receives.
type Page struct {
	Name       string
	Path       string
	Locale     i18n.Locale
	Config     i18n.Config
	SiteName   string
	SiteURL    string
	Canonical  string
	Alternates []Alternate
	User       *auth.Claims
	Plans      []PlanView

	tr *i18n.Translations
}

// T looks up page copy: {{.T "hero.title"}}.
func (p *Page) T(key string) string {
	return p.tr.T(p.Locale, key)
}

// List returns a sequence of copy blocks such as FAQ items.
func (p *Page) List(key string) []any {
	return p.tr.List(p.Locale, key)
}

// Href builds a link to another page in the current locale.
func (p *Page) Href(path string) string {
	return i18n.AddLocale(path, p.Locale)
}
