package authapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/redants-101/nano-banana-ai/internal/app/http/middleware"
	"github.com/redants-101/nano-banana-ai/internal/auth"
	"github.com/redants-101/nano-banana-ai/internal/domain/users"
	"github.com/redants-101/nano-banana-ai/internal/i18n"
	"github.com/redants-101/nano-banana-ai/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const stateMaxAge = 300

type UserStore interface {
	UpsertIdentity(ctx context.Context, u *users.User) error
	FindByID(ctx context.Context, id string) (*users.User, error)
}

type SessionIssuer interface {
	Issue(userID, email, name, provider string) (string, error)
}

type Handler struct {
	providers    auth.Providers
	users        UserStore
	sessions     SessionIssuer
	sessionTTL   int
	secureCookie bool
	logger       zerolog.Logger
}

type Options struct {
	Providers    auth.Providers
	Users        UserStore
	Sessions     *auth.Sessions
	SecureCookie bool
	Logger       zerolog.Logger
}

func NewHandler(opts Options) *Handler {
	return &Handler{
		providers:    opts.Providers,
		users:        opts.Users,
		sessions:     opts.Sessions,
		sessionTTL:   int(opts.Sessions.TTL().Seconds()),
		secureCookie: opts.SecureCookie,
		logger:       opts.Logger,
	}
}

type loginRequest struct {
	Provider   string `json:"provider" binding:"omitempty,oauthprovider"`
	RedirectTo string `json:"redirectTo"`
}

// Login handles POST /api/auth/login and returns the provider's authorize URL.
func (h *Handler) Login(c *gin.Context) {
	locale := middleware.Locale(c)

	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgInvalidProvider, locale)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.Message(i18n.MsgInvalidRequest, locale)})
		return
	}
	name := strings.ToLower(strings.TrimSpace(body.Provider))
	if name == "" {
		name = auth.ProviderGitHub
	}

	provider, err := h.providers.Get(name)
	if err != nil {
		h.logger.Error().Str("provider", name).Msg("oauth provider not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.Message(i18n.MsgLoginFailed, locale), "details": name + " sign-in is not configured"})
		return
	}

	state, err := auth.RandomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.Message(i18n.MsgLoginFailed, locale)})
		return
	}

	h.setCookie(c, auth.StateCookie, state, stateMaxAge)
	h.setCookie(c, auth.RedirectCookie, auth.SafeRedirect(body.RedirectTo), stateMaxAge)

	c.JSON(http.StatusOK, gin.H{"url": provider.AuthCodeURL(state)})
}

// Callback handles GET /api/auth/callback/:provider.
func (h *Handler) Callback(c *gin.Context) {
	name := c.Param("provider")
	redirect := auth.SafeRedirect(c.Query("redirect"))
	if v, err := c.Cookie(auth.RedirectCookie); err == nil && v != "" {
		redirect = auth.SafeRedirect(v)
	}
	h.clearCookie(c, auth.StateCookie)
	h.clearCookie(c, auth.RedirectCookie)

	if e := c.Query("error"); e != "" {
		h.logger.Warn().Str("provider", name).Str("oauth_error", e).Msg("oauth provider returned an error")
		h.failRedirect(c, redirect, "access_denied")
		return
	}

	provider, err := h.providers.Get(name)
	if err != nil {
		h.failRedirect(c, redirect, "invalid_provider")
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	cookieState, err := c.Cookie(auth.StateCookie)
	if code == "" || state == "" || err != nil || cookieState != state {
		h.failRedirect(c, redirect, "invalid_state")
		return
	}

	identity, err := provider.Identify(c.Request.Context(), code)
	if err != nil {
		h.logger.Error().Err(err).Str("provider", name).Msg("oauth identify")
		h.failRedirect(c, redirect, "exchange_failed")
		return
	}

	user := &users.User{
		Provider:       identity.Provider,
		ProviderUserID: identity.ProviderUserID,
		Email:          identity.Email,
		Name:           identity.Name,
		AvatarURL:      identity.AvatarURL,
	}
	if err := h.users.UpsertIdentity(c.Request.Context(), user); err != nil {
		h.logger.Error().Err(err).Str("provider", name).Msg("upsert user")
		h.failRedirect(c, redirect, "server_error")
		return
	}

	token, err := h.sessions.Issue(user.ID, user.Email, user.Name, user.Provider)
	if err != nil {
		h.logger.Error().Err(err).Msg("issue session")
		h.failRedirect(c, redirect, "server_error")
		return
	}

	h.setCookie(c, auth.SessionCookie, token, h.sessionTTL)
	h.logger.Info().Str("user_id", user.ID).Str("provider", name).Msg("user signed in")
	c.Redirect(http.StatusFound, redirect)
}

func (h *Handler) failRedirect(c *gin.Context, redirect, reason string) {
	u, err := url.Parse(redirect)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Set("auth_error", reason)
	u.RawQuery = q.Encode()
	c.Redirect(http.StatusFound, u.String())
}

type logoutRequest struct {
	Provider string `json:"provider"`
}

// Logout handles POST /api/auth/logout. Every cookie the app set is cleared.
func (h *Handler) Logout(c *gin.Context) {
	var body logoutRequest
	_ = c.ShouldBindJSON(&body)

	provider := body.Provider
	if claims := middleware.Claims(c); claims != nil && claims.Provider != "" {
		provider = claims.Provider
	}
	if provider == "" {
		provider = auth.ProviderGitHub
	}

	for _, ck := range c.Request.Cookies() {
		if strings.HasPrefix(ck.Name, auth.CookiePrefix) {
			h.clearCookie(c, ck.Name)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  fmt.Sprintf(i18n.Message(i18n.MsgLoggedOut, middleware.Locale(c)), provider),
		"provider": provider,
	})
}

// Me handles GET /api/auth/me. Mount behind RequireSession.
func (h *Handler) Me(c *gin.Context) {
	u, err := h.users.FindByID(c.Request.Context(), middleware.UserID(c))
	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.Message(i18n.MsgUnauthorized, middleware.Locale(c))})
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("load current user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.Message(i18n.MsgUnknownError, middleware.Locale(c))})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"avatar_url": u.AvatarURL,
		"provider":   u.Provider,
	}})
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.secureCookie, true)
}

func (h *Handler) clearCookie(c *gin.Context, name string) {
	h.setCookie(c, name, "", -1)
}
