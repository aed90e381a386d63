package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeVerifier struct {
	claims *GoogleClaims
	err    error
	raw    string
}

func (f *fakeVerifier) VerifyClaims(_ context.Context, raw string) (*GoogleClaims, error) {
	f.raw = raw
	return f.claims, f.err
}

func tokenServer(t *testing.T, extra string, mux *http.ServeMux) *httptest.Server {
	t.Helper()
	if mux == nil {
		mux = http.NewServeMux()
	}
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"bearer"` + extra + `}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testOAuthConfig(srv *httptest.Server) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/api/auth/callback/x",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/authorize",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func TestGoogleAuthCodeURL(t *testing.T) {
	srv := tokenServer(t, "", nil)
	g := NewGoogleWithVerifier(testOAuthConfig(srv), &fakeVerifier{})

	u, err := url.Parse(g.AuthCodeURL("state-1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, ProviderGoogle, g.Name())
}

func TestGoogleIdentify(t *testing.T) {
	srv := tokenServer(t, `,"id_token":"raw-id-token"`, nil)

	t.Run("verified token", func(t *testing.T) {
		v := &fakeVerifier{claims: &GoogleClaims{Sub: "g-1", Email: "a@b.c", Name: "Ann", Picture: "http://p"}}
		id, err := NewGoogleWithVerifier(testOAuthConfig(srv), v).Identify(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Equal(t, "raw-id-token", v.raw)
		assert.Equal(t, &Identity{Provider: "google", ProviderUserID: "g-1", Email: "a@b.c", Name: "Ann", AvatarURL: "http://p"}, id)
	})

	t.Run("rejected token", func(t *testing.T) {
		v := &fakeVerifier{err: errors.New("bad audience")}
		_, err := NewGoogleWithVerifier(testOAuthConfig(srv), v).Identify(context.Background(), "good-code")
		assert.ErrorIs(t, err, ErrIdentity)
	})

	t.Run("bad code", func(t *testing.T) {
		_, err := NewGoogleWithVerifier(testOAuthConfig(srv), &fakeVerifier{}).Identify(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrExchange)
	})
}

func TestGoogleIdentifyWithoutIDToken(t *testing.T) {
	srv := tokenServer(t, "", nil)
	_, err := NewGoogleWithVerifier(testOAuthConfig(srv), &fakeVerifier{}).Identify(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrIdentity)
}

func TestGitHubIdentify(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":42,"login":"octo","name":"","email":"","avatar_url":"http://a"}`))
	})
	mux.HandleFunc("/api/user/emails", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"email":"old@x.y","primary":false,"verified":true},{"email":"octo@x.y","primary":true,"verified":true}]`))
	})
	srv := tokenServer(t, "", mux)

	gh := NewGitHubWithEndpoint(testOAuthConfig(srv), srv.URL+"/api/")
	id, err := gh.Identify(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "github", id.Provider)
	assert.Equal(t, "42", id.ProviderUserID)
	assert.Equal(t, "octo@x.y", id.Email)
	assert.Equal(t, "octo", id.Name)
	assert.Equal(t, "http://a", id.AvatarURL)
}

func TestGitHubIdentifyUserAPIFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := tokenServer(t, "", mux)

	_, err := NewGitHubWithEndpoint(testOAuthConfig(srv), srv.URL+"/api").Identify(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrIdentity)
}

func TestProviders(t *testing.T) {
	p := Providers{ProviderGitHub: NewGitHub("id", "secret", "http://localhost/cb")}

	got, err := p.Get("github")
	require.NoError(t, err)
	assert.Equal(t, "github", got.Name())

	_, err = p.Get("google")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.True(t, IsValidProvider("google"))
	assert.False(t, IsValidProvider("twitter"))
}

func TestRandomState(t *testing.T) {
	a, err := RandomState()
	require.NoError(t, err)
	b, err := RandomState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
}

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/zh/pricing":          "/zh/pricing",
		"/pricing?x=1":         "/pricing?x=1",
		"https://evil.example": "/",
		"//evil.example":       "/",
		`/\evil.example`:       "/",
		"pricing":              "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeRedirect(in), in)
	}
}

func TestSessions(t *testing.T) {
	s := NewSessions("secret", time.Hour)

	tok, err := s.Issue("u-1", "a@b.c", "Ann", "github")
	require.NoError(t, err)

	claims, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "github", claims.Provider)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewSessions("other", time.Hour).Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewSessions("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.Parse(unsigned)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	assert.Equal(t, DefaultSessionTTL, NewSessions("x", 0).TTL())
}
