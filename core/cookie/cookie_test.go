package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw/core/cookie"
)

const (
	testSecret  = "test-secret-key-32-characters!!!"
	testSecret2 = "another-secret-key-32-chars!!!!!"
)

// roundTrip copies the Set-Cookie headers of rec into a new request.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func newManager(t *testing.T, secrets ...string) *cookie.Manager {
	t.Helper()
	m, err := cookie.New(secrets)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"", ""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)

	_, err = cookie.New([]string{testSecret, "", testSecret2})
	assert.NoError(t, err)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	m := newManager(t, testSecret)

	for _, typ := range []cookie.Type{cookie.Plain, cookie.Signed, cookie.Encrypted} {
		t.Run(typ.String(), func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			require.NoError(t, m.Set(rec, "pref", "dark_mode", typ))

			got, err := m.Get(roundTrip(rec), "pref", typ)
			require.NoError(t, err)
			assert.Equal(t, "dark_mode", got)
		})
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	m := newManager(t, testSecret)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "a", "b", cookie.Plain))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	rec = httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "a", "b", cookie.Plain,
		cookie.WithPath("/admin"), cookie.WithSecure(true), cookie.WithMaxAge(60)))
	c := rec.Result().Cookies()[0]
	assert.Equal(t, "/admin", c.Path)
	assert.True(t, c.Secure)
	assert.Equal(t, 60, c.MaxAge)
}

func TestSignedTampering(t *testing.T) {
	t.Parallel()

	m := newManager(t, testSecret)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "role", "user", cookie.Signed))
	value := rec.Result().Cookies()[0].Value

	tests := []struct {
		name    string
		cookie  string
		value   string
		wantErr error
	}{
		{"forged value", "role", "YWRtaW4." + strings.SplitN(value, ".", 2)[1], cookie.ErrInvalidSignature},
		{"renamed cookie", "other", value, cookie.ErrInvalidSignature},
		{"no separator", "role", "garbage", cookie.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: tt.cookie, Value: tt.value})
			_, err := m.Get(req, tt.cookie, cookie.Signed)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEncryptedIsOpaque(t *testing.T) {
	t.Parallel()

	m := newManager(t, testSecret)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "secret", "card-1234", cookie.Encrypted))
	value := rec.Result().Cookies()[0].Value
	assert.NotContains(t, value, "card")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "moved", Value: value})
	_, err := m.Get(req, "moved", cookie.Encrypted)
	assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)

	other := newManager(t, testSecret2)
	_, err = other.Get(roundTrip(rec), "secret", cookie.Encrypted)
	assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
}

func TestKeyRotation(t *testing.T) {
	t.Parallel()

	old := newManager(t, testSecret)
	rotated := newManager(t, testSecret2, testSecret)

	for _, typ := range []cookie.Type{cookie.Signed, cookie.Encrypted} {
		rec := httptest.NewRecorder()
		require.NoError(t, old.Set(rec, "k", "v", typ))

		got, err := rotated.Get(roundTrip(rec), "k", typ)
		require.NoError(t, err, typ.String())
		assert.Equal(t, "v", got)
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	type prefs struct {
		Theme string `json:"theme"`
		Size  int    `json:"size"`
	}

	m := newManager(t, testSecret)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetJSON(rec, "prefs", prefs{"dark", 14}, cookie.Encrypted))

	got, err := cookie.GetJSON[prefs](m, roundTrip(rec), "prefs", cookie.Encrypted)
	require.NoError(t, err)
	assert.Equal(t, prefs{"dark", 14}, got)

	_, err = cookie.GetJSON[prefs](m, httptest.NewRequest(http.MethodGet, "/", nil), "prefs", cookie.Encrypted)
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestFlash(t *testing.T) {
	t.Parallel()

	m := newManager(t, testSecret)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetFlash(rec, "notice", "saved"))

	out := httptest.NewRecorder()
	var msg string
	require.NoError(t, m.GetFlash(out, roundTrip(rec), "notice", &msg))
	assert.Equal(t, "saved", msg)

	deleted := out.Result().Cookies()
	require.Len(t, deleted, 1)
	assert.Equal(t, -1, deleted[0].MaxAge)
}

func TestTooLarge(t *testing.T) {
	t.Parallel()

	m := newManager(t, testSecret)
	err := m.Set(httptest.NewRecorder(), "big", strings.Repeat("x", cookie.MaxCookieSize), cookie.Plain)

	var tooLarge cookie.ErrCookieTooLarge
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "big", tooLarge.Name)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	m, err := cookie.NewFromConfig(cookie.Config{
		Secrets:  " " + testSecret + " , " + testSecret2,
		Path:     "/app",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "a", "b", cookie.Signed))
	c := rec.Result().Cookies()[0]
	assert.Equal(t, "/app", c.Path)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	_, err = cookie.NewFromConfig(cookie.Config{})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)
}
