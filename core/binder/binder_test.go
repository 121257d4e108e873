package binder_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw/core/binder"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	type user struct {
		Name  string   `json:"name"`
		Email string   `json:"email"`
		Tags  []string `json:"tags"`
	}

	tests := []struct {
		name        string
		contentType string
		body        string
		want        user
		wantErr     error
	}{
		{
			name:        "valid",
			contentType: "application/json; charset=utf-8",
			body:        `{"name":"ann","email":"ann@example.com","tags":["a"]}`,
			want:        user{Name: "ann", Email: "ann@example.com", Tags: []string{"a"}},
		},
		{
			name:        "control characters stripped",
			contentType: "application/json",
			body:        `{"name":"ann\r\nSet-Cookie: x","tags":["b\u0000"]}`,
			want:        user{Name: "annSet-Cookie: x", Tags: []string{"b"}},
		},
		{name: "missing content type", body: `{}`, wantErr: binder.ErrMissingContentType},
		{name: "wrong media type", contentType: "text/plain", body: `{}`, wantErr: binder.ErrUnsupportedMediaType},
		{name: "unknown field", contentType: "application/json", body: `{"role":"root"}`, wantErr: binder.ErrFailedToParseJSON},
		{name: "trailing data", contentType: "application/json", body: `{"name":"a"}{"name":"b"}`, wantErr: binder.ErrFailedToParseJSON},
		{name: "empty body", contentType: "application/json", body: ``, wantErr: binder.ErrFailedToParseJSON},
		{name: "syntax error", contentType: "application/json", body: `{"name":`, wantErr: binder.ErrFailedToParseJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			var got user
			err := binder.JSON()(r, &got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := httptest.NewRequestWithContext(ctx, http.MethodPost, "/", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "application/json")

	var v map[string]any
	err := binder.JSON()(r, &v)
	assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJSONTooLarge(t *testing.T) {
	t.Parallel()

	body := `{"name":"` + strings.Repeat("x", binder.DefaultMaxBodySize) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	var v struct {
		Name string `json:"name"`
	}
	var mbe *http.MaxBytesError
	assert.ErrorAs(t, binder.JSON()(r, &v), &mbe)
}

func TestXML(t *testing.T) {
	t.Parallel()

	type note struct {
		To   string `xml:"to"`
		Body string `xml:"body"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`<note><to>bob</to><body>hi</body></note>`))
	r.Header.Set("Content-Type", "text/xml")
	var got note
	require.NoError(t, binder.XML()(r, &got))
	assert.Equal(t, note{To: "bob", Body: "hi"}, got)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`<note><to>`))
	r.Header.Set("Content-Type", "application/xml")
	assert.ErrorIs(t, binder.XML()(r, &got), binder.ErrFailedToParseXML)
}

func TestFormURLEncoded(t *testing.T) {
	t.Parallel()

	type signup struct {
		Email    string   `form:"email"`
		Age      *int     `form:"age"`
		Nickname *string  `form:"nickname"`
		Scores   []int    `form:"score"`
		Agree    bool     `form:"agree"`
		Ratio    float64  `form:"ratio"`
		Skipped  string   `form:"-"`
		Roles    []string `form:"role,omitempty"`
		Untagged string
	}

	form := url.Values{
		"email":    {"a@b.c"},
		"age":      {"30"},
		"score":    {"1", "2,3"},
		"agree":    {"on"},
		"ratio":    {"0.5"},
		"Skipped":  {"x"},
		"untagged": {"y"},
		"role":     {"admin"},
	}

	newRequest := func() *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return r
	}

	var got signup
	require.NoError(t, binder.Form()(newRequest(), &got))
	require.NotNil(t, got.Age)
	assert.Equal(t, 30, *got.Age)
	assert.Nil(t, got.Nickname)
	assert.Equal(t, "a@b.c", got.Email)
	assert.Equal(t, []int{1, 2, 3}, got.Scores)
	assert.True(t, got.Agree)
	assert.InDelta(t, 0.5, got.Ratio, 1e-9)
	assert.Empty(t, got.Skipped)
	assert.Empty(t, got.Untagged)
	assert.Equal(t, []string{"admin"}, got.Roles)

	var raw url.Values
	require.NoError(t, binder.Form()(newRequest(), &raw))
	assert.Equal(t, []string{"1", "2,3"}, raw["score"])

	var flat map[string]string
	require.NoError(t, binder.Form()(newRequest(), &flat))
	assert.Equal(t, "a@b.c", flat["email"])
}

func TestFormErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		target      any
		wantErr     error
	}{
		{
			name:    "missing content type",
			body:    "a=1",
			target:  &struct{}{},
			wantErr: binder.ErrMissingContentType,
		},
		{
			name:        "json content type",
			contentType: "application/json",
			body:        "{}",
			target:      &struct{}{},
			wantErr:     binder.ErrUnsupportedMediaType,
		},
		{
			name:        "multipart without boundary",
			contentType: "multipart/form-data",
			target:      &struct{}{},
			wantErr:     binder.ErrFailedToParseForm,
		},
		{
			name:        "invalid number",
			contentType: "application/x-www-form-urlencoded",
			body:        "age=old",
			target:      &struct{ Age int `form:"age"` }{},
			wantErr:     binder.ErrFailedToParseForm,
		},
		{
			name:        "invalid bool",
			contentType: "application/x-www-form-urlencoded",
			body:        "ok=maybe",
			target:      &struct{ OK bool `form:"ok"` }{},
			wantErr:     binder.ErrFailedToParseForm,
		},
		{
			name:        "non struct target",
			contentType: "application/x-www-form-urlencoded",
			body:        "a=1",
			target:      new(int),
			wantErr:     binder.ErrUnsupportedTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			assert.ErrorIs(t, binder.Form()(r, tt.target), tt.wantErr)
		})
	}
}

func TestFormFiles(t *testing.T) {
	t.Parallel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "trip"))
	for _, name := range []string{"one.png", "two.png"} {
		fw, err := mw.CreateFormFile("gallery", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(name))
		require.NoError(t, err)
	}
	fw, err := mw.CreateFormFile("cover", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("cover"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	var got struct {
		Title   string                  `form:"title"`
		Cover   *multipart.FileHeader   `file:"cover"`
		Gallery []*multipart.FileHeader `file:"gallery"`
		Missing *multipart.FileHeader   `file:"missing"`
	}
	require.NoError(t, binder.Form()(r, &got))
	assert.Equal(t, "trip", got.Title)
	require.NotNil(t, got.Cover)
	assert.Equal(t, "cover.png", got.Cover.Filename)
	require.Len(t, got.Gallery, 2)
	assert.Equal(t, "one.png", got.Gallery[0].Filename)
	assert.Equal(t, "two.png", got.Gallery[1].Filename)
	assert.Nil(t, got.Missing)

	f, err := got.Cover.Open()
	require.NoError(t, err)
	defer f.Close()
	buf := make([]byte, 5)
	_, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "cover", string(buf))
}

func TestFormFileWrongFieldType(t *testing.T) {
	t.Parallel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("doc", "a.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("a"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	var got struct {
		Doc string `file:"doc"`
	}
	assert.ErrorIs(t, binder.Form()(r, &got), binder.ErrFailedToParseForm)
}

func TestQuery(t *testing.T) {
	t.Parallel()

	type filter struct {
		Status []string `query:"status"`
		Min    *float32 `query:"min"`
		Offset uint16   `query:"offset"`
		Owner  string
	}

	r := httptest.NewRequest(http.MethodGet, "/?status=open,closed&min=1.5&owner=ann%0A&offset=20", nil)
	var got filter
	require.NoError(t, binder.Query()(r, &got))
	assert.Equal(t, []string{"open", "closed"}, got.Status)
	require.NotNil(t, got.Min)
	assert.InDelta(t, 1.5, *got.Min, 1e-6)
	assert.Equal(t, "ann", got.Owner)
	assert.Equal(t, uint16(20), got.Offset)

	r = httptest.NewRequest(http.MethodGet, "/?offset=70000", nil)
	assert.ErrorIs(t, binder.Query()(r, &got), binder.ErrFailedToParseQuery)
}

func TestPath(t *testing.T) {
	t.Parallel()

	params := map[string]string{"org": "acme", "id": "7"}
	extract := func(_ *http.Request, name string) string { return params[name] }
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	var got struct {
		Org  string `path:"org"`
		ID   int    `path:"id"`
		Slug *string
	}
	require.NoError(t, binder.Path(extract)(r, &got))
	assert.Equal(t, "acme", got.Org)
	assert.Equal(t, 7, got.ID)
	assert.Nil(t, got.Slug)

	assert.ErrorIs(t, binder.Path(nil)(r, &got), binder.ErrFailedToParsePath)
	assert.ErrorIs(t, binder.Path(extract)(r, got), binder.ErrUnsupportedTarget)

	params["id"] = "seven"
	assert.ErrorIs(t, binder.Path(extract)(r, &got), binder.ErrFailedToParsePath)
}
