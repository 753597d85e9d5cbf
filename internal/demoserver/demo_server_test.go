package demoserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = "demo.local:9999"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func post(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ─── Pages ─────────────────────────────────────────────────────────────

func TestPages_Version1IsNeglected(t *testing.T) {
	t.Parallel()
	h := NewDemoServer(DefaultConfig()).Handler()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Home</title>")
	assert.NotContains(t, rec.Body.String(), "viewport")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/sitemap.xml").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/blog/water-heater-tips").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/robots.txt").Code)
}

func TestPages_Version2FixesSite(t *testing.T) {
	t.Parallel()
	s := NewDemoServer(DefaultConfig())
	s.SetVersion(2)
	h := s.Handler()

	home := get(t, h, "/").Body.String()
	assert.Contains(t, home, `name="viewport"`)
	assert.Contains(t, home, `"@type": "Plumber"`)
	assert.Contains(t, home, `<link rel="canonical" href="http://demo.local:9999/">`)
	assert.NotContains(t, home, originPlaceholder)
	assert.Equal(t, "public, max-age=600", get(t, h, "/").Header().Get("Cache-Control"))

	sitemap := get(t, h, "/sitemap.xml")
	require.Equal(t, http.StatusOK, sitemap.Code)
	assert.Equal(t, "application/xml", sitemap.Header().Get("Content-Type"))
	assert.Equal(t, 5, strings.Count(sitemap.Body.String(), "<loc>http://demo.local:9999/"))

	robots := get(t, h, "/robots.txt").Body.String()
	assert.Contains(t, robots, "Sitemap: http://demo.local:9999/sitemap.xml")

	assert.Equal(t, http.StatusOK, get(t, h, "/blog/water-heater-tips").Code)
}

func TestPages_UnknownPathIsNotFound(t *testing.T) {
	t.Parallel()
	h := NewDemoServer(DefaultConfig()).Handler()
	assert.Equal(t, http.StatusNotFound, get(t, h, "/old-specials").Code)
}

func TestStatic_ServesPlaceholders(t *testing.T) {
	t.Parallel()
	h := NewDemoServer(DefaultConfig()).Handler()
	assert.Equal(t, "application/javascript", get(t, h, "/static/jquery.js").Header().Get("Content-Type"))
	assert.Equal(t, "text/css", get(t, h, "/static/style.css").Header().Get("Content-Type"))
	assert.Equal(t, http.StatusOK, get(t, h, "/static/van.jpg").Code)
}

// ─── Version control ───────────────────────────────────────────────────

func TestSetVersion_ClampsToAvailable(t *testing.T) {
	t.Parallel()
	s := NewDemoServer(DefaultConfig())
	s.SetVersion(9)
	for path, v := range s.versions {
		assert.Equal(t, s.pages[path].MaxVersion(), v, path)
	}
	s.SetVersion(0)
	for path, v := range s.versions {
		assert.Equal(t, 1, v, path)
	}
}

func TestSetVersionHandler(t *testing.T) {
	t.Parallel()
	s := NewDemoServer(DefaultConfig())
	h := s.Handler()

	rec := post(t, h, "/demo/set-version", url.Values{"path": {"/"}, "version": {"2"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, get(t, h, "/").Body.String(), "<h1>Springfield's Trusted Emergency Plumbers</h1>")
	assert.Contains(t, get(t, h, "/about").Body.String(), "<title>About</title>")

	rec = post(t, h, "/demo/set-version", url.Values{"path": {"/"}, "version": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h, "/demo/set-version", url.Values{"path": {"/nope"}, "version": {"2"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, http.StatusMethodNotAllowed, get(t, h, "/demo/set-version").Code)
}

func TestBumpAndReset(t *testing.T) {
	t.Parallel()
	s := NewDemoServer(DefaultConfig())
	h := s.Handler()

	require.Equal(t, http.StatusOK, post(t, h, "/demo/bump-all", nil).Code)
	require.Equal(t, http.StatusOK, post(t, h, "/demo/bump-all", nil).Code)

	var pages []PageInfo
	require.NoError(t, json.NewDecoder(get(t, h, "/demo/get-versions").Body).Decode(&pages))
	require.Len(t, pages, len(GetAllPages()))
	assert.Equal(t, "/", pages[0].Path)
	for _, p := range pages {
		assert.Equal(t, p.AvailableVersions[len(p.AvailableVersions)-1], p.CurrentVersion, p.Path)
	}

	require.Equal(t, http.StatusOK, post(t, h, "/demo/reset", nil).Code)
	assert.Contains(t, get(t, h, "/").Body.String(), "<title>Home</title>")
}

func TestControlPanel_Renders(t *testing.T) {
	t.Parallel()
	h := NewDemoServer(DefaultConfig()).Handler()
	rec := get(t, h, "/demo/control")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/sitemap.xml")
	assert.Contains(t, rec.Body.String(), "Global Controls")
}
