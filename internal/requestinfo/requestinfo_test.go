package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	surfer "github.com/avct/uasurfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/125.0.6422.112 Safari/537.36"

func TestPrimaryLang(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"en-US,en;q=0.9":           "en-us",
		"tr;q=0.8, en":             "tr",
		"  DE-de ":                 "de-de",
		"fr-CH, fr;q=0.9, *;q=0.5": "fr-ch",
	}
	for in, want := range cases {
		assert.Equal(t, want, primaryLang(in), "primaryLang(%q)", in)
	}
}

func TestVersionToString(t *testing.T) {
	assert.Equal(t, "", versionToString(surfer.Version{}))
	assert.Equal(t, "17", versionToString(surfer.Version{Major: 17}))
	assert.Equal(t, "17.3", versionToString(surfer.Version{Major: 17, Minor: 3}))
	assert.Equal(t, "17.0.1", versionToString(surfer.Version{Major: 17, Patch: 1}))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:5123"
	assert.Equal(t, "203.0.113.9", clientIP(r).String())

	r.RemoteAddr = "198.51.100.4"
	assert.Equal(t, "198.51.100.4", clientIP(r).String())

	r.RemoteAddr = "garbage"
	r.Header.Set("X-Forwarded-For", "bogus, 192.0.2.1, 10.0.0.1")
	assert.Equal(t, "192.0.2.1", clientIP(r).String())

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-Ip", "192.0.2.77")
	assert.Equal(t, "192.0.2.77", clientIP(r).String())
}

func TestParseUA_Desktop(t *testing.T) {
	ua := parseUA(chromeMac, "en-GB")
	assert.Equal(t, "Chrome", ua.Browser)
	assert.Equal(t, "Desktop", ua.Device)
	assert.False(t, ua.IsBot)
	assert.Equal(t, "en-gb", ua.PrimaryLang)
}

func TestEnrich_StoresInfo(t *testing.T) {
	var got *RequestInfo
	h := Enrich(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.RemoteAddr = "203.0.113.5:443"
	req.Header.Set("User-Agent", chromeMac)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "203.0.113.5", got.ClientIP())
	assert.Empty(t, got.Geo.CountryISO, "no geo db loaded")
	assert.False(t, got.Timestamp.IsZero())
}

func TestFromContext_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(r.Context()))
	assert.Equal(t, "", (*RequestInfo)(nil).ClientIP())
}

func TestInitGeo_EmptyPathIsNoop(t *testing.T) {
	require.NoError(t, InitGeo(""))
	assert.Error(t, InitGeo("/does/not/exist.mmdb"))
}
