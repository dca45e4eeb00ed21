package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourify/tourify/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	hdr := http.Header{
		"Content-Type": []string{"application/json"},
		"X-Custom":     []string{"a", "b"},
	}
	body := []byte(`{"id":1,"title":"Onboarding"}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestPayloadEmptyBody(t *testing.T) {
	t.Parallel()

	bs, err := encodePayload(http.StatusNoContent, http.Header{}, nil)
	require.NoError(t, err)

	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusNoContent, status)
	assert.NotNil(t, hdr)
	assert.Empty(t, body)
}

func TestDecodePayloadCorruptInput(t *testing.T) {
	t.Parallel()

	_, _, _, ok := decodePayload(nil)
	assert.False(t, ok)

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)

	// Header length pointing past the end of the buffer.
	bs, err := encodePayload(http.StatusOK, http.Header{"A": {"b"}}, []byte("x"))
	require.NoError(t, err)
	_, _, _, ok = decodePayload(bs[:9])
	assert.False(t, ok)
}

func TestCaptureWriterOversizedBody(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	n, err := cw.Write([]byte("0123456789ABCDE")) // 15 bytes, 5 past the limit
	require.NoError(t, err)
	assert.Equal(t, 15, n)
	_, err = cw.Write([]byte("FGHIJ"))
	require.NoError(t, err)

	// The client always receives the full body.
	assert.Equal(t, "0123456789ABCDEFGHIJ", rec.Body.String())
	// The capture buffer stays capped, the true size keeps counting.
	assert.Equal(t, 10, cw.buf.Len())
	assert.Equal(t, int64(20), cw.size)
	// A truncated capture must not be stored.
	assert.False(t, cw.complete())
}

func TestCaptureWriterWithinLimit(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 64}
	_, err := cw.Write([]byte(`{"id":1}`))
	require.NoError(t, err)

	assert.Equal(t, `{"id":1}`, cw.buf.String())
	assert.True(t, cw.complete())

	unlimited := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, err = unlimited.Write([]byte("anything"))
	require.NoError(t, err)
	assert.True(t, unlimited.complete())
}

func newCacheCtx(method, target, routePath string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(routePath)
	return c
}

func TestCacheKeyStable(t *testing.T) {
	t.Parallel()

	cfg := config.CacheConfig{Prefix: "tourify:cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, newCacheCtx(http.MethodGet, "/v1/public/tours/7", "/v1/public/tours/:id"))
	b := cacheKeyFrom(cfg, newCacheCtx(http.MethodGet, "/v1/public/tours/7", "/v1/public/tours/:id"))
	assert.Equal(t, a, b)
	assert.Contains(t, a, "tourify:cache:")
}

func TestCacheKeyStrategies(t *testing.T) {
	t.Parallel()

	base := newCacheCtx(http.MethodGet, "/v1/shared/abc?x=1", "/v1/shared/:share_id")

	routeOnly := cacheKeyFrom(config.CacheConfig{Prefix: "p", KeyStrategy: "route"}, base)
	withQuery := cacheKeyFrom(config.CacheConfig{Prefix: "p", KeyStrategy: "route_query"}, base)
	assert.NotEqual(t, routeOnly, withQuery)

	// Different query, same route: route strategy collapses them.
	other := newCacheCtx(http.MethodGet, "/v1/shared/abc?x=2", "/v1/shared/:share_id")
	assert.Equal(t, routeOnly, cacheKeyFrom(config.CacheConfig{Prefix: "p", KeyStrategy: "route"}, other))
	assert.NotEqual(t, withQuery, cacheKeyFrom(config.CacheConfig{Prefix: "p", KeyStrategy: "route_query"}, other))
}

func TestRateKeyStrategies(t *testing.T) {
	t.Parallel()

	c := newCacheCtx(http.MethodGet, "/v1/tours", "/v1/tours")

	ipKey := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c)
	assert.Contains(t, ipKey, "rl:ip:")

	// No user_id on the context: the user segment falls back to anon.
	userKey := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c)
	assert.Equal(t, "rl:user:anon", userKey)

	c.Set("user_id", float64(9))
	userKey = buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c)
	assert.Equal(t, "rl:user:9", userKey)

	routeKey := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c)
	assert.Equal(t, "rl:route:GET /v1/tours", routeKey)
}
