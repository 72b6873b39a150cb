package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seating-chart/internal/config"
)

const secret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func serve(e *echo.Echo, method, target, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestJWTAuthAndRequireRole(t *testing.T) {
	e := echo.New()
	e.GET("/p", func(c echo.Context) error {
		return c.String(http.StatusOK, Subject(c)+"/"+Role(c))
	}, JWTAuth(secret), RequireRole("PLANNER"))

	exp := time.Now().Add(time.Hour).Unix()
	good := signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "planner", "role": "PLANNER", "exp": exp})
	otherRole := signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "x", "role": "GUEST", "exp": exp})
	wrongKey := signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "planner", "role": "PLANNER", "exp": exp})
	expired := signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "planner", "role": "PLANNER", "exp": time.Now().Add(-time.Minute).Unix()})
	noExp := signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "planner", "role": "PLANNER"})
	hs512 := signed(t, jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"sub": "planner", "role": "PLANNER", "exp": exp})

	rec := serve(e, http.MethodGet, "/p", good)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "planner/PLANNER", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/p", otherRole).Code)
	for name, tok := range map[string]string{"missing": "", "wrong key": wrongKey, "expired": expired, "no exp": noExp, "hs512": hs512, "garbage": "abc"} {
		assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/p", tok).Code, name)
	}
}

func TestSubjectDefaults(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", Subject(c))
	assert.Empty(t, Role(c))
}

func rateConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Hour,
		TTL: 10 * time.Hour, KeyStrategy: "ip_route", Prefix: "rl",
	}
}

func TestTokenBucket(t *testing.T) {
	mr, rdb := newRedis(t)
	e := echo.New()
	e.GET("/k", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(rateConfig(), rdb, nil))
	e.GET("/other", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(rateConfig(), rdb, nil))

	first := serve(e, http.MethodGet, "/k", "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/k", "").Code)

	blocked := serve(e, http.MethodGet, "/k", "")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	// Separate bucket per route.
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/other", "").Code)
	assert.True(t, mr.Exists("rl:ip:10.0.0.1:route:GET /k"))
}

func TestTokenBucket_FailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()
	e := echo.New()
	e.GET("/k", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(rateConfig(), rdb, nil))

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/k", "").Code)
	}
}

func TestTokenBucket_Disabled(t *testing.T) {
	cfg := rateConfig()
	cfg.Enabled = false
	_, rdb := newRedis(t)
	e := echo.New()
	e.GET("/k", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(cfg, rdb, nil))

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/k", "").Code)
	}
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{Enabled: true, Methods: []string{"get"}, TTL: time.Minute, KeyStrategy: "route_query", Prefix: "cache", MaxBodyBytes: 1 << 20}
}

func TestRedisCache(t *testing.T) {
	_, rdb := newRedis(t)
	var version atomic.Uint64
	var calls atomic.Int32
	epoch := "boot-1"
	revision := func() string { return fmt.Sprintf("%s:%d", epoch, version.Load()) }

	e := echo.New()
	h := func(c echo.Context) error {
		n := calls.Add(1)
		return c.JSON(http.StatusOK, echo.Map{"call": n, "id": c.Param("id")})
	}
	mw := NewRedisCache(cacheConfig(), rdb, revision, nil)
	e.GET("/g/:id", h, mw)
	e.POST("/g/:id", h, mw)

	miss := serve(e, http.MethodGet, "/g/a?q=1", "")
	assert.Equal(t, "MISS", miss.Header().Get("X-Cache"))
	hit := serve(e, http.MethodGet, "/g/a?q=1", "")
	assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, miss.Body.String(), hit.Body.String())
	assert.Equal(t, miss.Header().Get(echo.HeaderContentType), hit.Header().Get(echo.HeaderContentType))
	assert.EqualValues(t, 1, calls.Load())

	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/g/b?q=1", "").Header().Get("X-Cache"))
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/g/a?q=2", "").Header().Get("X-Cache"))

	version.Add(1)
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/g/a?q=1", "").Header().Get("X-Cache"))
	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/g/a?q=1", "").Header().Get("X-Cache"))

	// Same version number after a restart must not replay the old entry.
	epoch = "boot-2"
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/g/a?q=1", "").Header().Get("X-Cache"))

	serve(e, http.MethodPost, "/g/a", "")
	assert.Empty(t, serve(e, http.MethodPost, "/g/a", "").Header().Get("X-Cache"))
}

func TestRedisCache_SkipsErrorsAndOversizedBodies(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := cacheConfig()
	cfg.MaxBodyBytes = 16

	e := echo.New()
	mw := NewRedisCache(cfg, rdb, func() string { return "e:1" }, nil)
	e.GET("/missing", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no chart"})
	}, mw)
	e.GET("/big", func(c echo.Context) error {
		return c.String(http.StatusOK, "this body is longer than sixteen bytes")
	}, mw)

	serve(e, http.MethodGet, "/missing", "")
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/missing", "").Header().Get("X-Cache"))
	serve(e, http.MethodGet, "/big", "")
	big := serve(e, http.MethodGet, "/big", "")
	assert.Equal(t, "MISS", big.Header().Get("X-Cache"))
	assert.Equal(t, "this body is longer than sixteen bytes", big.Body.String())
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"text/csv"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte("a,b"))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, "a,b", string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}
