package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/utils"
)

const secret = "test-secret"

func serve(t *testing.T, mw []echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := func(c echo.Context) error {
		id, _ := UserID(c)
		return utils.JSONSuccess(c, http.StatusOK, echo.Map{"id": id, "role": Role(c)})
	}
	e.GET("/p", h, mw...)
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	good, err := utils.NewAccessToken(secret, 42, "STAFF", time.Minute)
	require.NoError(t, err)
	expired, err := utils.NewAccessToken(secret, 42, "STAFF", -time.Minute)
	require.NoError(t, err)
	foreign, err := utils.NewAccessToken("other", 42, "STAFF", time.Minute)
	require.NoError(t, err)
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": 42, "role": "ADMIN"})
	noneStr, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer " + good.Token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired.Token, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign.Token, http.StatusUnauthorized},
		{"alg none", "Bearer " + noneStr, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, []echo.MiddlewareFunc{JWTAuth(secret)}, tc.header)
			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				assert.JSONEq(t, `{"success":true,"data":{"id":42,"role":"STAFF"}}`, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	staff, _ := utils.NewAccessToken(secret, 1, "STAFF", time.Minute)
	admin, _ := utils.NewAccessToken(secret, 2, "ADMIN", time.Minute)
	chain := []echo.MiddlewareFunc{JWTAuth(secret), RequireRole("ADMIN")}

	assert.Equal(t, http.StatusForbidden, serve(t, chain, "Bearer "+staff.Token).Code)
	assert.Equal(t, http.StatusOK, serve(t, chain, "Bearer "+admin.Token).Code)
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	rec := serve(t, []echo.MiddlewareFunc{
		NewRedisCache(config.CacheConfig{Enabled: true, TTL: time.Minute}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil),
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	e := echo.New()
	newCtx := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/public/locations/:id/slots")
		return c
	}

	cfg := config.CacheConfig{Prefix: "rb:cache"}
	a := cacheKeyFrom(cfg, newCtx("/v1/public/locations/1/slots?date=2024-05-02"))
	b := cacheKeyFrom(cfg, newCtx("/v1/public/locations/2/slots?date=2024-05-02"))
	c := cacheKeyFrom(cfg, newCtx("/v1/public/locations/1/slots?date=2024-05-03"))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^rb:cache:[0-9a-f]{40}$`, a)

	rl := config.RateLimitConfig{Prefix: "rb:rl", KeyStrategy: "ip_route"}
	ctx := newCtx("/v1/public/locations/1/slots")
	assert.Equal(t, "rb:rl:ip:10.0.0.9:route:GET /v1/public/locations/:id/slots", buildRateKey(rl, ctx))

	rl.KeyStrategy = "user"
	assert.Equal(t, "rb:rl:user:anon", buildRateKey(rl, ctx))
	ctx.Set(ctxUserID, uint64(5))
	assert.Equal(t, "rb:rl:user:5", buildRateKey(rl, ctx))

	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 3, retryAfterSeconds(2001))
}
