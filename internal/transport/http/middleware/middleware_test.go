package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	mdw "employee-directory/internal/transport/http/middleware"
	resp "employee-directory/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func do(r http.Handler, method, target string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) resp.Envelope {
	t.Helper()
	var env resp.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(mdw.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(mdw.KeyRequestID)) })

	w := do(r, http.MethodGet, "/", nil, map[string]string{mdw.KeyRequestID: "abc"})
	assert.Equal(t, "abc", w.Header().Get(mdw.KeyRequestID))
	assert.Equal(t, "abc", w.Body.String())

	w = do(r, http.MethodGet, "/", nil, nil)
	assert.Len(t, w.Header().Get(mdw.KeyRequestID), 36)
	assert.Equal(t, w.Header().Get(mdw.KeyRequestID), w.Body.String())
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(mdw.RateLimit(0, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/", nil, nil).Code)
	w := do(r, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(mdw.RateLimitPerIP(0, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2"))
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(mdw.MaxBodyBytes(4))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/", bytes.NewBufferString("abc"), nil).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(r, http.MethodPost, "/", bytes.NewBufferString("abcdef"), nil).Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(mdw.Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := do(r, http.MethodGet, "/slow", nil, nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "Request timed out", decode(t, w).Message)
}

func TestConcurrencyLimitRejectsWhenFull(t *testing.T) {
	r := gin.New()
	r.Use(mdw.ConcurrencyLimit(1))
	entered := make(chan struct{})
	release := make(chan struct{})
	r.GET("/hold", func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusNoContent)
	})
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	held := make(chan int, 1)
	go func() { held <- do(r, http.MethodGet, "/hold", nil, nil).Code }()
	<-entered

	w := do(r, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Server busy", decode(t, w).Message)

	close(release)
	assert.Equal(t, http.StatusNoContent, <-held)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/", nil, nil).Code, "slot is released")
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(mdw.Recovery(zap.New(core)))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/boom", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w).Message)
	assert.Equal(t, 1, logs.Len())
}

func TestAccessLogMasksSecrets(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(mdw.RequestID(), mdw.AccessLog(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	do(r, http.MethodGet, "/x?token=s3cret&search=bob", nil, nil)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "/x", ctx["path"])
	assert.EqualValues(t, http.StatusOK, ctx["status"])
	q, ok := ctx["query"].(map[string][]string)
	require.True(t, ok)
	assert.Equal(t, []string{"****"}, q["token"])
	assert.Equal(t, []string{"bob"}, q["search"])
}

func TestMetricsCountsByRoute(t *testing.T) {
	r := gin.New()
	r.Use(mdw.Metrics())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/items/1", nil, nil)
	do(r, http.MethodGet, "/items/2", nil, nil)

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "employee_directory_http_requests_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}
