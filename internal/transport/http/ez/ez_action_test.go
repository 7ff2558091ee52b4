package ez_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"employee-directory/internal/domain"
	"employee-directory/internal/transport/http/ez"
	mdw "employee-directory/internal/transport/http/middleware"
	resp "employee-directory/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

type pageIn struct {
	Limit *int `form:"limit"`
}

func newEngine(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mdw.MaxBodyBytes(64))
	e := ez.New(r.Group("/"), l)

	ez.RegisterAction(e, ez.Action[echoIn, echoIn]{
		Method: http.MethodPost, Path: "/echo", Binder: ez.BindJSON,
		Status: http.StatusCreated, Message: "created",
		Handler: func(_ *gin.Context, in *echoIn) (echoIn, error) { return *in, nil },
	})
	ez.RegisterAction(e, ez.Action[pageIn, int]{
		Method: http.MethodGet, Path: "/page", Binder: ez.BindQuery,
		Handler: func(_ *gin.Context, in *pageIn) (int, error) {
			if in.Limit == nil {
				return -1, nil
			}
			return *in.Limit, nil
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, any]{
		Method: http.MethodGet, Path: "/fail/:kind", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			switch c.Param("kind") {
			case "missing":
				return nil, ez.NotFound("Thing not found")
			case "deadline":
				return nil, fmt.Errorf("list employee: %w", context.DeadlineExceeded)
			case "invalid":
				return nil, ez.Invalid("Validation failed", []domain.FieldError{{Field: "name", Message: "required"}})
			default:
				return nil, errors.New("disk on fire")
			}
		},
	})
	return r
}

func call(r http.Handler, method, target, body string) (*httptest.ResponseRecorder, resp.Envelope) {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env resp.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestRegisterActionSuccess(t *testing.T) {
	t.Parallel()
	r := newEngine(nil)

	w, env := call(r, http.MethodPost, "/echo", `{"name":"ann"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "created", env.Message)
	assert.Equal(t, map[string]any{"name": "ann"}, env.Data)

	_, env = call(r, http.MethodGet, "/page?limit=5", "")
	assert.EqualValues(t, 5, env.Data)
	_, env = call(r, http.MethodGet, "/page", "")
	assert.EqualValues(t, -1, env.Data)
}

func TestRegisterActionBindErrors(t *testing.T) {
	t.Parallel()
	r := newEngine(nil)

	w, env := call(r, http.MethodPost, "/echo", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", env.Message)
	assert.NotEmpty(t, env.Error)

	w, env = call(r, http.MethodGet, "/page?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid query parameters", env.Message)

	w, env = call(r, http.MethodPost, "/echo", `{"name":"`+string(bytes.Repeat([]byte("a"), 128))+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Request body too large", env.Message)
}

func TestRegisterActionErrors(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.ErrorLevel)
	r := newEngine(zap.New(core))

	w, env := call(r, http.MethodGet, "/fail/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Thing not found", env.Message)

	w, env = call(r, http.MethodGet, "/fail/invalid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "name", env.Errors[0].Field)

	w, env = call(r, http.MethodGet, "/fail/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", env.Message)
	assert.NotContains(t, w.Body.String(), "disk on fire")
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())

	w, env = call(r, http.MethodGet, "/fail/deadline", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "Request timed out", env.Message)
	assert.Equal(t, 2, logs.FilterMessage("request failed").Len())
}
