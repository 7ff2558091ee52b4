package ez

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employee-directory/internal/domain"
	mdw "employee-directory/internal/transport/http/middleware"
	resp "employee-directory/internal/transport/http/response"
)

// EZ registers typed actions on a router group.
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler reads c.Param itself
)

// AErr is an error that knows its HTTP status and user-facing message.
type AErr struct {
	Code   int
	Msg    string
	Err    error
	Fields []domain.FieldError
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error   { return &AErr{Code: http.StatusConflict, Msg: msg} }
func Invalid(msg string, fields []domain.FieldError) error {
	return &AErr{Code: http.StatusBadRequest, Msg: msg, Fields: fields}
}
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Action describes one endpoint: I is the bound input, O the data payload.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int    // success status, default 200
	Message string // optional success message
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			msg := "Invalid request body"
			if a.Binder == BindQuery {
				msg = "Invalid query parameters"
			}
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, ""))
				return
			}
			body := resp.Error(http.StatusBadRequest, msg)
			body.Error = bindErr.Error()
			c.JSON(http.StatusBadRequest, body)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.writeErr(c, err)
			return
		}
		if a.Message != "" {
			c.JSON(status, resp.OKMsg(a.Message, out))
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// writeErr renders err. Anything that is not an *AErr below 500 is logged
// and reported with a generic message; a blown request deadline is a 504.
func (e EZ) writeErr(c *gin.Context, err error) {
	var ae *AErr
	switch {
	case errors.As(err, &ae):
	case errors.Is(err, context.DeadlineExceeded):
		ae = &AErr{Code: http.StatusGatewayTimeout, Err: err}
	default:
		ae = &AErr{Code: http.StatusInternalServerError, Err: err}
	}
	if ae.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
		e.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.Error(err),
		)
		c.JSON(ae.Code, resp.Error(ae.Code, ""))
		return
	}
	if len(ae.Fields) > 0 {
		c.JSON(ae.Code, resp.Invalid(ae.Msg, ae.Fields))
		return
	}
	c.JSON(ae.Code, resp.Error(ae.Code, ae.Msg))
}
