package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"employee-directory/internal/domain"
	"employee-directory/internal/service"
	"employee-directory/internal/transport/http/ez"
)

const (
	MsgCreated        = "Employee created successfully"
	MsgUpdated        = "Employee updated successfully"
	MsgDeleted        = "Employee deleted successfully"
	MsgNotFound       = "Employee not found"
	MsgDuplicateEmail = "An employee with this email already exists"
	MsgNoFields       = "No fields to update"
	MsgValidation     = "Validation failed"
	MsgInvalidID      = "Invalid employee ID"
	MsgInvalidPage    = "limit and offset must be non-negative integers"
	MsgInvalidQuery   = "Invalid query parameters"
)

type EmployeeService interface {
	Create(ctx context.Context, in domain.EmployeeFields) (*domain.Employee, error)
	Get(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context, p service.ListParams) (*service.ListResult, error)
	Update(ctx context.Context, id int64, in domain.EmployeePatch) (*domain.Employee, error)
	Delete(ctx context.Context, id int64) error
}

type EmployeeHandler struct {
	svc EmployeeService
	log *zap.Logger
}

func NewEmployeeHandler(s EmployeeService, l *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{svc: s, log: l}
}

// listQuery binds limit and offset as text so that an empty value
// (?limit=) reads as absent rather than zero.
type listQuery struct {
	Search   string `form:"search"`
	Position string `form:"position"`
	Limit    string `form:"limit"`
	Offset   string `form:"offset"`
}

type createBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
}

// updateBody keeps absent and present-but-empty fields apart.
type updateBody struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Position *string `json:"position"`
	Phone    *string `json:"phone"`
}

func (h *EmployeeHandler) Priority() int { return 10 }

// MountAPI registers the /employees routes on api.
func (h *EmployeeHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/employees"), h.log)

	ez.RegisterAction(e, ez.Action[listQuery, *service.ListResult]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listQuery) (*service.ListResult, error) {
			limit, err := optInt(in.Limit)
			if err != nil {
				return nil, err
			}
			offset, err := optInt(in.Offset)
			if err != nil {
				return nil, err
			}
			res, err := h.svc.List(c.Request.Context(), service.ListParams{
				Search: in.Search, Position: in.Position, Limit: limit, Offset: offset,
			})
			return res, mapError(err)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Employee]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Employee, error) {
			id, err := parseID(c)
			if err != nil {
				return nil, err
			}
			emp, err := h.svc.Get(c.Request.Context(), id)
			return emp, mapError(err)
		},
	})

	ez.RegisterAction(e, ez.Action[createBody, *domain.Employee]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Status: http.StatusCreated, Message: MsgCreated,
		Handler: func(c *gin.Context, in *createBody) (*domain.Employee, error) {
			emp, err := h.svc.Create(c.Request.Context(), domain.EmployeeFields{
				Name: in.Name, Email: in.Email, Position: in.Position, Phone: in.Phone,
			})
			return emp, mapError(err)
		},
	})

	ez.RegisterAction(e, ez.Action[updateBody, *domain.Employee]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON, Message: MsgUpdated,
		Handler: func(c *gin.Context, in *updateBody) (*domain.Employee, error) {
			id, err := parseID(c)
			if err != nil {
				return nil, err
			}
			emp, err := h.svc.Update(c.Request.Context(), id, domain.EmployeePatch{
				Name: in.Name, Email: in.Email, Position: in.Position, Phone: in.Phone,
			})
			return emp, mapError(err)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, any]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone, Message: MsgDeleted,
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			id, err := parseID(c)
			if err != nil {
				return nil, err
			}
			return nil, mapError(h.svc.Delete(c.Request.Context(), id))
		},
	})
}

// optInt reads an optional integer query value; blank means absent.
func optInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, ez.BadRequest(MsgInvalidQuery)
	}
	return &n, nil
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ez.BadRequest(MsgInvalidID)
	}
	return id, nil
}

// mapError turns domain outcomes into HTTP errors; anything unknown is left
// for ez to log and report as a 500.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return ez.Invalid(MsgValidation, verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		return ez.NotFound(MsgNotFound)
	case errors.Is(err, domain.ErrDuplicateEmail):
		return ez.Conflict(MsgDuplicateEmail)
	case errors.Is(err, domain.ErrEmptyUpdate):
		return ez.BadRequest(MsgNoFields)
	case errors.Is(err, domain.ErrInvalidPage):
		return ez.BadRequest(MsgInvalidPage)
	}
	return err
}
