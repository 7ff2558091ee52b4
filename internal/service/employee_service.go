package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"employee-directory/internal/domain"
	"employee-directory/internal/feature/employee"
)

type ListParams struct {
	Search   string
	Position string
	Limit    *int
	Offset   *int
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   *int  `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

type ListResult struct {
	Employees  []domain.Employee `json:"employees"`
	Pagination Pagination        `json:"pagination"`
}

type Stats struct {
	Total     int64                  `json:"total"`
	Positions []domain.PositionCount `json:"positions"`
}

// EmployeeService is the caller side of the repository: it normalizes and
// validates input, checks existence before writes and turns storage
// outcomes into domain errors.
type EmployeeService struct {
	repo  domain.EmployeeRepository
	rules *employee.Rules
	log   *zap.Logger
}

func NewEmployeeService(r domain.EmployeeRepository, l *zap.Logger) *EmployeeService {
	if l == nil {
		l = zap.NewNop()
	}
	return &EmployeeService{repo: r, rules: employee.NewRules(), log: l}
}

func (s *EmployeeService) Create(ctx context.Context, in domain.EmployeeFields) (*domain.Employee, error) {
	f := employee.Normalize(in)
	if err := s.rules.Validate(f); err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	s.log.Info("employee created", zap.Int64("id", id))
	return s.Get(ctx, id)
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// List fetches one page plus the total for the same filter. The two reads
// are not in one transaction; a write landing between them can skew total.
func (s *EmployeeService) List(ctx context.Context, p ListParams) (*ListResult, error) {
	if (p.Limit != nil && *p.Limit < 0) || (p.Offset != nil && *p.Offset < 0) {
		return nil, domain.ErrInvalidPage
	}
	f := domain.EmployeeFilter{
		Query:    strings.TrimSpace(p.Search),
		Position: strings.TrimSpace(p.Position),
	}
	page := domain.Page{Limit: p.Limit}
	if p.Offset != nil {
		page.Offset = *p.Offset
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, f, page)
	if err != nil {
		return nil, err
	}

	pg := Pagination{Total: total, Limit: p.Limit, Offset: page.Offset}
	if p.Offset != nil && p.Limit != nil {
		pg.HasMore = int64(*p.Offset)+int64(*p.Limit) < total
	}
	return &ListResult{Employees: rows, Pagination: pg}, nil
}

func (s *EmployeeService) Update(ctx context.Context, id int64, in domain.EmployeePatch) (*domain.Employee, error) {
	if in.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}
	p := employee.NormalizePatch(in)
	if err := s.rules.ValidatePatch(p); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	ok, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	if !ok {
		// deleted between the existence check and the write
		return nil, domain.ErrNotFound
	}
	s.log.Info("employee updated", zap.Int64("id", id))
	return s.Get(ctx, id)
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.log.Info("employee deleted", zap.Int64("id", id))
	return nil
}

func (s *EmployeeService) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.Count(ctx, domain.EmployeeFilter{})
	if err != nil {
		return nil, err
	}
	positions, err := s.repo.CountByPosition(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Total: total, Positions: positions}, nil
}

func (s *EmployeeService) Ping(ctx context.Context) error { return s.repo.Ping(ctx) }

func mapWriteErr(err error) error {
	var uv *domain.UniqueViolationError
	if errors.As(err, &uv) && (uv.Column == "email" || uv.Column == "") {
		return fmt.Errorf("%w: %w", domain.ErrDuplicateEmail, err)
	}
	return err
}
