package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"employee-directory/internal/core/metrics"
	"employee-directory/internal/domain"
	"employee-directory/internal/feature/employee"
)

type EmployeeRepo struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

// NewEmployeeRepo wraps db. m may be nil.
func NewEmployeeRepo(db *gorm.DB, m *metrics.Metrics) *EmployeeRepo {
	return &EmployeeRepo{db: db, metrics: m}
}

// Migrate creates the employees table and its unique email index if absent.
func (r *EmployeeRepo) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&employee.EmployeeModel{}); err != nil {
		return fmt.Errorf("migrate employees: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) Create(ctx context.Context, f domain.EmployeeFields) (int64, error) {
	defer r.metrics.ObserveQuery("create")()

	m := employee.FromFields(f)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, r.fail("create", err)
	}
	return m.ID, nil
}

// FindByID returns nil, nil when no row has the id.
func (r *EmployeeRepo) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	defer r.metrics.ObserveQuery("find_by_id")()

	var m employee.EmployeeModel
	err := r.db.WithContext(ctx).Take(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.fail("find_by_id", err)
	}
	e := m.ToDomain()
	return &e, nil
}

func (r *EmployeeRepo) List(ctx context.Context, f domain.EmployeeFilter, p domain.Page) ([]domain.Employee, error) {
	if p.Offset < 0 || (p.Limit != nil && *p.Limit < 0) {
		return nil, domain.ErrInvalidPage
	}
	if p.Limit != nil && *p.Limit == 0 {
		return []domain.Employee{}, nil
	}
	defer r.metrics.ObserveQuery("list")()

	q := r.db.WithContext(ctx).Model(&employee.EmployeeModel{}).
		Scopes(filterScope(f)).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "created_at"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}})
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if p.Limit != nil {
		q = q.Limit(*p.Limit)
	}

	var rows []employee.EmployeeModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, r.fail("list", err)
	}
	out := make([]domain.Employee, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *EmployeeRepo) Count(ctx context.Context, f domain.EmployeeFilter) (int64, error) {
	defer r.metrics.ObserveQuery("count")()

	var total int64
	if err := r.db.WithContext(ctx).Model(&employee.EmployeeModel{}).Scopes(filterScope(f)).Count(&total).Error; err != nil {
		return 0, r.fail("count", err)
	}
	return total, nil
}

// Update writes only the columns p names. It reports false without touching
// storage for an empty patch, and false when no row has the id.
func (r *EmployeeRepo) Update(ctx context.Context, id int64, p domain.EmployeePatch) (bool, error) {
	if p.IsEmpty() {
		return false, nil
	}
	defer r.metrics.ObserveQuery("update")()

	res := r.db.WithContext(ctx).Model(&employee.EmployeeModel{}).Where("id = ?", id).Updates(p.Columns())
	if res.Error != nil {
		return false, r.fail("update", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id int64) (bool, error) {
	defer r.metrics.ObserveQuery("delete")()

	res := r.db.WithContext(ctx).Delete(&employee.EmployeeModel{}, "id = ?", id)
	if res.Error != nil {
		return false, r.fail("delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *EmployeeRepo) CountByPosition(ctx context.Context) ([]domain.PositionCount, error) {
	defer r.metrics.ObserveQuery("count_by_position")()

	var rows []domain.PositionCount
	err := r.db.WithContext(ctx).Model(&employee.EmployeeModel{}).
		Select("position, COUNT(*) AS total").
		Group("position").
		Order("total DESC, position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, r.fail("count_by_position", err)
	}
	if rows == nil {
		rows = []domain.PositionCount{}
	}
	return rows, nil
}

func (r *EmployeeRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *EmployeeRepo) fail(op string, err error) error {
	err = classify(err)
	if errors.Is(err, domain.ErrUniqueViolation) {
		r.metrics.CountError(op, "unique_violation")
		return err
	}
	r.metrics.CountError(op, "storage")
	return fmt.Errorf("%s employee: %w", strings.ReplaceAll(op, "_", " "), err)
}

// likeEscape is the ESCAPE character for LIKE patterns; it is accepted by
// SQLite, PostgreSQL and MySQL alike.
const likeEscape = "!"

func escapeLike(s string) string {
	return strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_").Replace(s)
}

// filterScope is the single predicate used by both List and Count.
func filterScope(f domain.EmployeeFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.Query != "" {
			like := "%" + escapeLike(f.Query) + "%"
			q = q.Where("(name LIKE ? ESCAPE '!' OR email LIKE ? ESCAPE '!' OR phone LIKE ? ESCAPE '!')", like, like, like)
		}
		if f.Position != "" {
			q = q.Where("position = ?", f.Position)
		}
		return q
	}
}
