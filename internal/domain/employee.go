package domain

import (
	"context"
	"time"
)

type Employee struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Position  string    `json:"position"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmployeeFields is the full set of writable columns, already trimmed and
// normalized by the caller.
type EmployeeFields struct {
	Name     string
	Email    string
	Position string
	Phone    string
}

// EmployeePatch names the columns an update touches; nil means "leave as is".
type EmployeePatch struct {
	Name     *string
	Email    *string
	Position *string
	Phone    *string
}

func (p EmployeePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Position == nil && p.Phone == nil
}

// Columns returns the column -> value map of the named fields.
func (p EmployeePatch) Columns() map[string]any {
	cols := make(map[string]any, 4)
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Position != nil {
		cols["position"] = *p.Position
	}
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}
	return cols
}

// EmployeeFilter is shared by List and Count. Empty strings mean "no filter".
type EmployeeFilter struct {
	Query    string // substring of name, email or phone
	Position string // exact match
}

// Page is a limit/offset window. Limit nil means no cap, 0 means no rows.
type Page struct {
	Limit  *int
	Offset int
}

type PositionCount struct {
	Position string `json:"position"`
	Total    int64  `json:"total"`
}

type EmployeeRepository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, f EmployeeFields) (int64, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context, f EmployeeFilter, p Page) ([]Employee, error)
	Count(ctx context.Context, f EmployeeFilter) (int64, error)
	Update(ctx context.Context, id int64, p EmployeePatch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountByPosition(ctx context.Context) ([]PositionCount, error)
	Ping(ctx context.Context) error
}
