package employee

import (
	"time"

	"employee-directory/internal/domain"
)

// EmployeeModel is the row layout of the employees table. The integer
// primary key maps to AUTOINCREMENT on SQLite, so ids are never reused.
type EmployeeModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"size:255;not null"`
	Email    string `gorm:"uniqueIndex:idx_employees_email;size:255;not null"`
	Position string `gorm:"size:255;not null"`
	Phone    string `gorm:"size:32;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (EmployeeModel) TableName() string { return "employees" }

func (m EmployeeModel) ToDomain() domain.Employee {
	return domain.Employee{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Position:  m.Position,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromFields(f domain.EmployeeFields) EmployeeModel {
	return EmployeeModel{Name: f.Name, Email: f.Email, Position: f.Position, Phone: f.Phone}
}
