package repo

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"employee-directory/internal/domain"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	employeeIndexPrefix  = "idx_employees_"
	sqliteUniquePrefix   = "UNIQUE constraint failed: "
	mysqlDuplicateKeyTag = "for key '"
)

// classify turns driver-specific unique violations into
// *domain.UniqueViolationError. The kind is decided by the driver's error
// code; the message is only consulted for the column name.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return &domain.UniqueViolationError{Column: sqliteColumn(sqliteErr.Error()), Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		col := pgErr.ColumnName
		if col == "" {
			col = indexColumn(pgErr.ConstraintName)
		}
		return &domain.UniqueViolationError{Column: col, Err: err}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return &domain.UniqueViolationError{Column: mysqlColumn(myErr.Message), Err: err}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.UniqueViolationError{Err: err}
	}
	return err
}

// "UNIQUE constraint failed: employees.email" -> "email"
func sqliteColumn(msg string) string {
	i := strings.Index(msg, sqliteUniquePrefix)
	if i < 0 {
		return ""
	}
	cols := strings.Split(msg[i+len(sqliteUniquePrefix):], ", ")
	first := strings.TrimSpace(cols[0])
	if dot := strings.LastIndexByte(first, '.'); dot >= 0 {
		first = first[dot+1:]
	}
	return first
}

// "Duplicate entry 'a@b.c' for key 'employees.idx_employees_email'" -> "email"
func mysqlColumn(msg string) string {
	i := strings.LastIndex(msg, mysqlDuplicateKeyTag)
	if i < 0 {
		return ""
	}
	key := strings.TrimSuffix(msg[i+len(mysqlDuplicateKeyTag):], "'")
	if dot := strings.LastIndexByte(key, '.'); dot >= 0 {
		key = key[dot+1:]
	}
	return indexColumn(key)
}

// indexColumn maps an index or constraint name back to its column:
// idx_employees_email and employees_email_key both give "email".
func indexColumn(name string) string {
	switch {
	case name == "":
		return ""
	case strings.HasPrefix(name, employeeIndexPrefix):
		return strings.TrimPrefix(name, employeeIndexPrefix)
	case strings.HasPrefix(name, "employees_") && strings.HasSuffix(name, "_key"):
		return strings.TrimSuffix(strings.TrimPrefix(name, "employees_"), "_key")
	}
	return name
}
