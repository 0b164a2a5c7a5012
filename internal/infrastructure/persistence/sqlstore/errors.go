package sqlstore

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// 各驱动的错误形式:
// - MySQL: 1062 Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL: SQLSTATE 23505
// - SQLite: UNIQUE constraint failed: table.column
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) &&
		(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return true
	}

	// 兼容检查
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isRegisteredTitleViolation 冲突是否来自部分唯一索引unique_title_registered
// SQLite不报索引名,只报列名:单列books.title只可能是这个索引
func isRegisteredTitleViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == registeredTitleIndex
	}

	msg := err.Error()
	if strings.Contains(msg, registeredTitleIndex) {
		return true
	}
	return strings.HasSuffix(strings.TrimSpace(msg), "books.title")
}

// duplicateField 从冲突信息中猜测冲突的用户字段
func duplicateField(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName + " " + pgErr.Detail
	}
	return err.Error()
}
