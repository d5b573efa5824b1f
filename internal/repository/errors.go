// Package repository contains data access logic separated from HTTP
// handlers. This file defines error values reused across multiple
// repositories so that higher layers can distinguish failure modes:
// a *NotFound sentinel maps to HTTP 404, a duplicate sentinel to 409.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint (category name, location address, user name). Handlers
// translate it into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate value")

// isDuplicateErr reports whether err is a MySQL duplicate-key error
// (server error 1062, ER_DUP_ENTRY).
func isDuplicateErr(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// affected reports whether a statement changed at least one row. The
// boolean is the commit outcome callers branch on: false means the
// mutation did not take effect.
func affected(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}
