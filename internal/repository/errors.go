// Package repository holds the database/sql data access layer.  This
// file defines error values shared across repositories so handlers can
// distinguish failure scenarios.  Entity-specific not-found sentinels
// live next to their repository.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when an insert or update violates a
// uniqueness rule, such as two tables on the same floor position or a
// second override schedule for the same day.  Handlers should translate
// this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062), which the unique keys on tables and schedules produce.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
