package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateKeyError checks for a MySQL/MariaDB unique constraint violation.
// The creation flow relies on unique keys (payment_id, case/notification
// pairs) to stay idempotent under concurrent confirmations, so these failures
// get translated into domain sentinels instead of generic errors.
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
