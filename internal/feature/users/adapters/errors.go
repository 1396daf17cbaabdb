package adapters

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"user_backend/internal/feature/users/usecase"
)

// MySQL server error numbers that mean a column constraint rejected the write.
const (
	mysqlErrDupEntry     = 1062
	mysqlErrBadNull      = 1048
	mysqlErrDataTooLong  = 1406
	mysqlErrCheckViolate = 3819
)

// PostgreSQL SQLSTATE codes for the same class of failures.
const (
	pgStringDataRightTruncation = "22001"
	pgNotNullViolation          = "23502"
	pgUniqueViolation           = "23505"
	pgCheckViolation            = "23514"
)

// classifyError tags driver errors that represent constraint violations with
// usecase.ErrConstraintViolation. The driver error stays in the chain.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDupEntry, mysqlErrBadNull, mysqlErrDataTooLong, mysqlErrCheckViolate:
			return fmt.Errorf("%w: %w", usecase.ErrConstraintViolation, err)
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgStringDataRightTruncation, pgNotNullViolation, pgUniqueViolation, pgCheckViolation:
			return fmt.Errorf("%w: %w", usecase.ErrConstraintViolation, err)
		}
	}
	return err
}
