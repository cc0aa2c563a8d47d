package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/storyboard-api/internal/store"
)

// undefinedTableErrorCode is the PostgreSQL code for a missing relation.
const undefinedTableErrorCode = "42P01"

// MapError translates a missing table into store.ErrNotFound and returns any
// other error unchanged. The original error stays available to errors.As.
func MapError(err error) error {
	if IsUndefinedTable(err) {
		return fmt.Errorf("%w: table missing, migrations not applied: %w", store.ErrNotFound, err)
	}
	return err
}

// IsUndefinedTable reports whether err means the queried table does not
// exist, which usually indicates migrations have not been applied.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableErrorCode
}
