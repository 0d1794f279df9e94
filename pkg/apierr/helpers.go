package apierr

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsNotFound reports whether err is or wraps pgx.ErrNoRows.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
