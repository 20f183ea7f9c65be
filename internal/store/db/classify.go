package db

import (
	"errors"
	"fmt"
	"net"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes mapped to ErrConstraint.
const (
	classDataException      = "22"
	classIntegrityViolation = "23"
)

// Classify tags err with ErrStoreUnavailable when the store could not be reached
// and with ErrConstraint when the store rejected the data. Other errors pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, perrors.ErrStoreUnavailable) || errors.Is(err, perrors.ErrConstraint) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) >= 2 {
			switch pgErr.Code[:2] {
			case classDataException, classIntegrityViolation:
				return fmt.Errorf("%w: %w", perrors.ErrConstraint, err)
			}
		}
		return err
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", perrors.ErrStoreUnavailable, err)
	}
	return err
}
