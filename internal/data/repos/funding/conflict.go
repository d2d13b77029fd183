package funding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	fgerrors "github.com/yungbote/fundgraph-backend/internal/pkg/errors"
)

const pgUniqueViolation = "23505"

// sqlite extended result codes; modernc reports them through Code().
const (
	sqliteConstraint           = 19
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

type codedError interface {
	Code() int
}

// IsUniqueViolation reports whether err came from a unique index, whichever driver produced it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var coded codedError
	if errors.As(err, &coded) {
		switch coded.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return true
		case sqliteConstraint:
			return strings.Contains(err.Error(), "UNIQUE")
		}
	}
	return false
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, fgerrors.ErrResolutionConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
