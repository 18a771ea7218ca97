package store

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appErrors "github.com/nlim89/countrycat/pkg/errors"
	"github.com/nlim89/countrycat/pkg/metrics"
)

// fail logs a query failure with operation context and returns it as a
// QueryError (or ConnectionError when the call never reached the database).
func (s *CountryStore) fail(operation, message string, err error) error {
	s.log.Error("query failed",
		zap.String("operation", operation),
		zap.String("table", "countries"),
		zap.Error(err),
	)
	metrics.DatabaseQueries.WithLabelValues(operation, "error").Inc()

	if isConnectionError(err) {
		return appErrors.ErrConnection.WithMessage(message).WithInternal(err)
	}
	return appErrors.ErrQuery.WithMessage(message).WithInternal(err)
}

func (s *CountryStore) connectionFail(operation string, err error) error {
	s.log.Error("database unreachable",
		zap.String("operation", operation),
		zap.Error(err),
	)
	metrics.DatabaseQueries.WithLabelValues(operation, "error").Inc()
	return appErrors.ErrConnection.WithInternal(err)
}

// isConnectionError distinguishes transport faults and timeouts from
// statement-level rejections.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "broken pipe") ||
		strings.Contains(lower, "no such host")
}

// isUniqueConstraintError detects database uniqueness constraint violations
// across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") ||
		strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "constraint")
}
