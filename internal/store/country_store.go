package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nlim89/countrycat/internal/models"
	"github.com/nlim89/countrycat/pkg/logger"
	"github.com/nlim89/countrycat/pkg/metrics"
)

const defaultQueryTimeout = 5 * time.Second

// CountryStore is the gateway for every database operation on the countries
// table. All statements are parameterized through gorm; values never get
// interpolated into SQL text.
type CountryStore struct {
	db           *gorm.DB
	queryTimeout time.Duration
	log          *zap.Logger
}

// Option customises a CountryStore.
type Option func(*CountryStore)

// WithQueryTimeout bounds each database call. Calls that exceed the timeout
// fail instead of blocking indefinitely.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(s *CountryStore) {
		if timeout > 0 {
			s.queryTimeout = timeout
		}
	}
}

// NewCountryStore constructs the gateway once a database handle is supplied.
func NewCountryStore(db *gorm.DB, opts ...Option) (*CountryStore, error) {
	if db == nil {
		return nil, errors.New("country store: db is required")
	}

	store := &CountryStore{
		db:           db,
		queryTimeout: defaultQueryTimeout,
		log:          logger.WithModule("store"),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// SelectCountries returns the total row count and the requested window of
// rows. Results are ordered by CODE so pagination stays stable across pages
// regardless of the backing store's default ordering.
func (s *CountryStore) SelectCountries(ctx context.Context, offset, limit int) ([]models.Country, int64, error) {
	ctx, cancel := s.boundedContext(ctx)
	defer cancel()

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Country{}).Count(&total).Error; err != nil {
		return nil, 0, s.fail("select", "count countries", err)
	}

	var countries []models.Country
	err := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "CODE"}}).
		Offset(offset).
		Limit(limit).
		Find(&countries).Error
	if err != nil {
		return nil, 0, s.fail("select", "select countries", err)
	}

	metrics.DatabaseQueries.WithLabelValues("select", "success").Inc()
	return countries, total, nil
}

// InsertCountry issues a parameterized insert for the supplied record.
func (s *CountryStore) InsertCountry(ctx context.Context, country models.Country) error {
	ctx, cancel := s.boundedContext(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(&country).Error; err != nil {
		if isUniqueConstraintError(err) {
			return s.fail("insert", fmt.Sprintf("country code %q already exists", country.Code), err)
		}
		return s.fail("insert", "insert country", err)
	}

	metrics.DatabaseQueries.WithLabelValues("insert", "success").Inc()
	return nil
}

// UpdateCountry applies the supplied column values to the row keyed by code
// and reports how many rows changed. Updating an unknown code is not an
// error; the affected count is zero.
func (s *CountryStore) UpdateCountry(ctx context.Context, code string, fields map[string]string) (int64, error) {
	ctx, cancel := s.boundedContext(ctx)
	defer cancel()

	values := make(map[string]interface{}, len(fields))
	for column, value := range fields {
		values[column] = value
	}

	result := s.db.WithContext(ctx).
		Model(&models.Country{}).
		Where(&models.Country{Code: code}).
		Updates(values)
	if result.Error != nil {
		return 0, s.fail("update", "update country", result.Error)
	}

	metrics.DatabaseQueries.WithLabelValues("update", "success").Inc()
	return result.RowsAffected, nil
}

// DeleteCountry removes the row keyed by code. Deleting an unknown code is
// not an error (idempotent delete).
func (s *CountryStore) DeleteCountry(ctx context.Context, code string) (int64, error) {
	ctx, cancel := s.boundedContext(ctx)
	defer cancel()

	result := s.db.WithContext(ctx).Delete(&models.Country{Code: code})
	if result.Error != nil {
		return 0, s.fail("delete", "delete country", result.Error)
	}

	metrics.DatabaseQueries.WithLabelValues("delete", "success").Inc()
	return result.RowsAffected, nil
}

// Ping verifies the database connection is alive.
func (s *CountryStore) Ping(ctx context.Context) error {
	ctx, cancel := s.boundedContext(ctx)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		return s.connectionFail("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return s.connectionFail("ping", err)
	}
	return nil
}

// Version reports the backing database's version string.
func (s *CountryStore) Version(ctx context.Context) (string, error) {
	ctx, cancel := s.boundedContext(ctx)
	defer cancel()

	var query string
	switch s.db.Dialector.Name() {
	case "sqlite":
		query = "SELECT sqlite_version()"
	default:
		query = "SELECT version()"
	}

	var version string
	if err := s.db.WithContext(ctx).Raw(query).Scan(&version).Error; err != nil {
		return "", s.connectionFail("version", err)
	}
	return version, nil
}

func (s *CountryStore) boundedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
