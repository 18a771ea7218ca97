package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nlim89/countrycat/internal/cache"
	"github.com/nlim89/countrycat/internal/models"
	appErrors "github.com/nlim89/countrycat/pkg/errors"
	"github.com/nlim89/countrycat/pkg/logger"
	"github.com/nlim89/countrycat/pkg/metrics"
)

// DefaultListTTL is how long a cached country page stays fresh.
const DefaultListTTL = time.Hour

// CountryGateway is the database gateway consumed by the service. It is
// satisfied by *store.CountryStore and by counting stubs in tests.
type CountryGateway interface {
	SelectCountries(ctx context.Context, offset, limit int) ([]models.Country, int64, error)
	InsertCountry(ctx context.Context, country models.Country) error
	UpdateCountry(ctx context.Context, code string, fields map[string]string) (int64, error)
	DeleteCountry(ctx context.Context, code string) (int64, error)
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
}

// CountryService validates input, orchestrates the gateway and the page
// cache, and shapes results for the transport layer.
type CountryService struct {
	gateway CountryGateway
	pages   cache.Store
	listTTL time.Duration
	log     *zap.Logger
}

// NewCountryService constructs the service. A nil pageCache disables read
// caching; a non-positive ttl falls back to DefaultListTTL.
func NewCountryService(gateway CountryGateway, pageCache cache.Store, listTTL time.Duration) (*CountryService, error) {
	if gateway == nil {
		return nil, errors.New("country service: gateway is required")
	}
	if listTTL <= 0 {
		listTTL = DefaultListTTL
	}

	return &CountryService{
		gateway: gateway,
		pages:   pageCache,
		listTTL: listTTL,
		log:     logger.WithModule("countries"),
	}, nil
}

// CountryDTO is a country as transmitted on reads, with lower-case keys.
type CountryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// PageInfo describes the window of a country listing.
type PageInfo struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// CountryPage is one paginated listing result. It is the unit stored in the
// page cache.
type CountryPage struct {
	Data       []CountryDTO `json:"data"`
	Pagination PageInfo     `json:"pagination"`
}

// CreateCountryInput captures the fields required to create a country.
type CreateCountryInput struct {
	Name        string
	Description string
	Code        string
}

// UpdateCountryInput describes mutable country fields. A nil pointer
// indicates no change. The code is never updatable.
type UpdateCountryInput struct {
	Name        *string
	Description *string
}

func listCacheKey(page, perPage int) string {
	return fmt.Sprintf("countries:page=%d:per_page=%d", page, perPage)
}

// List returns one page of countries plus pagination metadata. Live cached
// pages are served without touching the gateway; misses run one count and one
// windowed select, then cache the marshalled page for listTTL.
func (s *CountryService) List(ctx context.Context, page, perPage int) (*CountryPage, error) {
	if page < 1 || perPage < 1 {
		return nil, appErrors.NewInvalidArgument("page and per_page must be positive integers")
	}

	key := listCacheKey(page, perPage)
	if s.pages != nil {
		payload, ok, err := s.pages.Get(ctx, key)
		if err != nil {
			s.log.Warn("page cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			var cached CountryPage
			if err := json.Unmarshal(payload, &cached); err == nil {
				metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
				return &cached, nil
			}
			s.log.Warn("discarding undecodable cache entry", zap.String("key", key))
			_ = s.pages.Delete(ctx, key)
		}
		metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
	}

	countries, total, err := s.gateway.SelectCountries(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, s.wrapGatewayError(err, "Failed to fetch countries")
	}

	result := &CountryPage{
		Data: make([]CountryDTO, 0, len(countries)),
		Pagination: PageInfo{
			Page:       page,
			PerPage:    perPage,
			TotalCount: total,
			TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
		},
	}
	for _, country := range countries {
		result.Data = append(result.Data, CountryDTO{
			Name:        country.Name,
			Description: country.Description,
			Code:        country.Code,
		})
	}

	if s.pages != nil {
		payload, err := json.Marshal(result)
		if err == nil {
			err = s.pages.Set(ctx, key, payload, s.listTTL)
		}
		if err != nil {
			s.log.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return result, nil
}

// Create validates and persists a new country record.
func (s *CountryService) Create(ctx context.Context, input CreateCountryInput) error {
	country := models.Country{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
	}
	country.Normalise()

	if country.Name == "" || country.Description == "" || country.Code == "" {
		return appErrors.NewInvalidArgument("Missing required fields: NAME, DESCR, CODE")
	}

	if err := s.gateway.InsertCountry(ctx, country); err != nil {
		return s.wrapGatewayError(err, "Failed to create country")
	}

	s.log.Info("country created", zap.String("code", country.Code))
	return nil
}

// Update applies a partial update to the record keyed by code. Updating an
// unknown code succeeds with zero affected rows, matching the permissive
// legacy contract.
func (s *CountryService) Update(ctx context.Context, code string, input UpdateCountryInput) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return appErrors.NewInvalidArgument("country code is required")
	}

	fields := make(map[string]string, 2)
	if input.Name != nil {
		fields["NAME"] = *input.Name
	}
	if input.Description != nil {
		fields["DESCR"] = *input.Description
	}
	if len(fields) == 0 {
		return appErrors.NewInvalidArgument("No valid columns to update")
	}

	affected, err := s.gateway.UpdateCountry(ctx, code, fields)
	if err != nil {
		return s.wrapGatewayError(err, "Failed to update country")
	}

	s.log.Info("country updated", zap.String("code", code), zap.Int64("affected", affected))
	return nil
}

// Delete removes the record keyed by code. Deleting an unknown code is a
// no-op success.
func (s *CountryService) Delete(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return appErrors.NewInvalidArgument("country code is required")
	}

	affected, err := s.gateway.DeleteCountry(ctx, code)
	if err != nil {
		return s.wrapGatewayError(err, "Failed to delete country")
	}

	s.log.Info("country deleted", zap.String("code", code), zap.Int64("affected", affected))
	return nil
}

// ConnectionStatus is the payload of the connection probe.
type ConnectionStatus struct {
	Status  string `json:"status"`
	Version string `json:"hana_version,omitempty"`
	Message string `json:"message,omitempty"`
}

// TestConnection probes the database and reports its version. Probe failures
// are reported in the payload rather than as transport errors.
func (s *CountryService) TestConnection(ctx context.Context) ConnectionStatus {
	version, err := s.gateway.Version(ctx)
	if err != nil {
		s.log.Error("connection test failed", zap.Error(err))
		return ConnectionStatus{Status: "error", Message: appErrors.FromError(err).Message}
	}

	return ConnectionStatus{Status: "connected", Version: version}
}

// DatabaseVersion returns the backing database's version string.
func (s *CountryService) DatabaseVersion(ctx context.Context) (string, error) {
	version, err := s.gateway.Version(ctx)
	if err != nil {
		return "", s.wrapGatewayError(err, "Failed to read database version")
	}
	return version, nil
}

// wrapGatewayError logs a gateway failure and re-raises it as a generic
// operation failure carrying the underlying message. Validation failures
// never reach this path.
func (s *CountryService) wrapGatewayError(err error, message string) error {
	s.log.Error("gateway operation failed", zap.String("context", message), zap.Error(err))

	if appErr := appErrors.FromError(err); appErr.Code != appErrors.ErrInternalServer.Code {
		message = message + ": " + appErr.Message
	}
	return appErrors.Wrap(err, message)
}
