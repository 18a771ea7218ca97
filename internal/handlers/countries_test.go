package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nlim89/countrycat/internal/cache"
	"github.com/nlim89/countrycat/internal/database/testutil"
	"github.com/nlim89/countrycat/internal/services"
	"github.com/nlim89/countrycat/internal/store"
	"github.com/nlim89/countrycat/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countryFixture struct {
	router *gin.Engine
	clock  *time.Time
}

func newCountryFixture(t *testing.T) *countryFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	countryStore, err := store.NewCountryStore(db)
	require.NoError(t, err)

	now := time.Now()
	pageCache := cache.NewMemoryStore(cache.WithClock(func() time.Time { return now }))

	svc, err := services.NewCountryService(countryStore, pageCache, time.Hour)
	require.NoError(t, err)

	countries := NewCountryHandler(svc)
	diagnostics := NewDiagnosticsHandler(svc)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/health", Health())
	api.GET("/test_connection", diagnostics.TestConnection)
	api.GET("/hana_version", diagnostics.Version)
	api.GET("/countries", countries.List)
	api.POST("/add/country", countries.Create)
	api.PUT("/update/country/:code", countries.Update)
	api.DELETE("/delete/country/:code", countries.Delete)

	return &countryFixture{router: router, clock: &now}
}

func (f *countryFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func listDescriptions(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var envelope struct {
		Status string                `json:"status"`
		Data   []services.CountryDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	descriptions := make(map[string]string, len(envelope.Data))
	for _, country := range envelope.Data {
		descriptions[country.Code] = country.Description
	}
	return descriptions
}

func TestHealth(t *testing.T) {
	fixture := newCountryFixture(t)

	rec := fixture.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestDiagnostics(t *testing.T) {
	fixture := newCountryFixture(t)

	rec := fixture.do(t, http.MethodGet, "/api/test_connection", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var probe services.ConnectionStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &probe))
	require.Equal(t, "connected", probe.Status)
	require.NotEmpty(t, probe.Version)

	rec = fixture.do(t, http.MethodGet, "/api/hana_version", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var version struct {
		Version string `json:"hana_version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &version))
	require.NotEmpty(t, version.Version)
}

func TestCountryLifecycle(t *testing.T) {
	fixture := newCountryFixture(t)

	// Create
	rec := fixture.do(t, http.MethodPost, "/api/add/country", gin.H{
		"NAME":  "Testland",
		"DESCR": "A test country",
		"CODE":  "TL",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.Equal(t, response.StatusSuccess, envelope.Status)
	require.Equal(t, "Country created successfully", envelope.Message)

	// It shows up in the listing with lower-case keys
	rec = fixture.do(t, http.MethodGet, "/api/countries?page=1&per_page=100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"name":"Testland"`)
	require.Contains(t, rec.Body.String(), `"description":"A test country"`)
	require.Contains(t, rec.Body.String(), `"code":"TL"`)

	descriptions := listDescriptions(t, rec)
	require.Equal(t, "A test country", descriptions["TL"])

	// Update
	rec = fixture.do(t, http.MethodPut, "/api/update/country/TL", gin.H{"DESCR": "Updated"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Country updated successfully", decodeEnvelope(t, rec).Message)

	// Within the TTL window the listing still serves the cached page.
	rec = fixture.do(t, http.MethodGet, "/api/countries?page=1&per_page=100", nil)
	require.Equal(t, "A test country", listDescriptions(t, rec)["TL"])

	// Past the TTL the fresh page shows the update.
	*fixture.clock = fixture.clock.Add(time.Hour + time.Minute)
	rec = fixture.do(t, http.MethodGet, "/api/countries?page=1&per_page=100", nil)
	require.Equal(t, "Updated", listDescriptions(t, rec)["TL"])

	// Delete
	rec = fixture.do(t, http.MethodDelete, "/api/delete/country/TL", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Country deleted successfully", decodeEnvelope(t, rec).Message)

	*fixture.clock = fixture.clock.Add(2 * time.Hour)
	rec = fixture.do(t, http.MethodGet, "/api/countries?page=1&per_page=100", nil)
	_, exists := listDescriptions(t, rec)["TL"]
	require.False(t, exists)
}

func TestListPagination(t *testing.T) {
	fixture := newCountryFixture(t)

	for i := 0; i < 12; i++ {
		rec := fixture.do(t, http.MethodPost, "/api/add/country", gin.H{
			"NAME":  fmt.Sprintf("Country %02d", i),
			"DESCR": "seeded",
			"CODE":  fmt.Sprintf("C%02d", i),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := fixture.do(t, http.MethodGet, "/api/countries?page=2&per_page=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	require.Equal(t, response.StatusSuccess, envelope.Status)
	require.NotNil(t, envelope.Pagination)
	require.Equal(t, 2, envelope.Pagination.Page)
	require.Equal(t, 5, envelope.Pagination.PerPage)
	require.EqualValues(t, 12, envelope.Pagination.TotalCount)
	require.Equal(t, 3, envelope.Pagination.TotalPages)

	data, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, data, 5)
}

func TestListRejectsInvalidPagination(t *testing.T) {
	fixture := newCountryFixture(t)

	for _, query := range []string{"page=0", "per_page=0", "page=-1", "page=0&per_page=0", "page=abc", "per_page=abc", "page=1.5"} {
		rec := fixture.do(t, http.MethodGet, "/api/countries?"+query, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, "query %s", query)

		envelope := decodeEnvelope(t, rec)
		require.Equal(t, response.StatusError, envelope.Status)
		require.NotEmpty(t, envelope.Message)
	}
}

func TestListNonNumericPaginationRejected(t *testing.T) {
	fixture := newCountryFixture(t)

	rec := fixture.do(t, http.MethodGet, "/api/countries?page=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeEnvelope(t, rec)
	require.Equal(t, response.StatusError, envelope.Status)
	require.Equal(t, "INVALID_ARGUMENT", envelope.Code)
	require.Contains(t, envelope.Message, "page must be an integer")

	// Absent parameters still fall back to the defaults.
	rec = fixture.do(t, http.MethodGet, "/api/countries", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	envelope = decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Pagination)
	require.Equal(t, 1, envelope.Pagination.Page)
	require.Equal(t, 100, envelope.Pagination.PerPage)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	fixture := newCountryFixture(t)

	for _, body := range []gin.H{
		{},
		{"NAME": "Testland"},
		{"NAME": "Testland", "DESCR": "A test country"},
		{"DESCR": "A test country", "CODE": "TL"},
	} {
		rec := fixture.do(t, http.MethodPost, "/api/add/country", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, response.StatusError, decodeEnvelope(t, rec).Status)
	}
}

func TestCreateDuplicateCodeFails(t *testing.T) {
	fixture := newCountryFixture(t)

	body := gin.H{"NAME": "Testland", "DESCR": "A test country", "CODE": "TL"}
	rec := fixture.do(t, http.MethodPost, "/api/add/country", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = fixture.do(t, http.MethodPost, "/api/add/country", body)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	envelope := decodeEnvelope(t, rec)
	require.Equal(t, response.StatusError, envelope.Status)
	require.Contains(t, envelope.Message, "already exists")
}

func TestUpdateRejectsEmptyFieldSet(t *testing.T) {
	fixture := newCountryFixture(t)

	rec := fixture.do(t, http.MethodPut, "/api/update/country/TL", gin.H{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No valid columns to update", decodeEnvelope(t, rec).Message)
}

func TestDeleteUnknownCodeSucceeds(t *testing.T) {
	fixture := newCountryFixture(t)

	rec := fixture.do(t, http.MethodDelete, "/api/delete/country/nonexistent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, response.StatusSuccess, decodeEnvelope(t, rec).Status)
}
