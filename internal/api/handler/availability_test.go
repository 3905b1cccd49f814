package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/basilmuhammad91/property-booking-platform/internal/application"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/availability"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/daterange"
	"github.com/basilmuhammad91/property-booking-platform/internal/domain/property"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := daterange.Parse(s)
	require.NoError(t, err)
	return d
}

func newContext(e *echo.Echo, req *http.Request, names, values []string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he.Code
}

func TestAvailabilityHandler_Check(t *testing.T) {
	e := NewTestEcho()

	t.Run("available stay includes the quote", func(t *testing.T) {
		svc := new(MockAvailabilityService)
		start, end := day(t, "2025-01-10"), day(t, "2025-01-13")
		svc.On("CheckAvailability", mock.Anything, "p-1", start, end).Return(true, nil)
		svc.On("Quote", mock.Anything, "p-1", start, end).
			Return(&application.Quote{Nights: 3, TotalAmount: decimal.NewFromInt(300)}, nil)

		req := httptest.NewRequest(http.MethodGet, "/?start_date=2025-01-10&end_date=2025-01-13", nil)
		c, rec := newContext(e, req, []string{"property_id"}, []string{"p-1"})

		require.NoError(t, NewAvailabilityHandler(svc).Check(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AvailabilityCheckResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Available)
		assert.Equal(t, 3, resp.Nights)
		require.NotNil(t, resp.TotalAmount)
		assert.Equal(t, "300.00", *resp.TotalAmount)
		svc.AssertExpectations(t)
	})

	t.Run("unavailable stay has no total", func(t *testing.T) {
		svc := new(MockAvailabilityService)
		svc.On("CheckAvailability", mock.Anything, "p-1", mock.Anything, mock.Anything).Return(false, nil)

		req := httptest.NewRequest(http.MethodGet, "/?start_date=2025-01-10&end_date=2025-01-13", nil)
		c, rec := newContext(e, req, []string{"property_id"}, []string{"p-1"})

		require.NoError(t, NewAvailabilityHandler(svc).Check(c))
		var resp AvailabilityCheckResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Available)
		assert.Equal(t, 3, resp.Nights)
		assert.Nil(t, resp.TotalAmount)
		svc.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		svc := new(MockAvailabilityService)
		req := httptest.NewRequest(http.MethodGet, "/?start_date=10-01-2025&end_date=2025-01-13", nil)
		c, _ := newContext(e, req, []string{"property_id"}, []string{"p-1"})

		err := NewAvailabilityHandler(svc).Check(c)
		assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	})

	t.Run("unknown property", func(t *testing.T) {
		svc := new(MockAvailabilityService)
		svc.On("CheckAvailability", mock.Anything, "nope", mock.Anything, mock.Anything).Return(false, property.ErrPropertyNotFound)

		req := httptest.NewRequest(http.MethodGet, "/?start_date=2025-01-10&end_date=2025-01-13", nil)
		c, _ := newContext(e, req, []string{"property_id"}, []string{"nope"})

		err := NewAvailabilityHandler(svc).Check(c)
		assert.Equal(t, http.StatusNotFound, httpCode(t, err))
	})
}

func TestAvailabilityHandler_Get(t *testing.T) {
	e := NewTestEcho()
	svc := new(MockAvailabilityService)
	from := day(t, "2025-01-01")
	price := decimal.NullDecimal{Decimal: decimal.NewFromInt(120), Valid: true}
	blocks := []*availability.Block{
		{ID: "b-1", PropertyID: "p-1", StartDate: from, EndDate: day(t, "2025-01-31"), IsAvailable: true},
		{ID: "b-2", PropertyID: "p-1", StartDate: day(t, "2025-01-10"), EndDate: day(t, "2025-01-12"), IsAvailable: true, PriceOverride: price},
	}
	svc.On("GetAvailability", mock.Anything, "p-1", &from, (*time.Time)(nil)).Return(blocks, nil)

	req := httptest.NewRequest(http.MethodGet, "/?start_date=2025-01-01", nil)
	c, rec := newContext(e, req, []string{"property_id"}, []string{"p-1"})

	require.NoError(t, NewAvailabilityHandler(svc).Get(c))

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Blocks, 2)
	assert.Nil(t, resp.Blocks[0].Price)
	require.NotNil(t, resp.Blocks[1].Price)
	assert.Equal(t, "120.00", *resp.Blocks[1].Price)
	assert.Equal(t, "2025-01-10", resp.Blocks[1].StartDate)
}

func TestAvailabilityHandler_Set(t *testing.T) {
	e := NewTestEcho()

	t.Run("maps the request to block inputs", func(t *testing.T) {
		svc := new(MockAvailabilityService)
		svc.On("SetAvailability", mock.Anything, "p-1", mock.MatchedBy(func(in []application.BlockInput) bool {
			return len(in) == 2 &&
				in[0].IsAvailable && !in[0].PriceOverride.Valid &&
				!in[1].IsAvailable && in[1].PriceOverride.Valid &&
				in[1].PriceOverride.Decimal.Equal(decimal.NewFromInt(90))
		})).Return([]*availability.Block{}, nil)

		body := `{"blocks":[
			{"start_date":"2025-01-01","end_date":"2025-01-31","is_available":true},
			{"start_date":"2025-01-12","end_date":"2025-01-12","is_available":false,"price":90}
		]}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c, rec := newContext(e, req, []string{"property_id"}, []string{"p-1"})

		require.NoError(t, NewAvailabilityHandler(svc).Set(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("is_available is required", func(t *testing.T) {
		svc := new(MockAvailabilityService)
		body := `{"blocks":[{"start_date":"2025-01-01","end_date":"2025-01-31"}]}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c, _ := newContext(e, req, []string{"property_id"}, []string{"p-1"})

		err := NewAvailabilityHandler(svc).Set(c)
		assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	})

	t.Run("empty block list is rejected", func(t *testing.T) {
		svc := new(MockAvailabilityService)
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"blocks":[]}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c, _ := newContext(e, req, []string{"property_id"}, []string{"p-1"})

		err := NewAvailabilityHandler(svc).Set(c)
		assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	})

	t.Run("negative price from the service is a bad request", func(t *testing.T) {
		svc := new(MockAvailabilityService)
		svc.On("SetAvailability", mock.Anything, "p-1", mock.Anything).Return(nil, availability.ErrInvalidPrice)

		body := `{"blocks":[{"start_date":"2025-01-01","end_date":"2025-01-31","is_available":true,"price":-5}]}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c, _ := newContext(e, req, []string{"property_id"}, []string{"p-1"})

		err := NewAvailabilityHandler(svc).Set(c)
		assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	})
}
