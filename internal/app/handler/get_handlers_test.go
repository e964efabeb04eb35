package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/mocks"
	"github.com/atinyakov/shortlink/internal/models"
	"github.com/atinyakov/shortlink/internal/storage"
)

func createTestHandler(t *testing.T) (*GetHandler, *mocks.MockURLResolverIface, *mocks.MockURLServiceIface) {
	ctrl := gomock.NewController(t)
	mockResolver := mocks.NewMockURLResolverIface(ctrl)
	mockService := mocks.NewMockURLServiceIface(ctrl)

	return NewGet(mockResolver, mockService, zap.NewNop()), mockResolver, mockService
}

func muxRequestWithParam(r *http.Request, key, value string) *http.Request {
	tctx := chi.NewRouteContext()
	tctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, tctx))
}

func TestRedirect(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		mockReturn   string
		mockErr      error
		expectedCode int
	}{
		{
			name:         "known code",
			code:         "abc123",
			mockReturn:   "https://example.com/a?b=c",
			expectedCode: http.StatusFound,
		},
		{
			name:         "unknown code",
			code:         "unknown",
			mockErr:      service.ErrNotFound,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "store down",
			code:         "abc123",
			mockErr:      service.ErrStoreUnavailable,
			expectedCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockResolver, _ := createTestHandler(t)
			mockResolver.EXPECT().ResolveForRedirect(gomock.Any(), tt.code).Return(tt.mockReturn, tt.mockErr)

			req := muxRequestWithParam(httptest.NewRequest(http.MethodGet, "/"+tt.code, nil), "code", tt.code)
			rec := httptest.NewRecorder()

			h.Redirect(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.mockErr == nil {
				assert.Equal(t, tt.mockReturn, rec.Header().Get("Location"))
			} else {
				assert.Empty(t, rec.Header().Get("Location"))
			}
		})
	}
}

func TestStats(t *testing.T) {
	h, mockResolver, _ := createTestHandler(t)
	created := time.Date(2025, 3, 4, 5, 6, 7, 890, time.UTC)

	mockResolver.EXPECT().GetStats(gomock.Any(), "docs").Return(&service.LinkStats{
		ShortCode:   "docs",
		OriginalURL: "https://example.com/a",
		TotalClicks: 42,
		CreatedAt:   created,
	}, nil)

	req := muxRequestWithParam(httptest.NewRequest(http.MethodGet, "/stats/docs", nil), "code", "docs")
	rec := httptest.NewRecorder()

	h.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatsResponse{
		ShortCode:   "docs",
		OriginalURL: "https://example.com/a",
		TotalClicks: 42,
		CreatedAt:   "2025-03-04T05:06:07Z",
	}, resp)
}

func TestStats_NotFound(t *testing.T) {
	h, mockResolver, _ := createTestHandler(t)
	mockResolver.EXPECT().GetStats(gomock.Any(), "nope").Return(nil, service.ErrNotFound)

	req := muxRequestWithParam(httptest.NewRequest(http.MethodGet, "/stats/nope", nil), "code", "nope")
	rec := httptest.NewRecorder()

	h.Stats(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, service.CodeNotFound, resp.Code)
}

func TestPingDB(t *testing.T) {
	h, _, mockService := createTestHandler(t)

	mockService.EXPECT().PingContext(gomock.Any()).Return(nil)
	rec := httptest.NewRecorder()
	h.PingDB(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	mockService.EXPECT().PingContext(gomock.Any()).Return(errors.New("db is down"))
	rec = httptest.NewRecorder()
	h.PingDB(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db is down")
}

func TestInternalStats(t *testing.T) {
	h, _, mockService := createTestHandler(t)
	mockService.EXPECT().InternalStats(gomock.Any()).Return(storage.Stats{Links: 2, Clicks: 5}, nil)

	rec := httptest.NewRecorder()
	h.InternalStats(rec, httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"links":2,"clicks":5}`, rec.Body.String())
}
