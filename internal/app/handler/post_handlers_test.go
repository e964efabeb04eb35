package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/mocks"
	"github.com/atinyakov/shortlink/internal/models"
	"github.com/atinyakov/shortlink/internal/storage"
)

func newTestPostHandler(t *testing.T) (*PostHandler, *mocks.MockURLServiceIface) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockURLServiceIface(ctrl)

	return NewPost(mockService, zap.NewNop()), mockService
}

func TestShorten(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		contentType  string
		wantURL      string
		wantAlias    string
		mockRecord   *storage.LinkRecord
		mockErr      error
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "generated code",
			body:         `{"url":"https://example.com"}`,
			contentType:  "application/json",
			wantURL:      "https://example.com",
			mockRecord:   &storage.LinkRecord{ShortCode: "abc1234", OriginalURL: "https://example.com"},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "null alias",
			body:         `{"url":"https://example.com","custom_alias":null}`,
			wantURL:      "https://example.com",
			mockRecord:   &storage.LinkRecord{ShortCode: "abc1234", OriginalURL: "https://example.com"},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "custom alias",
			body:         `{"url":"https://example.com/a","custom_alias":"docs"}`,
			contentType:  "application/json; charset=utf-8",
			wantURL:      "https://example.com/a",
			wantAlias:    "docs",
			mockRecord:   &storage.LinkRecord{ShortCode: "docs", OriginalURL: "https://example.com/a", IsCustom: true},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "unknown fields are ignored",
			body:         `{"url":"https://example.com","utm":"x"}`,
			wantURL:      "https://example.com",
			mockRecord:   &storage.LinkRecord{ShortCode: "abc1234", OriginalURL: "https://example.com"},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "alias taken",
			body:         `{"url":"https://example.com","custom_alias":"docs"}`,
			wantURL:      "https://example.com",
			wantAlias:    "docs",
			mockErr:      service.ErrAliasTaken,
			expectedCode: http.StatusConflict,
			expectedErr:  service.CodeAliasTaken,
		},
		{
			name:         "invalid url",
			body:         `{"url":"ftp://example.com"}`,
			wantURL:      "ftp://example.com",
			mockErr:      fmt.Errorf("%w: scheme must be http or https", service.ErrInvalidURL),
			expectedCode: http.StatusBadRequest,
			expectedErr:  service.CodeInvalidURL,
		},
		{
			name:         "invalid alias",
			body:         `{"url":"https://example.com","custom_alias":"a b"}`,
			wantURL:      "https://example.com",
			wantAlias:    "a b",
			mockErr:      service.ErrInvalidAlias,
			expectedCode: http.StatusBadRequest,
			expectedErr:  service.CodeInvalidAlias,
		},
		{
			name:         "generation exhausted",
			body:         `{"url":"https://example.com"}`,
			wantURL:      "https://example.com",
			mockErr:      service.ErrGenerationExhausted,
			expectedCode: http.StatusServiceUnavailable,
			expectedErr:  service.CodeGenerationExhausted,
		},
		{
			name:         "store unavailable",
			body:         `{"url":"https://example.com"}`,
			wantURL:      "https://example.com",
			mockErr:      fmt.Errorf("%w: %w", service.ErrStoreUnavailable, fmt.Errorf("dial tcp 10.0.0.5:5432: i/o timeout")),
			expectedCode: http.StatusServiceUnavailable,
			expectedErr:  service.CodeStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockService := newTestPostHandler(t)

			mockService.EXPECT().Shorten(gomock.Any(), tt.wantURL, tt.wantAlias).Return(tt.mockRecord, tt.mockErr)
			if tt.mockErr == nil {
				mockService.EXPECT().ShortURL(tt.mockRecord.ShortCode).Return("http://localhost:8080/" + tt.mockRecord.ShortCode)
			}

			req := httptest.NewRequest(http.MethodPost, "/shorten", bytes.NewBufferString(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			h.Shorten(rec, req)

			require.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.expectedErr != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Code)
				assert.NotEmpty(t, resp.Detail)
				assert.NotContains(t, resp.Detail, "10.0.0.5")
				return
			}

			var resp models.ShortenResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "http://localhost:8080/"+tt.mockRecord.ShortCode, resp.ShortURL)
			assert.Equal(t, tt.mockRecord.ShortCode, resp.ShortCode)
			assert.Equal(t, tt.mockRecord.OriginalURL, resp.OriginalURL)
		})
	}
}

func TestShorten_BoundedByRequestTimeout(t *testing.T) {
	h, mockService := newTestPostHandler(t)

	mockService.EXPECT().
		Shorten(gomock.Any(), "https://example.com", "").
		DoAndReturn(func(ctx context.Context, _ string, _ string) (*storage.LinkRecord, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok, "store call must carry a deadline")
			assert.WithinDuration(t, time.Now().Add(requestTimeout), deadline, time.Second)

			return &storage.LinkRecord{ShortCode: "abc1234", OriginalURL: "https://example.com"}, nil
		})
	mockService.EXPECT().ShortURL("abc1234").Return("http://localhost:8080/abc1234")

	req := httptest.NewRequest(http.MethodPost, "/shorten", bytes.NewBufferString(`{"url":"https://example.com"}`))
	rec := httptest.NewRecorder()

	h.Shorten(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestShorten_MalformedBody(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		contentType  string
		expectedCode int
	}{
		{"empty body", "", "application/json", http.StatusBadRequest},
		{"broken json", `{"url":`, "application/json", http.StatusBadRequest},
		{"wrong type", `{"url":42}`, "application/json", http.StatusBadRequest},
		{"two objects", `{"url":"https://a.com"}{"url":"https://b.com"}`, "application/json", http.StatusBadRequest},
		{"plain text", "https://example.com", "text/plain", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no service expectations: a malformed body never reaches the service
			h, _ := newTestPostHandler(t)

			req := httptest.NewRequest(http.MethodPost, "/shorten", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			h.Shorten(rec, req)

			require.Equal(t, tt.expectedCode, rec.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, CodeInvalidRequest, resp.Code)
		})
	}
}
