package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNewsService implements domain.NewsService for handler tests.
type fakeNewsService struct {
	entries     []*domain.News
	entry       *domain.News
	err         error
	lastCreated *domain.News
	lastType    domain.NewsType
}

func (f *fakeNewsService) ListActive(ctx context.Context, typ domain.NewsType) ([]*domain.News, error) {
	f.lastType = typ
	return f.entries, f.err
}

func (f *fakeNewsService) ListInactive(ctx context.Context) ([]*domain.News, error) {
	return f.entries, f.err
}

func (f *fakeNewsService) GetByID(ctx context.Context, id string) (*domain.News, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entry, nil
}

func (f *fakeNewsService) Create(ctx context.Context, n *domain.News) (*domain.News, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastCreated = n
	n.ID = "news-1"
	return n, nil
}

func (f *fakeNewsService) Update(ctx context.Context, id string, upd domain.NewsUpdate) (*domain.News, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entry, nil
}

func (f *fakeNewsService) ToggleStatus(ctx context.Context, id string) (*domain.News, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entry, nil
}

func testControllerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewsController_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		fakeErr    error
		wantStatus int
		wantType   domain.NewsType
	}{
		{
			name:       "defaults to NEWS",
			query:      "",
			wantStatus: http.StatusOK,
			wantType:   domain.NewsTypeNews,
		},
		{
			name:       "explicit type is uppercased",
			query:      "?type=blogs",
			wantStatus: http.StatusOK,
			wantType:   domain.NewsTypeBlogs,
		},
		{
			name:       "invalid type rejected",
			query:      "?type=gossip",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "service error",
			fakeErr:    assert.AnError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeNewsService{entries: []*domain.News{{ID: "n1"}}, err: tt.fakeErr}
			ctrl := NewNewsController(testControllerLogger(), fake)

			req := httptest.NewRequest(http.MethodGet, "http://test/news"+tt.query, nil)
			rr := httptest.NewRecorder()

			ctrl.List(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantType, fake.lastType)
			}
		})
	}
}

func TestNewsController_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"title":"Launch day","description":"We shipped","type":"news"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			body:       `{"description":"We shipped","type":"news"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid type",
			body:       `{"title":"Launch day","type":"gossip"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field rejected",
			body:       `{"title":"Launch day","type":"news","status":"ACTIVE"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeNewsService{}
			ctrl := NewNewsController(testControllerLogger(), fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/news", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Create(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				require.NotNil(t, fake.lastCreated)
				assert.Equal(t, domain.NewsTypeNews, fake.lastCreated.Type)

				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.Nil(t, envelope.Error)
			}
		})
	}
}

func TestNewsController_Get_NotFound(t *testing.T) {
	ctrl := NewNewsController(testControllerLogger(), &fakeNewsService{err: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "http://test/news/missing", nil)
	req.SetPathValue("newsID", "missing")
	rr := httptest.NewRecorder()

	ctrl.Get(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
}
