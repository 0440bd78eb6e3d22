package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/tours-api/internal/application"
	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/domain/repository"
	"github.com/wanderly/tours-api/pkg/query"
)

type mockTourRepo struct {
	mock.Mock
}

func (m *mockTourRepo) Create(ctx context.Context, t *entity.Tour) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTourRepo) GetByID(ctx context.Context, id string) (*entity.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Tour), args.Error(1)
}

func (m *mockTourRepo) List(ctx context.Context, spec query.Spec) ([]map[string]any, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *mockTourRepo) Update(ctx context.Context, t *entity.Tour) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTourRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func tourRouter(repo repository.TourRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := application.NewTourService(repo, nil, nil, "", nil)
	h := NewTourHandler(svc)

	r := gin.New()
	r.GET("/tours", h.List)
	r.GET("/tours/top-5-cheap", h.TopCheap)
	r.GET("/tours/:id", h.Get)
	return r
}

func TestTourListShapesQuery(t *testing.T) {
	repo := new(mockTourRepo)
	var got query.Spec
	repo.On("List", mock.Anything, mock.AnythingOfType("query.Spec")).
		Run(func(args mock.Arguments) { got = args.Get(1).(query.Spec) }).
		Return([]map[string]any{{"name": "The Sea Explorer"}}, nil).Once()

	r := tourRouter(repo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours?price[lte]=500&difficulty=medium&sort=-ratingAverage&page=2&limit=10", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, got.Conditions, query.Condition{Field: "price", Op: query.OpLte, Value: "500"})
	assert.Contains(t, got.Conditions, query.Condition{Field: "difficulty", Op: query.OpEq, Value: "medium"})
	assert.Equal(t, []query.SortKey{{Field: "ratingAverage", Desc: true}}, got.Sort)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 10, got.Limit)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.EqualValues(t, 1, body["results"])
}

func TestTourListBadFilter(t *testing.T) {
	repo := new(mockTourRepo)
	r := tourRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours?price[between]=1,2", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "List")
}

func TestTopCheapPresetsQuery(t *testing.T) {
	repo := new(mockTourRepo)
	var got query.Spec
	repo.On("List", mock.Anything, mock.AnythingOfType("query.Spec")).
		Run(func(args mock.Arguments) { got = args.Get(1).(query.Spec) }).
		Return([]map[string]any{}, nil).Once()

	r := tourRouter(repo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours/top-5-cheap", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, got.Limit)
	assert.Equal(t, []query.SortKey{{Field: "price"}, {Field: "ratingAverage", Desc: true}}, got.Sort)
	assert.Equal(t, []string{"name", "price", "ratingAverage", "summary", "difficulty"}, got.Fields)
}

func TestTourGetNotFound(t *testing.T) {
	repo := new(mockTourRepo)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

	r := tourRouter(repo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tours/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "fail", body["status"])
}
