package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/domain/repository"
	"github.com/wanderly/tours-api/pkg/helpers"
	"github.com/wanderly/tours-api/pkg/query"
)

type stubUserRepo struct {
	mock.Mock
}

func (m *stubUserRepo) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *stubUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *stubUserRepo) GetByResetTokenHash(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	args := m.Called(ctx, digest, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *stubUserRepo) List(ctx context.Context, spec query.Spec) ([]map[string]any, error) {
	args := m.Called(ctx, spec)
	return nil, args.Error(1)
}

func (m *stubUserRepo) Update(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *stubUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *stubUserRepo) SetResetToken(ctx context.Context, id, digest string, expires time.Time) error {
	return m.Called(ctx, id, digest, expires).Error(0)
}

func (m *stubUserRepo) ClearResetToken(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *stubUserRepo) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *stubUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func protectedRouter(repo repository.UserRepository, issuer *helpers.TokenIssuer, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Protect(repo, issuer)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).ID})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtectMissingToken(t *testing.T) {
	repo := new(stubUserRepo)
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour)
	r := protectedRouter(repo, issuer)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "fail", body["status"])
}

func TestProtectInvalidToken(t *testing.T) {
	repo := new(stubUserRepo)
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour)
	r := protectedRouter(repo, issuer)

	w := doRequest(r, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectExpiredToken(t *testing.T) {
	repo := new(stubUserRepo)
	expired := helpers.NewTokenIssuer("test-secret", -time.Minute)
	tok, _, err := expired.Issue("user-1")
	require.NoError(t, err)

	r := protectedRouter(repo, helpers.NewTokenIssuer("test-secret", time.Hour))
	w := doRequest(r, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectUserGone(t *testing.T) {
	repo := new(stubUserRepo)
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour)
	tok, _, err := issuer.Issue("user-1")
	require.NoError(t, err)
	repo.On("GetByID", mock.Anything, "user-1").Return(nil, repository.ErrNotFound).Once()

	r := protectedRouter(repo, issuer)
	w := doRequest(r, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	repo.AssertExpectations(t)
}

func TestProtectStaleTokenAfterPasswordChange(t *testing.T) {
	repo := new(stubUserRepo)
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour)
	tok, _, err := issuer.Issue("user-1")
	require.NoError(t, err)

	// password changed well after issuance; token expiry has not elapsed
	user := &entity.User{ID: "user-1", Role: entity.RoleUser, PasswordChangedAt: time.Now().Add(10 * time.Second)}
	repo.On("GetByID", mock.Anything, "user-1").Return(user, nil).Once()

	r := protectedRouter(repo, issuer)
	w := doRequest(r, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectGrantsAccess(t *testing.T) {
	repo := new(stubUserRepo)
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour)
	tok, _, err := issuer.Issue("user-1")
	require.NoError(t, err)

	user := &entity.User{ID: "user-1", Role: entity.RoleUser}
	repo.On("GetByID", mock.Anything, "user-1").Return(user, nil).Once()

	r := protectedRouter(repo, issuer)
	w := doRequest(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestRestrictTo(t *testing.T) {
	issuer := helpers.NewTokenIssuer("test-secret", time.Hour)

	t.Run("RoleAllowed", func(t *testing.T) {
		repo := new(stubUserRepo)
		tok, _, err := issuer.Issue("admin-1")
		require.NoError(t, err)
		repo.On("GetByID", mock.Anything, "admin-1").Return(&entity.User{ID: "admin-1", Role: entity.RoleAdmin}, nil).Once()

		r := protectedRouter(repo, issuer, RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide))
		w := doRequest(r, "Bearer "+tok)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("RoleForbidden", func(t *testing.T) {
		repo := new(stubUserRepo)
		tok, _, err := issuer.Issue("user-1")
		require.NoError(t, err)
		repo.On("GetByID", mock.Anything, "user-1").Return(&entity.User{ID: "user-1", Role: entity.RoleUser}, nil).Once()

		r := protectedRouter(repo, issuer, RestrictTo(entity.RoleAdmin))
		w := doRequest(r, "Bearer "+tok)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
