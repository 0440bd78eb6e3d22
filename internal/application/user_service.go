package application

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/domain/repository"
	"github.com/wanderly/tours-api/pkg/helpers"
	"github.com/wanderly/tours-api/pkg/query"
)

// UserService covers profile self-service (me/updateMe/deleteMe, photo
// upload to GCS) and the admin-facing user CRUD.
type UserService struct {
	Repo      repository.UserRepository
	Hasher    helpers.Hasher
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewUserService(repo repository.UserRepository, hasher helpers.Hasher, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Hasher: hasher, GCS: gcs, GCSBucket: gcsBucket, Logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateMeInput struct {
	Name  string
	Email string
}

// UpdateMe mutates profile fields only; password changes go through the
// auth service so the stale-token invariant holds.
func (s *UserService) UpdateMe(ctx context.Context, userID string, in UpdateMeInput) (*entity.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteMe soft-deletes the account; the record stays but disappears from
// every active-scoped query.
func (s *UserService) DeleteMe(ctx context.Context, userID string) error {
	if err := s.Repo.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UploadPhoto stores a profile photo in GCS and saves its public URL.
func (s *UserService) UploadPhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("photos", userID, uuid.NewString()+ext))
	publicURL, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.Photo = publicURL
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	return publicURL, nil
}

// Admin operations.

func (s *UserService) List(ctx context.Context, params url.Values) ([]map[string]any, error) {
	spec, err := query.Parse(params)
	if err != nil {
		return nil, err
	}
	// users have no price; default-sort by name instead
	if len(params.Get("sort")) == 0 {
		spec.Sort = []query.SortKey{{Field: "name"}}
	}
	return s.Repo.List(ctx, spec)
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Password: hash, Role: role}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type AdminUpdateInput struct {
	Name  string
	Email string
	Role  string
}

func (s *UserService) AdminUpdate(ctx context.Context, id string, in AdminUpdateInput) (*entity.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) AdminDelete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
