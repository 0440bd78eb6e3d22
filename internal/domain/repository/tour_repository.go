package repository

import (
	"context"

	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/pkg/query"
)

// TourRepository persists tours. List applies the full query spec
// (filter, sort, projection, pagination) and returns projected rows keyed
// by their public field names.
type TourRepository interface {
	Create(ctx context.Context, t *entity.Tour) error
	GetByID(ctx context.Context, id string) (*entity.Tour, error)
	List(ctx context.Context, spec query.Spec) ([]map[string]any, error)
	Update(ctx context.Context, t *entity.Tour) error
	Delete(ctx context.Context, id string) error
}
