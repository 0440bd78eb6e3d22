package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/domain/repository"
	"github.com/wanderly/tours-api/pkg/query"
)

// tourFields is the public surface of the tours table. row_version stays
// internal: it is never projectable, so the default projection is "all
// fields except the version column" for free.
var tourFields = fieldMap{
	id: "id",
	exprs: map[string]string{
		"id":              "id::text",
		"name":            "name",
		"duration":        "duration",
		"maxGroupSize":    "max_group_size",
		"difficulty":      "difficulty",
		"ratingAverage":   "rating_average::float8",
		"ratingsQuantity": "ratings_quantity",
		"price":           "price::float8",
		"summary":         "summary",
		"description":     "description",
		"imageCover":      "image_cover",
		"createdAt":       "created_at",
		"updatedAt":       "updated_at",
	},
	defaults: []string{
		"name", "duration", "maxGroupSize", "difficulty", "ratingAverage",
		"ratingsQuantity", "price", "summary", "description", "imageCover",
		"createdAt", "updatedAt",
	},
}

type TourRepository struct {
	pool *pgxpool.Pool
}

func NewTourRepository(pool *pgxpool.Pool) *TourRepository {
	return &TourRepository{pool: pool}
}

func (r *TourRepository) Create(ctx context.Context, t *entity.Tour) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tours (name, duration, max_group_size, difficulty, rating_average, ratings_quantity, price, summary, description, image_cover)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, t.Name, t.Duration, t.MaxGroupSize, t.Difficulty, t.RatingAverage, t.RatingsQuantity, t.Price, t.Summary, t.Description, t.ImageCover)

	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TourRepository) GetByID(ctx context.Context, id string) (*entity.Tour, error) {
	t := &entity.Tour{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, duration, max_group_size, difficulty, rating_average::float8, ratings_quantity, price::float8, summary, description, image_cover, created_at, updated_at
		FROM tours
		WHERE id = $1
	`, id)

	if err := row.Scan(&t.ID, &t.Name, &t.Duration, &t.MaxGroupSize, &t.Difficulty, &t.RatingAverage,
		&t.RatingsQuantity, &t.Price, &t.Summary, &t.Description, &t.ImageCover, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// List compiles the query spec into a single SELECT and returns rows keyed
// by their public field names, ready for serialization.
func (r *TourRepository) List(ctx context.Context, spec query.Spec) ([]map[string]any, error) {
	sql, args, err := buildList("tours", tourFields, spec)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out, nil
}

func (r *TourRepository) Update(ctx context.Context, t *entity.Tour) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE tours
		SET name = $1, duration = $2, max_group_size = $3, difficulty = $4, rating_average = $5,
		    ratings_quantity = $6, price = $7, summary = $8, description = $9, image_cover = $10,
		    row_version = row_version + 1, updated_at = now()
		WHERE id = $11
	`, t.Name, t.Duration, t.MaxGroupSize, t.Difficulty, t.RatingAverage,
		t.RatingsQuantity, t.Price, t.Summary, t.Description, t.ImageCover, t.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TourRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TourRepository = (*TourRepository)(nil)
