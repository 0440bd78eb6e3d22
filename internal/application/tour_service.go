package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/domain/repository"
	"github.com/wanderly/tours-api/pkg/helpers"
	"github.com/wanderly/tours-api/pkg/query"
)

var ErrTourNotFound = errors.New("tour not found")

const tourCacheTTL = 5 * time.Minute

func tourCacheKey(id string) string { return "tour:" + id }

// TourService handles tour CRUD, the query-shaped list endpoint, and
// full-text search. Redis caches single-tour reads; Elasticsearch indexes
// tours on create/update for the search endpoint. Both are best-effort:
// Postgres stays the source of truth.
type TourService struct {
	Repo         repository.TourRepository
	Redis        *redis.Client
	ES           *elasticsearch.Client
	ESToursIndex string
	Logger       *logrus.Logger
}

func NewTourService(repo repository.TourRepository, rdb *redis.Client, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *TourService {
	return &TourService{Repo: repo, Redis: rdb, ES: es, ESToursIndex: esIndex, Logger: logger}
}

// List parses the raw query parameters into a spec and hands it to the
// repository. Parse/compile failures are client-input errors.
func (s *TourService) List(ctx context.Context, params url.Values) ([]map[string]any, error) {
	spec, err := query.Parse(params)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, spec)
}

func (s *TourService) Create(ctx context.Context, t *entity.Tour) (*entity.Tour, error) {
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.indexTour(ctx, t)
	return t, nil
}

func (s *TourService) Get(ctx context.Context, id string) (*entity.Tour, error) {
	if s.Redis != nil {
		var cached entity.Tour
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, tourCacheKey(id), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, tourCacheKey(id), t, tourCacheTTL); err != nil {
			s.Logger.WithError(err).WithField("tour_id", id).Warn("tour cache write failed")
		}
	}
	return t, nil
}

type UpdateTourInput struct {
	Name            *string
	Duration        *int
	MaxGroupSize    *int
	Difficulty      *string
	RatingAverage   *float64
	RatingsQuantity *int
	Price           *float64
	Summary         *string
	Description     *string
	ImageCover      *string
}

func (s *TourService) Update(ctx context.Context, id string, in UpdateTourInput) (*entity.Tour, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Duration != nil {
		t.Duration = *in.Duration
	}
	if in.MaxGroupSize != nil {
		t.MaxGroupSize = *in.MaxGroupSize
	}
	if in.Difficulty != nil {
		t.Difficulty = *in.Difficulty
	}
	if in.RatingAverage != nil {
		t.RatingAverage = *in.RatingAverage
	}
	if in.RatingsQuantity != nil {
		t.RatingsQuantity = *in.RatingsQuantity
	}
	if in.Price != nil {
		t.Price = *in.Price
	}
	if in.Summary != nil {
		t.Summary = *in.Summary
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.ImageCover != nil {
		t.ImageCover = *in.ImageCover
	}
	if err := s.Repo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	s.invalidate(ctx, id)
	s.indexTour(ctx, t)
	return t, nil
}

func (s *TourService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTourNotFound
		}
		return err
	}
	s.invalidate(ctx, id)
	s.deleteFromIndex(ctx, id)
	return nil
}

func (s *TourService) invalidate(ctx context.Context, id string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, tourCacheKey(id)); err != nil {
		s.Logger.WithError(err).WithField("tour_id", id).Warn("tour cache invalidation failed")
	}
}

func (s *TourService) indexTour(ctx context.Context, t *entity.Tour) {
	if s.ES == nil || s.ESToursIndex == "" {
		return
	}
	doc := map[string]any{
		"id":            t.ID,
		"name":          t.Name,
		"difficulty":    t.Difficulty,
		"price":         t.Price,
		"ratingAverage": t.RatingAverage,
		"summary":       t.Summary,
		"description":   t.Description,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESToursIndex, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("tour_id", t.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("tour_id", t.ID).Warn("es index response error")
	}
}

func (s *TourService) deleteFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESToursIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESToursIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("tour_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over name, summary, and description.
func (s *TourService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESToursIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "summary", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESToursIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
