package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanderly/tours-api/internal/application"
	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/pkg/response"
	"github.com/wanderly/tours-api/pkg/validation"
)

// TourHandler serves the tour collection: query-shaped listing, the
// top-5-cheap alias, full-text search, and CRUD.
type TourHandler struct {
	Tours *application.TourService
}

func NewTourHandler(tours *application.TourService) *TourHandler {
	return &TourHandler{Tours: tours}
}

func (h *TourHandler) List(c *gin.Context) {
	tours, err := h.Tours.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, http.StatusOK, len(tours), gin.H{"tours": tours})
}

// TopCheap presets the query before the regular listing runs: five
// results, cheapest first with rating as tiebreak, trimmed projection.
func (h *TourHandler) TopCheap(c *gin.Context) {
	params := c.Request.URL.Query()
	params.Set("limit", "5")
	params.Set("sort", "price,-ratingAverage")
	params.Set("fields", "name,price,ratingAverage,summary,difficulty")

	tours, err := h.Tours.List(c.Request.Context(), params)
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, http.StatusOK, len(tours), gin.H{"tours": tours})
}

func (h *TourHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "query parameter q is required")
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Tours.Search(c.Request.Context(), q, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, http.StatusOK, len(hits), gin.H{"tours": hits})
}

func (h *TourHandler) Get(c *gin.Context) {
	t, err := h.Tours.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": t})
}

type createTourRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	Duration        int     `json:"duration" binding:"required,min=1"`
	MaxGroupSize    int     `json:"maxGroupSize" binding:"required,min=1"`
	Difficulty      string  `json:"difficulty" binding:"required,oneof=easy medium difficult"`
	RatingAverage   float64 `json:"ratingAverage" binding:"omitempty,min=1,max=5"`
	RatingsQuantity int     `json:"ratingsQuantity" binding:"omitempty,min=0"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	Summary         string  `json:"summary" binding:"required"`
	Description     string  `json:"description"`
	ImageCover      string  `json:"imageCover"`
}

func (h *TourHandler) Create(c *gin.Context) {
	var req createTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	t := &entity.Tour{
		Name:            req.Name,
		Duration:        req.Duration,
		MaxGroupSize:    req.MaxGroupSize,
		Difficulty:      req.Difficulty,
		RatingAverage:   req.RatingAverage,
		RatingsQuantity: req.RatingsQuantity,
		Price:           req.Price,
		Summary:         req.Summary,
		Description:     req.Description,
		ImageCover:      req.ImageCover,
	}
	created, err := h.Tours.Create(c.Request.Context(), t)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"tour": created})
}

type updateTourRequest struct {
	Name            *string  `json:"name" binding:"omitempty,max=100"`
	Duration        *int     `json:"duration" binding:"omitempty,min=1"`
	MaxGroupSize    *int     `json:"maxGroupSize" binding:"omitempty,min=1"`
	Difficulty      *string  `json:"difficulty" binding:"omitempty,oneof=easy medium difficult"`
	RatingAverage   *float64 `json:"ratingAverage" binding:"omitempty,min=1,max=5"`
	RatingsQuantity *int     `json:"ratingsQuantity" binding:"omitempty,min=0"`
	Price           *float64 `json:"price" binding:"omitempty,gt=0"`
	Summary         *string  `json:"summary"`
	Description     *string  `json:"description"`
	ImageCover      *string  `json:"imageCover"`
}

func (h *TourHandler) Update(c *gin.Context) {
	var req updateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	t, err := h.Tours.Update(c.Request.Context(), c.Param("id"), application.UpdateTourInput{
		Name:            req.Name,
		Duration:        req.Duration,
		MaxGroupSize:    req.MaxGroupSize,
		Difficulty:      req.Difficulty,
		RatingAverage:   req.RatingAverage,
		RatingsQuantity: req.RatingsQuantity,
		Price:           req.Price,
		Summary:         req.Summary,
		Description:     req.Description,
		ImageCover:      req.ImageCover,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": t})
}

func (h *TourHandler) Delete(c *gin.Context) {
	if err := h.Tours.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
