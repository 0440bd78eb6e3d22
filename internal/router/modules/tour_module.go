package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wanderly/tours-api/internal/container"
	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/domain/repository"
	handlers "github.com/wanderly/tours-api/internal/interface/http"
	"github.com/wanderly/tours-api/internal/interface/middleware"
	"github.com/wanderly/tours-api/pkg/helpers"
)

// TourModule wires the tour resource into routes.
// Reads are public; writes require the admin or lead-guide role.
type TourModule struct {
	Handler *handlers.TourHandler
	Repo    repository.UserRepository
	Tokens  *helpers.TokenIssuer
}

func NewTourModule(h *handlers.TourHandler, repo repository.UserRepository, tokens *helpers.TokenIssuer) *TourModule {
	return &TourModule{Handler: h, Repo: repo, Tokens: tokens}
}

func (m *TourModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath())

	tours := rg.Group("/tours")

	tours.GET("", readLimiter, m.Handler.List)
	tours.GET("/top-5-cheap", readLimiter, m.Handler.TopCheap)
	tours.GET("/search", searchLimiter, m.Handler.Search)
	tours.GET("/:id", readLimiter, m.Handler.Get)

	// Writes restricted to tour managers
	write := tours.Group("")
	write.Use(middleware.Protect(m.Repo, m.Tokens), middleware.RestrictTo(entity.RoleAdmin, entity.RoleLeadGuide))
	{
		write.POST("", m.Handler.Create)
		write.PATCH("/:id", m.Handler.Update)
		write.DELETE("/:id", m.Handler.Delete)
	}
}
