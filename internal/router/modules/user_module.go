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

// UserModule wires the auth flows and user resource into routes.
// Public: signup, login, forgotPassword, resetPassword/:token
// Protected: updateMyPassword, me, updateMe, deleteMe, me/photo
// Admin: the /users CRUD
type UserModule struct {
	Auth   *handlers.AuthHandler
	Users  *handlers.UserHandler
	Repo   repository.UserRepository
	Tokens *helpers.TokenIssuer
}

func NewUserModule(auth *handlers.AuthHandler, users *handlers.UserHandler, repo repository.UserRepository, tokens *helpers.TokenIssuer) *UserModule {
	return &UserModule{Auth: auth, Users: users, Repo: repo, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath())

	users := rg.Group("/users")

	users.POST("/signup", signupLimiter, m.Auth.Signup)
	users.POST("/login", loginLimiter, m.Auth.Login)
	users.POST("/forgotPassword", forgotLimiter, m.Auth.ForgotPassword)
	users.PATCH("/resetPassword/:token", resetLimiter, m.Auth.ResetPassword)

	// Protected
	auth := users.Group("/")
	auth.Use(middleware.Protect(m.Repo, m.Tokens))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.PATCH("/updateMyPassword", m.Auth.UpdatePassword)
		auth.GET("/me", m.Users.Me)
		auth.PATCH("/updateMe", m.Users.UpdateMe)
		auth.DELETE("/deleteMe", m.Users.DeleteMe)
		auth.POST("/me/photo", m.Users.UploadPhoto)
	}

	// Admin-only user management
	admin := users.Group("")
	admin.Use(middleware.Protect(m.Repo, m.Tokens), middleware.RestrictTo(entity.RoleAdmin))
	{
		admin.GET("", m.Users.List)
		admin.POST("", m.Users.Create)
		admin.GET("/:id", m.Users.Get)
		admin.PATCH("/:id", m.Users.Update)
		admin.DELETE("/:id", m.Users.Delete)
	}
}
