package router

import (
	"github.com/wanderly/tours-api/internal/application"
	"github.com/wanderly/tours-api/internal/container"
	"github.com/wanderly/tours-api/internal/domain/repository"
	pginfra "github.com/wanderly/tours-api/internal/infrastructure/postgres"
	handlers "github.com/wanderly/tours-api/internal/interface/http"
	"github.com/wanderly/tours-api/internal/router/modules"
	"github.com/wanderly/tours-api/pkg/helpers"
)

type UserModuleDeps struct {
	Repo        repository.UserRepository
	AuthService *application.AuthService
	UserService *application.UserService
	AuthHandler *handlers.AuthHandler
	UserHandler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())
	hasher := helpers.NewBcryptHasher()

	notifier := application.NewQueueNotifier(
		container.GetRabbitPub(),
		container.GetLogger(),
		cfg.MailSendEnabled,
	)

	authService := application.NewAuthService(
		repo,
		container.GetTokens(),
		hasher,
		notifier,
		container.GetLogger(),
		cfg.ResetTokenTTL,
		cfg.ResetPasswordURL,
	)

	userService := application.NewUserService(
		repo,
		hasher,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetLogger(),
	)

	cookie := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.CookieTTL)

	return UserModuleDeps{
		Repo:        repo,
		AuthService: authService,
		UserService: userService,
		AuthHandler: handlers.NewAuthHandler(authService, cookie),
		UserHandler: handlers.NewUserHandler(userService),
	}
}

type TourModuleDeps struct {
	Repo    repository.TourRepository
	Service *application.TourService
	Handler *handlers.TourHandler
}

func buildTourDeps() TourModuleDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewTourRepository(container.GetPGPool())

	service := application.NewTourService(
		repo,
		container.GetRedis(),
		container.GetES(),
		cfg.ESToursIndex,
		container.GetLogger(),
	)

	return TourModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handlers.NewTourHandler(service),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	tourDeps := buildTourDeps()

	r.Add(modules.NewUserModule(userDeps.AuthHandler, userDeps.UserHandler, userDeps.Repo, container.GetTokens()))
	r.Add(modules.NewTourModule(tourDeps.Handler, userDeps.Repo, container.GetTokens()))
}
