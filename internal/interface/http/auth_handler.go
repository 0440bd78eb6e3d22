package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderly/tours-api/internal/application"
	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/interface/middleware"
	"github.com/wanderly/tours-api/pkg/helpers"
	"github.com/wanderly/tours-api/pkg/query"
	"github.com/wanderly/tours-api/pkg/response"
	"github.com/wanderly/tours-api/pkg/validation"
)

// AuthHandler exposes the credential lifecycle over HTTP: signup, login,
// forgot/reset password, and authenticated password change.
type AuthHandler struct {
	Auth   *application.AuthService
	Cookie *helpers.CookieManager
}

func NewAuthHandler(auth *application.AuthService, cookie *helpers.CookieManager) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookie: cookie}
}

// statusFor maps application sentinels onto HTTP statuses. Anything
// unmapped is a server fault.
func statusFor(err error) int {
	var badParam *query.BadParamError
	switch {
	case errors.As(err, &badParam):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrIncorrectCredentials),
		errors.Is(err, application.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrEmailTaken),
		errors.Is(err, application.ErrResetTokenInvalid):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrNoUserWithEmail),
		errors.Is(err, application.ErrTourNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error as a fail envelope; unexpected errors are masked
// with a generic message so internals never leak to the client.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, application.ErrEmailDelivery) {
		msg = "something went very wrong"
	}
	response.Fail(c, status, msg)
}

// sendToken writes the session token as both the jwt cookie and the
// response body, alongside the sanitized user.
func (h *AuthHandler) sendToken(c *gin.Context, status int, token string, u *entity.User) {
	h.Cookie.SetSession(c, token)
	response.SuccessWithToken(c, status, token, gin.H{"user": u})
}

type signupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
	Role            string `json:"role" binding:"omitempty,oneof=user guide lead-guide admin"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	u, token, err := h.Auth.Signup(c.Request.Context(), application.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusCreated, token, u)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	u, token, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, token, u)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	if err := h.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "token sent to email")
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	u, token, err := h.Auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, token, u)
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" binding:"required"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	u, token, err := h.Auth.UpdatePassword(c.Request.Context(), userID, req.PasswordCurrent, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, token, u)
}
