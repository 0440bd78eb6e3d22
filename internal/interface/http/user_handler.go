package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderly/tours-api/internal/application"
	"github.com/wanderly/tours-api/internal/interface/middleware"
	"github.com/wanderly/tours-api/pkg/response"
	"github.com/wanderly/tours-api/pkg/validation"
)

const maxPhotoSize = 5 << 20 // 5 MiB

// UserHandler serves profile self-service and the admin user CRUD.
type UserHandler struct {
	Users *application.UserService
}

func NewUserHandler(users *application.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

type updateMeRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	userID := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Users.UpdateMe(c.Request.Context(), userID, application.UpdateMeInput{Name: req.Name, Email: req.Email})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if err := h.Users.DeleteMe(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto accepts a multipart form with a "photo" file field and stores
// it in the configured bucket.
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "photo file is required")
		return
	}
	if file.Size > maxPhotoSize {
		response.Fail(c, http.StatusBadRequest, "photo must be smaller than 5 MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer func() { _ = src.Close() }()

	userID := c.GetString(middleware.CtxUserIDKey)
	url, err := h.Users.UploadPhoto(c.Request.Context(), userID, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"photo": url})
}

// Admin endpoints.

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, http.StatusOK, len(users), gin.H{"users": users})
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,oneof=user guide lead-guide admin"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	u, err := h.Users.Create(c.Request.Context(), application.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u})
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

type adminUpdateUserRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
	Role  string `json:"role" binding:"omitempty,oneof=user guide lead-guide admin"`
}

func (h *UserHandler) Update(c *gin.Context) {
	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}

	u, err := h.Users.AdminUpdate(c.Request.Context(), c.Param("id"), application.AdminUpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Users.AdminDelete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
