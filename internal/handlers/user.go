package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/earn-your-wings-api/internal/errors"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/services"
	"github.com/yukikurage/earn-your-wings-api/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser registers a user on first contact. Repeating the call with the
// same email or id returns the existing record with 200 instead of 201.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		ID    string `json:"id"`
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name" binding:"required"`
		Role  string `json:"role"`
		Level string `json:"level"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, created, err := h.userService.GetOrCreate(services.CreateUserInput{
		ID:    req.ID,
		Email: req.Email,
		Name:  req.Name,
		Role:  models.ParseRole(req.Role),
		Level: req.Level,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// ListUsers returns users with pagination
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

// GetUser returns a user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
