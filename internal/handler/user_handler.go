package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	"github.com/noah-isme/minicanvas-api/internal/models"
	"github.com/noah-isme/minicanvas-api/pkg/response"
)

type userService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	FindUsers(ctx context.Context, ids []int) []models.User
	FindUser(ctx context.Context, id int) (*models.User, error)
	Users(ctx context.Context) []models.User
}

// UserHandler exposes user endpoints.
type UserHandler struct {
	service userService
}

// NewUserHandler builds a new handler.
func NewUserHandler(service userService) *UserHandler {
	return &UserHandler{service: service}
}

// Create godoc
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.CreateUserRequest true "User payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid user payload"))
		return
	}
	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// List godoc
// @Summary List users
// @Description With ids, returns the known subset in creation order.
// @Tags Users
// @Produce json
// @Param ids query string false "Comma separated user ids"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	raw, filtered := c.GetQuery("ids")
	if !filtered {
		users := h.service.Users(c.Request.Context())
		response.JSON(c, http.StatusOK, users, map[string]interface{}{"total": len(users)})
		return
	}
	ids, err := parseIDList(raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	users := h.service.FindUsers(c.Request.Context(), ids)
	response.JSON(c, http.StatusOK, users, map[string]interface{}{"total": len(users)})
}

// Get godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param user path int true "User id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{user} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := intParam(c, "user")
	if err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.service.FindUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}
