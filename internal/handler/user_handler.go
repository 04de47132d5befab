package handler

import (
	"context"
	"net/http"

	"taskboard/internal/response"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type UserService interface {
	Create(ctx context.Context, in service.CreateUserInput) (*service.UserView, error)
	List(ctx context.Context, q service.ListQuery) (*service.Page[service.UserView], error)
	GetByID(ctx context.Context, id string) (*service.UserView, error)
	Edit(ctx context.Context, id string, payload service.Payload) (*service.UserView, error)
	Delete(ctx context.Context, id string) (*service.UserView, error)
}

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

type CreateUserRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"omitempty,userrole"`
}

type EditUserRequest struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// Create godoc
// @Summary      Create a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user  body      CreateUserRequest  true  "User"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Router       /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.users.Create(c.Request.Context(), service.CreateUserInput{Name: req.Name, Role: req.Role})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.User(view))
}

// List godoc
// @Summary      List users
// @Description  name and role are literal case-insensitive substring matches; regular expression syntax is not interpreted.
// @Description  limit is at most 100.
// @Tags         Users
// @Produce      json
// @Param        name   query     string  false  "Name contains"
// @Param        role   query     string  false  "Role contains"
// @Param        page   query     int     false  "Page number"  default(1)
// @Param        limit  query     int     false  "Page size"    default(10) maximum(100)
// @Success      200    {object}  response.Envelope{items=[]response.UserItem}
// @Failure      400    {object}  response.Envelope
// @Failure      404    {object}  response.Envelope
// @Router       /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	q, err := listQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := h.users.List(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.UserPage(page))
}

// GetByID godoc
// @Summary      Get a user with their tasks
// @Tags         Users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	view, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.User(view))
}

// Edit godoc
// @Summary      Edit name or role of a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "User ID"
// @Param        user  body      EditUserRequest  true  "Changes"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /api/users/{id} [put]
func (h *UserHandler) Edit(c *gin.Context) {
	var payload service.Payload
	if err := bindJSON(c, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.users.Edit(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.User(view))
}

// Delete godoc
// @Summary      Soft-delete a user
// @Tags         Users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	view, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.User(view))
}
