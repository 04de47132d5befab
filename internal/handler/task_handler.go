package handler

import (
	"context"
	"net/http"

	"taskboard/internal/response"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskService is the task workflow the handler drives.
type TaskService interface {
	Create(ctx context.Context, in service.CreateTaskInput) (*service.TaskView, error)
	List(ctx context.Context, q service.ListQuery) (*service.Page[service.TaskView], error)
	GetByID(ctx context.Context, id string) (*service.TaskView, error)
	Update(ctx context.Context, id string, payload service.Payload) (*service.TaskView, error)
	Delete(ctx context.Context, id string) (*service.TaskView, error)
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Status      string `json:"status" binding:"omitempty,taskstatus"`
	Assignee    string `json:"assignee"`
}

// UpdateTaskRequest documents the body of PUT /api/tasks/{id}. removeAssignee
// takes "yes" or true.
type UpdateTaskRequest struct {
	Status         string `json:"status,omitempty"`
	Assignee       string `json:"assignee,omitempty"`
	RemoveAssignee string `json:"removeAssignee,omitempty"`
}

// Create godoc
// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        task  body      CreateTaskRequest  true  "Task"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.tasks.Create(c.Request.Context(), service.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Assignee:    req.Assignee,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.Task(view, false))
}

// List godoc
// @Summary      List tasks
// @Description  name and status are literal case-insensitive substring matches; regular expression syntax is not interpreted.
// @Description  createdAt and updatedAt take YYYY-MM-DD or RFC3339. limit is at most 100.
// @Tags         Tasks
// @Produce      json
// @Param        name       query     string  false  "Name contains"
// @Param        status     query     string  false  "Status contains"
// @Param        createdAt  query     string  false  "Created on"
// @Param        updatedAt  query     string  false  "Updated on"
// @Param        page       query     int     false  "Page number"  default(1)
// @Param        limit      query     int     false  "Page size"    default(10) maximum(100)
// @Success      200        {object}  response.Envelope{items=[]response.TaskItem}
// @Failure      400        {object}  response.Envelope
// @Failure      404        {object}  response.Envelope
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	q, err := listQuery(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := h.tasks.List(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.TaskPage(page))
}

// GetByID godoc
// @Summary      Get a task
// @Tags         Tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	view, err := h.tasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.Task(view, false))
}

// Update godoc
// @Summary      Update status or assignment of a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Task ID"
// @Param        task  body      UpdateTaskRequest  true  "Changes"
// @Success      200   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	var payload service.Payload
	if err := bindJSON(c, &payload); err != nil {
		_ = c.Error(err)
		return
	}

	view, err := h.tasks.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.Task(view, true))
}

// Delete godoc
// @Summary      Soft-delete a task
// @Tags         Tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	view, err := h.tasks.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Send(c, http.StatusOK, response.Task(view, false))
}
