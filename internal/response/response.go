// Package response renders every API reply, success or failure, with a single
// JSON envelope. Empty fields are left out of the body.
package response

import (
	"net/http"
	"time"

	"taskboard/internal/apperror"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Envelope is the one wire shape of the API.
type Envelope struct {
	Total       int64       `json:"total,omitempty"`
	PageSize    int         `json:"page_size,omitempty"`
	PageNumber  int         `json:"page_number,omitempty"`
	Items       any         `json:"items,omitempty"`
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name,omitempty"`
	Role        string      `json:"role,omitempty"`
	Description string      `json:"description,omitempty"`
	Status      string      `json:"status,omitempty"`
	Assignee    *Assignee   `json:"assignee,omitempty"`
	Tasks       []TaskBrief `json:"tasks,omitempty"`
	IsDeleted   *bool       `json:"is_deleted,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	Errors      *ErrorBody  `json:"errors,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// Assignee is the resolved assignee of a task. The zero value renders as {}.
type Assignee struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

type TaskBrief struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type ErrorBody struct {
	Message string `json:"message"`
}

// TaskItem is one entry of a task listing.
type TaskItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Assignee    *Assignee `json:"assignee,omitempty"`
	IsDeleted   bool      `json:"is_deleted"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserItem is one entry of a user listing.
type UserItem struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Role      string      `json:"role"`
	Tasks     []TaskBrief `json:"tasks"`
	IsDeleted bool        `json:"is_deleted"`
	UpdatedAt time.Time   `json:"updated_at"`
	CreatedAt time.Time   `json:"created_at"`
}

// Send writes env with the given status.
func Send(c *gin.Context, status int, env Envelope) {
	c.JSON(status, env)
}

// Error writes err as an error envelope. Anything other than an AppError is
// reported as a generic 500.
func Error(c *gin.Context, err error) {
	status, env := ErrorEnvelope(err)
	c.AbortWithStatusJSON(status, env)
}

func ErrorEnvelope(err error) (int, Envelope) {
	if appErr, ok := apperror.As(err); ok {
		return appErr.StatusCode, Envelope{
			Errors:  &ErrorBody{Message: appErr.Message},
			Message: appErr.ErrorType,
		}
	}
	return http.StatusInternalServerError, Envelope{
		Errors:  &ErrorBody{Message: apperror.TypeInternal},
		Message: apperror.TypeInternal,
	}
}

// Task renders a single task. When emptyAssignee is set an unassigned task
// carries "assignee": {} instead of omitting the field.
func Task(v *service.TaskView, emptyAssignee bool) Envelope {
	t := v.Task
	env := Envelope{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		Assignee:    assignee(v.Assignee),
		IsDeleted:   boolPtr(t.IsDeleted),
		UpdatedAt:   timePtr(t.UpdatedAt),
		CreatedAt:   timePtr(t.CreatedAt),
	}
	if env.Assignee == nil && emptyAssignee {
		env.Assignee = &Assignee{}
	}
	return env
}

func TaskPage(p *service.Page[service.TaskView]) Envelope {
	items := make([]TaskItem, len(p.Items))
	for i, v := range p.Items {
		items[i] = TaskItem{
			ID:          v.Task.ID,
			Name:        v.Task.Name,
			Description: v.Task.Description,
			Status:      string(v.Task.Status),
			Assignee:    assignee(v.Assignee),
			IsDeleted:   v.Task.IsDeleted,
			UpdatedAt:   v.Task.UpdatedAt,
			CreatedAt:   v.Task.CreatedAt,
		}
	}
	return Envelope{Total: p.Total, PageSize: p.PageSize, PageNumber: p.PageNumber, Items: items}
}

func User(v *service.UserView) Envelope {
	u := v.User
	return Envelope{
		ID:        u.ID,
		Name:      u.Name,
		Role:      string(u.Role),
		Tasks:     briefs(v.Tasks),
		IsDeleted: boolPtr(u.IsDeleted),
		UpdatedAt: timePtr(u.UpdatedAt),
		CreatedAt: timePtr(u.CreatedAt),
	}
}

func UserPage(p *service.Page[service.UserView]) Envelope {
	items := make([]UserItem, len(p.Items))
	for i, v := range p.Items {
		items[i] = UserItem{
			ID:        v.User.ID,
			Name:      v.User.Name,
			Role:      string(v.User.Role),
			Tasks:     briefs(v.Tasks),
			IsDeleted: v.User.IsDeleted,
			UpdatedAt: v.User.UpdatedAt,
			CreatedAt: v.User.CreatedAt,
		}
	}
	return Envelope{Total: p.Total, PageSize: p.PageSize, PageNumber: p.PageNumber, Items: items}
}

func assignee(s *service.AssigneeSummary) *Assignee {
	if s == nil {
		return nil
	}
	return &Assignee{ID: s.ID, Name: s.Name, Role: string(s.Role)}
}

func briefs(tasks []service.TaskSummary) []TaskBrief {
	out := make([]TaskBrief, len(tasks))
	for i, t := range tasks {
		out[i] = TaskBrief{ID: t.ID, Name: t.Name, Description: t.Description, Status: string(t.Status)}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
