package mongodb

import (
	"time"

	"taskboard/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type taskDocument struct {
	ID          primitive.ObjectID  `bson:"_id"`
	Name        string              `bson:"name"`
	Description string              `bson:"description"`
	Status      string              `bson:"status"`
	Assignee    *primitive.ObjectID `bson:"assignee"`
	IsDeleted   bool                `bson:"is_deleted"`
	CreatedAt   time.Time           `bson:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt"`
}

type userDocument struct {
	ID        primitive.ObjectID   `bson:"_id"`
	Name      string               `bson:"name"`
	Role      string               `bson:"role"`
	Tasks     []primitive.ObjectID `bson:"tasks"`
	IsDeleted bool                 `bson:"is_deleted"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func newTaskDocument(t *model.Task) (taskDocument, error) {
	doc := taskDocument{
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		IsDeleted:   t.IsDeleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.ID != "" {
		id, err := primitive.ObjectIDFromHex(t.ID)
		if err != nil {
			return taskDocument{}, err
		}
		doc.ID = id
	}
	if t.Assignee != nil {
		assignee, err := primitive.ObjectIDFromHex(*t.Assignee)
		if err != nil {
			return taskDocument{}, err
		}
		doc.Assignee = &assignee
	}
	return doc, nil
}

func (d taskDocument) toModel() model.Task {
	t := model.Task{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Status:      model.TaskStatus(d.Status),
		IsDeleted:   d.IsDeleted,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.Assignee != nil {
		assignee := d.Assignee.Hex()
		t.Assignee = &assignee
	}
	return t
}

func newUserDocument(u *model.User) (userDocument, error) {
	doc := userDocument{
		Name:      u.Name,
		Role:      string(u.Role),
		Tasks:     objectIDs(u.Tasks),
		IsDeleted: u.IsDeleted,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.ID != "" {
		id, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return userDocument{}, err
		}
		doc.ID = id
	}
	return doc, nil
}

func (d userDocument) toModel() model.User {
	tasks := make([]string, len(d.Tasks))
	for i, id := range d.Tasks {
		tasks[i] = id.Hex()
	}
	return model.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Role:      model.Role(d.Role),
		Tasks:     tasks,
		IsDeleted: d.IsDeleted,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// objectIDs converts hex ids, skipping any that are malformed.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		out = append(out, oid)
	}
	return out
}

// now matches the millisecond precision BSON dates are stored with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
