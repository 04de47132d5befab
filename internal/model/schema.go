package model

import "strings"

// Schema is the single source of field rules for an entity. Validator tags and
// the services both read from it.
type Schema struct {
	Enum         []string
	FilterKeys   []string
	UpdateKeys   []string
	DefaultValue string
}

var TaskSchema = Schema{
	Enum: []string{
		string(StatusPending),
		string(StatusWorking),
		string(StatusReview),
		string(StatusDone),
		string(StatusArchive),
	},
	FilterKeys:   []string{"name", "status", "createdAt", "updatedAt"},
	UpdateKeys:   []string{"status", "assignee", "removeAssignee"},
	DefaultValue: string(StatusPending),
}

var UserSchema = Schema{
	Enum:         []string{string(RoleManager), string(RoleEmployee)},
	FilterKeys:   []string{"name", "role"},
	UpdateKeys:   []string{"role", "name"},
	DefaultValue: string(RoleEmployee),
}

func (s Schema) InEnum(v string) bool {
	return contains(s.Enum, v)
}

func (s Schema) AllowsFilter(key string) bool {
	return contains(s.FilterKeys, key)
}

func (s Schema) AllowsUpdate(key string) bool {
	return contains(s.UpdateKeys, key)
}

func ValidTaskStatus(v string) bool {
	return TaskSchema.InEnum(v)
}

// ValidRole accepts roles case-insensitively; roles are stored lower-case.
func ValidRole(v string) bool {
	return UserSchema.InEnum(strings.ToLower(v))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
