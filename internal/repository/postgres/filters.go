package postgres

import (
	"strings"

	"taskboard/internal/repository"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func applyTaskFilter(db *gorm.DB, f repository.TaskFilter) *gorm.DB {
	db = db.Where("is_deleted = ?", false)
	if f.Name != "" {
		db = db.Where("name ILIKE ?", containsPattern(f.Name))
	}
	if f.Status != "" {
		db = db.Where("status ILIKE ?", containsPattern(f.Status))
	}
	if f.CreatedAt != nil {
		db = db.Where("created_at >= ? AND created_at < ?", f.CreatedAt.From, f.CreatedAt.To)
	}
	if f.UpdatedAt != nil {
		db = db.Where("updated_at >= ? AND updated_at < ?", f.UpdatedAt.From, f.UpdatedAt.To)
	}
	return db
}

func applyUserFilter(db *gorm.DB, f repository.UserFilter) *gorm.DB {
	db = db.Where("is_deleted = ?", false)
	if f.Name != "" {
		db = db.Where("name ILIKE ?", containsPattern(f.Name))
	}
	if f.Role != "" {
		db = db.Where("role ILIKE ?", containsPattern(f.Role))
	}
	return db
}
