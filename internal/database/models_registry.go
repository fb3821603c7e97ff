package database

import "campushire/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Experience{},
		&models.Bookmark{},
		&models.Admin{},
		&models.AuditLog{},
	}
}
