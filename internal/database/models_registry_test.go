package database

import (
	"testing"

	modelspkg "campushire/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesAuditLog(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.AuditLog); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include AuditLog")
}
