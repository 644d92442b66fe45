package database

import (
	"testing"

	"github.com/petermazzocco/go-activities/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
}

func TestMigrateSqlite(t *testing.T) {
	db, err := Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Pokemon{}, "idx_pokemon_user_external"))

	user := &models.User{Email: "ash@example.com"}
	require.NoError(t, db.Create(user).Error)
	assert.NotEmpty(t, user.ID)

	dup := &models.User{Email: "ash@example.com"}
	assert.ErrorIs(t, db.Create(dup).Error, gorm.ErrDuplicatedKey)

	// Foreign keys are enforced, so orphans cannot be written.
	orphan := &models.Todo{UserID: "00000000-0000-4000-8000-000000000000", Title: "lost"}
	assert.Error(t, db.Create(orphan).Error)

	todo := &models.Todo{UserID: user.ID, Title: "kept"}
	require.NoError(t, db.Create(todo).Error)
	assert.Equal(t, models.PriorityMedium, todo.Priority)
}
