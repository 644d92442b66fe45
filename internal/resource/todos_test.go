package resource

import (
	"context"
	"strings"
	"testing"

	"github.com/petermazzocco/go-activities/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodosScenario(t *testing.T) {
	db := newTestDB(t)
	views := &recorder{}
	todos := NewTodos(db, views)
	ctx := context.Background()

	u1 := newUser(t, db, "u1@example.com")
	u2 := newUser(t, db, "u2@example.com")

	created, err := todos.Create(ctx, u1, TodoInput{Title: "Buy milk", Priority: "LOW"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityLow, created.Priority)
	assert.False(t, created.Completed)

	list, err := todos.List(ctx, u1, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Buy milk", list[0].Title)
	assert.False(t, list[0].Completed)

	list, err = todos.List(ctx, u2, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Equal(t, []string{PathTodo}, views.paths(u1))
	assert.Empty(t, views.paths(u2))
}

func TestTodosCreateValidation(t *testing.T) {
	db := newTestDB(t)
	todos := NewTodos(db, NopInvalidator{})
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")

	_, err := todos.Create(ctx, u, TodoInput{Title: "   "})
	assert.Equal(t, "Title is required", fieldMessage(t, err, "title"))

	_, err = todos.Create(ctx, u, TodoInput{Title: strings.Repeat("é", maxTitleLength+1)})
	assert.Equal(t, "Title is too long", fieldMessage(t, err, "title"))

	_, err = todos.Create(ctx, u, TodoInput{Title: strings.Repeat("é", maxTitleLength)})
	require.NoError(t, err)

	_, err = todos.Create(ctx, u, TodoInput{Title: "ok", Priority: "URGENT"})
	assert.Equal(t, "Priority must be LOW, MEDIUM or HIGH", fieldMessage(t, err, "priority"))

	todo, err := todos.Create(ctx, u, TodoInput{Title: "  padded  "})
	require.NoError(t, err)
	assert.Equal(t, "padded", todo.Title)
	assert.Equal(t, models.PriorityMedium, todo.Priority)

	var n int64
	require.NoError(t, db.Model(&models.Todo{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestTodosRequireUser(t *testing.T) {
	todos := NewTodos(newTestDB(t), NopInvalidator{})
	ctx := context.Background()

	_, err := todos.List(ctx, "", "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = todos.Create(ctx, "", TodoInput{Title: "x"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = todos.Toggle(ctx, "", missingID)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, todos.Delete(ctx, "", missingID), ErrNotAuthenticated)
}

func TestTodosOwnershipIsolation(t *testing.T) {
	db := newTestDB(t)
	todos := NewTodos(db, NopInvalidator{})
	ctx := context.Background()
	owner := newUser(t, db, "owner@example.com")
	other := newUser(t, db, "other@example.com")

	todo, err := todos.Create(ctx, owner, TodoInput{Title: "Secret"})
	require.NoError(t, err)

	_, err = todos.Get(ctx, other, todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	title := "Hijacked"
	_, err = todos.Update(ctx, other, todo.ID, TodoPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = todos.Toggle(ctx, other, todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, todos.Delete(ctx, other, todo.ID), ErrNotFound)

	got, err := todos.Get(ctx, owner, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret", got.Title)
}

func TestTodosInvalidID(t *testing.T) {
	db := newTestDB(t)
	todos := NewTodos(db, NopInvalidator{})
	u := newUser(t, db, "u@example.com")

	_, err := todos.Get(context.Background(), u, "not-a-uuid")
	assert.Equal(t, "Invalid todo ID", fieldMessage(t, err, "id"))
}

func TestTodosToggleTwiceRestores(t *testing.T) {
	db := newTestDB(t)
	todos := NewTodos(db, NopInvalidator{})
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")

	todo, err := todos.Create(ctx, u, TodoInput{Title: "Walk dog"})
	require.NoError(t, err)

	once, err := todos.Toggle(ctx, u, todo.ID)
	require.NoError(t, err)
	assert.True(t, once.Completed)

	twice, err := todos.Toggle(ctx, u, todo.ID)
	require.NoError(t, err)
	assert.False(t, twice.Completed)
	assert.True(t, twice.UpdatedAt.After(todo.UpdatedAt))
}

func TestTodosUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	views := &recorder{}
	todos := NewTodos(db, views)
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")

	todo, err := todos.Create(ctx, u, TodoInput{Title: "Read", Priority: "HIGH"})
	require.NoError(t, err)

	done := true
	updated, err := todos.Update(ctx, u, todo.ID, TodoPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Read", updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)

	blank := ""
	_, err = todos.Update(ctx, u, todo.ID, TodoPatch{Title: &blank})
	assert.Equal(t, "Title is required", fieldMessage(t, err, "title"))

	got, err := todos.Get(ctx, u, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read", got.Title)
}

func TestTodosListOrderAndSearch(t *testing.T) {
	db := newTestDB(t)
	todos := NewTodos(db, NopInvalidator{})
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")

	for _, title := range []string{"Buy milk", "Call mom", "buy bread"} {
		_, err := todos.Create(ctx, u, TodoInput{Title: title})
		require.NoError(t, err)
	}

	all, err := todos.List(ctx, u, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Buy milk", all[0].Title)
	assert.Equal(t, "buy bread", all[2].Title)

	found, err := todos.List(ctx, u, "BUY")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestTodosDelete(t *testing.T) {
	db := newTestDB(t)
	views := &recorder{}
	todos := NewTodos(db, views)
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")

	todo, err := todos.Create(ctx, u, TodoInput{Title: "Temp"})
	require.NoError(t, err)
	views.reset()

	require.NoError(t, todos.Delete(ctx, u, todo.ID))
	assert.Equal(t, []string{PathTodo}, views.paths(u))

	assert.ErrorIs(t, todos.Delete(ctx, u, todo.ID), ErrNotFound)
}
