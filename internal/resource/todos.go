package resource

import (
	"context"
	"errors"
	"strings"

	"github.com/petermazzocco/go-activities/models"
	"gorm.io/gorm"
)

const maxToggleAttempts = 3

var errToggleContended = errors.New("todo changed on every toggle attempt")

type TodoInput struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
}

// TodoPatch carries only the fields being changed.
type TodoPatch struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
	Priority  *string `json:"priority"`
}

type Todos struct {
	db    *gorm.DB
	views Invalidator
}

func NewTodos(db *gorm.DB, views Invalidator) *Todos {
	return &Todos{db: db, views: views}
}

// List returns the caller's todos, earliest first.
func (s *Todos) List(ctx context.Context, userID, search string) ([]models.Todo, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	q := owned(ctx, s.db, userID)
	if term := strings.TrimSpace(search); term != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	todos := []models.Todo{}
	if err := q.Order("created_at ASC").Find(&todos).Error; err != nil {
		return nil, upstream("Failed to fetch todos", err)
	}
	return todos, nil
}

func (s *Todos) Get(ctx context.Context, userID, id string) (*models.Todo, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validID("todo", id); err != nil {
		return nil, err
	}
	return findOwned[models.Todo](ctx, s.db, "Todo", userID, id)
}

func (s *Todos) Create(ctx context.Context, userID string, in TodoInput) (*models.Todo, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = string(models.PriorityMedium)
	}

	var c checker
	c.text("title", in.Title, maxTitleLength, "Title is required", "Title is too long")
	c.oneOf("priority", in.Priority, priorityNames(), "Priority must be LOW, MEDIUM or HIGH")
	if err := c.err(); err != nil {
		return nil, err
	}

	todo := &models.Todo{
		UserID:    userID,
		Title:     strings.TrimSpace(in.Title),
		Priority:  models.Priority(in.Priority),
		Completed: false,
	}
	if err := s.db.WithContext(ctx).Create(todo).Error; err != nil {
		return nil, upstream("Failed to create todo", err)
	}

	s.views.Invalidate(userID, PathTodo)
	return todo, nil
}

func (s *Todos) Update(ctx context.Context, userID, id string, patch TodoPatch) (*models.Todo, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var c checker
	c.id("id", id, "Invalid todo ID")
	updates := map[string]any{}
	if patch.Title != nil {
		c.text("title", *patch.Title, maxTitleLength, "Title is required", "Title is too long")
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}
	if patch.Priority != nil {
		c.oneOf("priority", *patch.Priority, priorityNames(), "Priority must be LOW, MEDIUM or HIGH")
		updates["priority"] = *patch.Priority
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	if _, err := findOwned[models.Todo](ctx, s.db, "Todo", userID, id); err != nil {
		return nil, err
	}

	updates["updated_at"] = s.db.NowFunc()
	err := owned(ctx, s.db, userID).Model(&models.Todo{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, upstream("Failed to update todo", err)
	}

	s.views.Invalidate(userID, PathTodo)
	return findOwned[models.Todo](ctx, s.db, "Todo", userID, id)
}

// Toggle flips completion against the persisted value. The write only lands
// if the row still holds the value that was read; otherwise it re-reads.
func (s *Todos) Toggle(ctx context.Context, userID, id string) (*models.Todo, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validID("todo", id); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		current, err := findOwned[models.Todo](ctx, s.db, "Todo", userID, id)
		if err != nil {
			return nil, err
		}

		res := owned(ctx, s.db, userID).Model(&models.Todo{}).
			Where("id = ? AND completed = ?", id, current.Completed).
			Updates(map[string]any{"completed": !current.Completed, "updated_at": s.db.NowFunc()})
		if res.Error != nil {
			return nil, upstream("Failed to toggle todo", res.Error)
		}
		if res.RowsAffected == 1 {
			s.views.Invalidate(userID, PathTodo)
			return findOwned[models.Todo](ctx, s.db, "Todo", userID, id)
		}
	}
	return nil, upstream("Failed to toggle todo", errToggleContended)
}

func (s *Todos) Delete(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := validID("todo", id); err != nil {
		return err
	}

	res := owned(ctx, s.db, userID).Where("id = ?", id).Delete(&models.Todo{})
	if res.Error != nil {
		return upstream("Failed to delete todo", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("Todo")
	}

	s.views.Invalidate(userID, PathTodo)
	return nil
}

func priorityNames() []string {
	names := make([]string, 0, len(models.Priorities))
	for _, p := range models.Priorities {
		names = append(names, string(p))
	}
	return names
}
