package resource

import (
	"context"
	"strings"

	"github.com/petermazzocco/go-activities/models"
	"gorm.io/gorm"
)

type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type NotePatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type Notes struct {
	db    *gorm.DB
	views Invalidator
}

func NewNotes(db *gorm.DB, views Invalidator) *Notes {
	return &Notes{db: db, views: views}
}

// List returns the caller's notes, most recently edited first.
func (s *Notes) List(ctx context.Context, userID, search string) ([]models.Note, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	q := owned(ctx, s.db, userID)
	if term := strings.TrimSpace(search); term != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	notes := []models.Note{}
	if err := q.Order("updated_at DESC").Find(&notes).Error; err != nil {
		return nil, upstream("Failed to fetch notes", err)
	}
	return notes, nil
}

func (s *Notes) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validID("note", id); err != nil {
		return nil, err
	}
	return findOwned[models.Note](ctx, s.db, "Note", userID, id)
}

// Create stores a note. Content is markdown and may be empty.
func (s *Notes) Create(ctx context.Context, userID string, in NoteInput) (*models.Note, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var c checker
	c.text("title", in.Title, maxTitleLength, "Title is required", "Title is too long")
	if err := c.err(); err != nil {
		return nil, err
	}

	note := &models.Note{UserID: userID, Title: strings.TrimSpace(in.Title), Content: in.Content}
	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return nil, upstream("Failed to create note", err)
	}

	s.views.Invalidate(userID, PathNotes)
	return note, nil
}

func (s *Notes) Update(ctx context.Context, userID, id string, patch NotePatch) (*models.Note, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var c checker
	c.id("id", id, "Invalid note ID")
	updates := map[string]any{}
	if patch.Title != nil {
		c.text("title", *patch.Title, maxTitleLength, "Title is required", "Title is too long")
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	if _, err := findOwned[models.Note](ctx, s.db, "Note", userID, id); err != nil {
		return nil, err
	}

	updates["updated_at"] = s.db.NowFunc()
	if err := owned(ctx, s.db, userID).Model(&models.Note{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, upstream("Failed to update note", err)
	}

	s.views.Invalidate(userID, PathNotes)
	return findOwned[models.Note](ctx, s.db, "Note", userID, id)
}

func (s *Notes) Delete(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := validID("note", id); err != nil {
		return err
	}

	res := owned(ctx, s.db, userID).Where("id = ?", id).Delete(&models.Note{})
	if res.Error != nil {
		return upstream("Failed to delete note", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("Note")
	}

	s.views.Invalidate(userID, PathNotes)
	return nil
}
