package resource

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type ReviewInput struct {
	Content string `json:"content"`
	Rating  string `json:"rating"`
}

type ReviewPatch struct {
	Content *string `json:"content"`
	Rating  *string `json:"rating"`
}

// ReviewStats is derived on every read and never stored.
type ReviewStats struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Stats averages rating codes. No ratings gives a zero average.
func Stats(ratings []string) ReviewStats {
	var sum, count int
	for _, r := range ratings {
		n, err := strconv.Atoi(r)
		if err != nil || n < 1 || n > 5 {
			continue
		}
		sum += n
		count++
	}
	if count == 0 {
		return ReviewStats{}
	}
	return ReviewStats{Average: float64(sum) / float64(count), Count: count}
}

// reviewSet scopes reviews through an owned parent row.
type reviewSet[R any] struct {
	db    *gorm.DB
	views Invalidator

	parentKind  string
	parentModel func() any
	parentCol   string
	path        string

	build    func(userID, parentID string, in ReviewInput) *R
	parentOf func(row *R) string
}

func (s *reviewSet[R]) ownsParent(ctx context.Context, userID, parentID string) error {
	var n int64
	err := owned(ctx, s.db, userID).Model(s.parentModel()).Where("id = ?", parentID).Count(&n).Error
	if err != nil {
		return upstream("Failed to fetch "+strings.ToLower(s.parentKind), err)
	}
	if n == 0 {
		return notFound(s.parentKind)
	}
	return nil
}

// list returns the reviews of an owned parent, newest first.
func (s *reviewSet[R]) list(ctx context.Context, userID, parentID string) ([]R, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validID(s.parentKind, parentID); err != nil {
		return nil, err
	}
	if err := s.ownsParent(ctx, userID, parentID); err != nil {
		return nil, err
	}

	rows := []R{}
	err := s.db.WithContext(ctx).Where(s.parentCol+" = ?", parentID).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, upstream("Failed to fetch reviews", err)
	}
	return rows, nil
}

func (s *reviewSet[R]) create(ctx context.Context, userID, parentID string, in ReviewInput) (*R, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var c checker
	c.id("parentId", parentID, "Invalid "+strings.ToLower(s.parentKind)+" ID")
	c.text("content", in.Content, maxContentLength, "Review content is required", "Review is too long")
	c.rating("rating", in.Rating)
	if err := c.err(); err != nil {
		return nil, err
	}
	if err := s.ownsParent(ctx, userID, parentID); err != nil {
		return nil, err
	}

	in.Content = strings.TrimSpace(in.Content)
	row := s.build(userID, parentID, in)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, upstream("Failed to create review", err)
	}

	s.views.Invalidate(userID, itemPath(s.path, parentID))
	return row, nil
}

func (s *reviewSet[R]) update(ctx context.Context, userID, id string, patch ReviewPatch) (*R, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var c checker
	c.id("id", id, "Invalid review ID")
	updates := map[string]any{}
	if patch.Content != nil {
		c.text("content", *patch.Content, maxContentLength, "Review content is required", "Review is too long")
		updates["content"] = strings.TrimSpace(*patch.Content)
	}
	if patch.Rating != nil {
		c.rating("rating", *patch.Rating)
		updates["rating"] = *patch.Rating
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	existing, err := findOwned[R](ctx, s.db, "Review", userID, id)
	if err != nil {
		return nil, err
	}

	updates["updated_at"] = s.db.NowFunc()
	var model R
	err = owned(ctx, s.db, userID).Model(&model).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, upstream("Failed to update review", err)
	}

	s.views.Invalidate(userID, itemPath(s.path, s.parentOf(existing)))
	return findOwned[R](ctx, s.db, "Review", userID, id)
}

func (s *reviewSet[R]) delete(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := validID("review", id); err != nil {
		return err
	}

	existing, err := findOwned[R](ctx, s.db, "Review", userID, id)
	if err != nil {
		return err
	}

	var model R
	if err := owned(ctx, s.db, userID).Where("id = ?", id).Delete(&model).Error; err != nil {
		return upstream("Failed to delete review", err)
	}

	s.views.Invalidate(userID, itemPath(s.path, s.parentOf(existing)))
	return nil
}

// deleteFor removes every review of parentID. It runs inside the parent's
// delete transaction.
func (s *reviewSet[R]) deleteFor(tx *gorm.DB, parentID string) error {
	var model R
	err := tx.Where(s.parentCol+" = ?", parentID).Delete(&model).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
