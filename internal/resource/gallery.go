package resource

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"
)

// gallery holds the operations shared by every uploaded-image entity.
type gallery[T any] struct {
	db      *gorm.DB
	views   Invalidator
	uploads *Uploader

	kind   string // used in not found messages
	label  string // used in failure messages
	prefix string // storage key prefix under the user
	path   string

	build       func(userID, name string, blob *StoredBlob) *T
	storagePath func(row *T) string
	// cascade deletes dependent rows inside the delete transaction.
	cascade func(tx *gorm.DB, id string) error
}

func (g *gallery[T]) List(ctx context.Context, userID string, opts ListOptions) ([]T, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	rows := []T{}
	if err := opts.apply(owned(ctx, g.db, userID), "name").Find(&rows).Error; err != nil {
		return nil, upstream("Failed to fetch "+g.label+"s", err)
	}
	return rows, nil
}

func (g *gallery[T]) Get(ctx context.Context, userID, id string) (*T, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validID(g.kind, id); err != nil {
		return nil, err
	}
	return findOwned[T](ctx, g.db, g.kind, userID, id)
}

// Upload runs the whole pipeline: validate, ensure the bucket, store the
// blob, persist the row, invalidate the list view. A failed insert leaves
// the blob behind; it is logged with its key.
func (g *gallery[T]) Upload(ctx context.Context, userID, name string, file *File) (*T, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	p, err := g.uploads.validate(name, file)
	if err != nil {
		return nil, err
	}

	blob, err := g.uploads.store(ctx, userID, g.prefix, p)
	if err != nil {
		return nil, err
	}

	row := g.build(userID, p.name, blob)
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		log.Printf("Orphaned blob %s after failed insert", blob.Key)
		return nil, upstream("Failed to create "+g.label, err)
	}

	g.views.Invalidate(userID, g.path)
	return row, nil
}

func (g *gallery[T]) Rename(ctx context.Context, userID, id, name string) (*T, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var c checker
	c.id("id", id, "Invalid "+strings.ToLower(g.kind)+" ID")
	c.text("name", name, maxTitleLength, "Name is required", "Name is too long")
	if err := c.err(); err != nil {
		return nil, err
	}

	if _, err := findOwned[T](ctx, g.db, g.kind, userID, id); err != nil {
		return nil, err
	}

	var model T
	err := owned(ctx, g.db, userID).Model(&model).Where("id = ?", id).
		Updates(map[string]any{"name": strings.TrimSpace(name), "updated_at": g.db.NowFunc()}).Error
	if err != nil {
		return nil, upstream("Failed to update "+strings.ToLower(g.kind), err)
	}

	g.views.Invalidate(userID, g.path, itemPath(g.path, id))
	return findOwned[T](ctx, g.db, g.kind, userID, id)
}

// Delete removes the row and its dependents, then the blob. Blob removal is
// best effort and never fails the delete.
func (g *gallery[T]) Delete(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := validID(g.kind, id); err != nil {
		return err
	}

	row, err := findOwned[T](ctx, g.db, g.kind, userID, id)
	if err != nil {
		return err
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if g.cascade != nil {
			if err := g.cascade(tx, id); err != nil {
				return err
			}
		}
		var model T
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model).Error
	})
	if err != nil {
		return upstream("Failed to delete "+strings.ToLower(g.kind), err)
	}

	g.uploads.discard(ctx, g.storagePath(row))
	g.views.Invalidate(userID, g.path, itemPath(g.path, id))
	return nil
}
