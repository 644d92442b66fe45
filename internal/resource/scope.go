package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Invalidator marks cached views of a user stale after a mutation.
type Invalidator interface {
	Invalidate(userID string, paths ...string)
}

// NopInvalidator drops every invalidation.
type NopInvalidator struct{}

func (NopInvalidator) Invalidate(string, ...string) {}

// View paths refreshed after mutations.
const (
	PathHome    = "/"
	PathTodo    = "/todo"
	PathDrive   = "/drive"
	PathFood    = "/food"
	PathPokemon = "/pokemon"
	PathNotes   = "/notes"
)

func itemPath(base, id string) string {
	return base + "/" + id
}

type SortField string

type SortOrder string

const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "createdAt"

	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ListOptions filter and order photo-like and pokemon listings.
type ListOptions struct {
	Search string
	SortBy SortField
	Order  SortOrder
}

// ParseListOptions validates raw query values. Empty values fall back to
// newest first.
func ParseListOptions(search, sortBy, order string) (ListOptions, error) {
	opts := ListOptions{Search: search, SortBy: SortByCreatedAt, Order: Desc}

	var c checker
	if sortBy != "" {
		c.oneOf("sortBy", sortBy, []string{string(SortByName), string(SortByCreatedAt)}, "Sort must be name or createdAt")
		opts.SortBy = SortField(sortBy)
	}
	if order != "" {
		c.oneOf("sortOrder", order, []string{string(Asc), string(Desc)}, "Order must be asc or desc")
		opts.Order = SortOrder(order)
	}
	if err := c.err(); err != nil {
		return ListOptions{}, err
	}
	return opts, nil
}

func (o ListOptions) apply(q *gorm.DB, searchColumn string) *gorm.DB {
	if term := strings.TrimSpace(o.Search); term != "" {
		q = q.Where(fmt.Sprintf("LOWER(%s) LIKE ?", searchColumn), "%"+strings.ToLower(term)+"%")
	}
	column := "created_at"
	if o.SortBy == SortByName {
		column = "name"
	}
	return q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: o.Order != Asc})
}

// owned scopes q to rows of userID.
func owned(ctx context.Context, db *gorm.DB, userID string) *gorm.DB {
	return db.WithContext(ctx).Where("user_id = ?", userID)
}

// findOwned loads the row with id when it belongs to userID.
func findOwned[T any](ctx context.Context, db *gorm.DB, kind, userID, id string) (*T, error) {
	var row T
	err := owned(ctx, db, userID).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(kind)
	}
	if err != nil {
		return nil, upstream("Failed to fetch "+strings.ToLower(kind), err)
	}
	return &row, nil
}
