package resource

import (
	"context"
	"strings"
	"testing"

	"github.com/petermazzocco/go-activities/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	assert.Equal(t, ReviewStats{}, Stats(nil))
	assert.Equal(t, ReviewStats{Average: 3, Count: 2}, Stats([]string{"4", "2"}))
	assert.Equal(t, ReviewStats{Average: 5, Count: 1}, Stats([]string{"5", "9", "x"}))
}

func TestFoodScenario(t *testing.T) {
	db := newTestDB(t)
	blobs := newFakeBlobs()
	views := &recorder{}
	food := NewFood(db, NewUploader(blobs, nil, "photos"), views)
	ctx := context.Background()
	u := newUser(t, db, "u1@example.com")

	photo, err := food.Upload(ctx, u, "Ramen", pngFile("ramen.jpg"))
	require.NoError(t, err)
	assert.Contains(t, photo.StoragePath, "/food/")

	for _, rating := range []string{"4", "2"} {
		_, err := food.CreateReview(ctx, u, photo.ID, ReviewInput{Content: "Tasty", Rating: rating})
		require.NoError(t, err)
	}

	detail, err := food.Detail(ctx, u, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, photo.ID, detail.Photo.ID)
	assert.Len(t, detail.Reviews, 2)
	assert.Equal(t, ReviewStats{Average: 3.0, Count: 2}, detail.Stats)

	views.reset()
	require.NoError(t, food.Delete(ctx, u, photo.ID))
	assert.Equal(t, []string{PathFood, PathFood + "/" + photo.ID}, views.paths(u))
	assert.False(t, blobs.has(photo.StoragePath))

	reviews, err := food.ListReviews(ctx, u, photo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, reviews)

	var left int64
	require.NoError(t, db.Model(&models.FoodReview{}).Where("food_photo_id = ?", photo.ID).Count(&left).Error)
	assert.Zero(t, left)
}

func TestFoodReviewRatingBounds(t *testing.T) {
	db := newTestDB(t)
	food := NewFood(db, NewUploader(newFakeBlobs(), nil, "photos"), NopInvalidator{})
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")

	photo, err := food.Upload(ctx, u, "Pizza", pngFile("pizza.png"))
	require.NoError(t, err)

	for _, rating := range []string{"0", "6", "", "3.5", "10", " 3"} {
		_, err := food.CreateReview(ctx, u, photo.ID, ReviewInput{Content: "ok", Rating: rating})
		assert.Equal(t, "Rating must be between 1 and 5", fieldMessage(t, err, "rating"), "rating %q", rating)
	}
	assert.Zero(t, countRows[models.FoodReview](t, db))

	review, err := food.CreateReview(ctx, u, photo.ID, ReviewInput{Content: "  Great crust  ", Rating: "5"})
	require.NoError(t, err)
	assert.Equal(t, "Great crust", review.Content)

	bad := "7"
	_, err = food.UpdateReview(ctx, u, review.ID, ReviewPatch{Rating: &bad})
	assert.Equal(t, "Rating must be between 1 and 5", fieldMessage(t, err, "rating"))

	reviews, err := food.ListReviews(ctx, u, photo.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "5", reviews[0].Rating)

	_, err = food.CreateReview(ctx, u, photo.ID, ReviewInput{Content: strings.Repeat("x", maxContentLength+1), Rating: "3"})
	assert.Equal(t, "Review is too long", fieldMessage(t, err, "content"))
}

func TestFoodReviewOwnership(t *testing.T) {
	db := newTestDB(t)
	views := &recorder{}
	food := NewFood(db, NewUploader(newFakeBlobs(), nil, "photos"), views)
	ctx := context.Background()
	owner := newUser(t, db, "owner@example.com")
	other := newUser(t, db, "other@example.com")

	photo, err := food.Upload(ctx, owner, "Tacos", pngFile("tacos.png"))
	require.NoError(t, err)
	review, err := food.CreateReview(ctx, owner, photo.ID, ReviewInput{Content: "Spicy", Rating: "4"})
	require.NoError(t, err)

	_, err = food.CreateReview(ctx, other, photo.ID, ReviewInput{Content: "Mine now", Rating: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = food.ListReviews(ctx, other, photo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = food.Detail(ctx, other, photo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	content := "edited"
	_, err = food.UpdateReview(ctx, other, review.ID, ReviewPatch{Content: &content})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, food.DeleteReview(ctx, other, review.ID), ErrNotFound)

	views.reset()
	updated, err := food.UpdateReview(ctx, owner, review.ID, ReviewPatch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, "4", updated.Rating)
	assert.Equal(t, []string{PathFood + "/" + photo.ID}, views.paths(owner))

	require.NoError(t, food.DeleteReview(ctx, owner, review.ID))
	assert.Zero(t, countRows[models.FoodReview](t, db))
}
