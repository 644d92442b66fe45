package resource

import (
	"context"

	"github.com/petermazzocco/go-activities/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Food manages food photos and their reviews.
type Food struct {
	gallery[models.FoodPhoto]
	reviews *reviewSet[models.FoodReview]
}

// FoodDetail is a food photo with its reviews and their stats.
type FoodDetail struct {
	Photo   *models.FoodPhoto   `json:"photo"`
	Reviews []models.FoodReview `json:"reviews"`
	Stats   ReviewStats         `json:"stats"`
}

func NewFood(db *gorm.DB, uploads *Uploader, views Invalidator) *Food {
	reviews := &reviewSet[models.FoodReview]{
		db:          db,
		views:       views,
		parentKind:  "Photo",
		parentModel: func() any { return &models.FoodPhoto{} },
		parentCol:   "food_photo_id",
		path:        PathFood,
		build: func(userID, parentID string, in ReviewInput) *models.FoodReview {
			return &models.FoodReview{UserID: userID, FoodPhotoID: parentID, Content: in.Content, Rating: in.Rating}
		},
		parentOf: func(r *models.FoodReview) string { return r.FoodPhotoID },
	}

	return &Food{
		gallery: gallery[models.FoodPhoto]{
			db:      db,
			views:   views,
			uploads: uploads,
			kind:    "Photo",
			label:   "food photo",
			prefix:  "food",
			path:    PathFood,
			build: func(userID, name string, blob *StoredBlob) *models.FoodPhoto {
				return &models.FoodPhoto{
					UserID:      userID,
					Name:        name,
					URL:         blob.URL,
					StoragePath: blob.Key,
					Size:        blob.Size,
					MimeType:    blob.MimeType,
					Width:       blob.Width,
					Height:      blob.Height,
				}
			},
			storagePath: func(p *models.FoodPhoto) string { return p.StoragePath },
			cascade:     reviews.deleteFor,
		},
		reviews: reviews,
	}
}

// Detail fetches the photo and its reviews concurrently.
func (f *Food) Detail(ctx context.Context, userID, id string) (*FoodDetail, error) {
	detail := &FoodDetail{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		photo, err := f.Get(gctx, userID, id)
		detail.Photo = photo
		return err
	})
	g.Go(func() error {
		reviews, err := f.ListReviews(gctx, userID, id)
		detail.Reviews = reviews
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail.Stats = FoodStats(detail.Reviews)
	return detail, nil
}

func (f *Food) ListReviews(ctx context.Context, userID, photoID string) ([]models.FoodReview, error) {
	return f.reviews.list(ctx, userID, photoID)
}

func (f *Food) CreateReview(ctx context.Context, userID, photoID string, in ReviewInput) (*models.FoodReview, error) {
	return f.reviews.create(ctx, userID, photoID, in)
}

func (f *Food) UpdateReview(ctx context.Context, userID, id string, patch ReviewPatch) (*models.FoodReview, error) {
	return f.reviews.update(ctx, userID, id, patch)
}

func (f *Food) DeleteReview(ctx context.Context, userID, id string) error {
	return f.reviews.delete(ctx, userID, id)
}

func FoodStats(reviews []models.FoodReview) ReviewStats {
	ratings := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	return Stats(ratings)
}
