package resource

import (
	"context"
	"errors"

	"github.com/petermazzocco/go-activities/models"
	"gorm.io/gorm"
)

// Accounts covers the user row itself: the profile and account deletion.
type Accounts struct {
	db      *gorm.DB
	uploads *Uploader
	views   Invalidator
}

func NewAccounts(db *gorm.DB, uploads *Uploader, views Invalidator) *Accounts {
	return &Accounts{db: db, uploads: uploads, views: views}
}

func (s *Accounts) Profile(ctx context.Context, userID string) (*models.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("User")
	}
	if err != nil {
		return nil, upstream("Failed to fetch user", err)
	}
	return &user, nil
}

// Delete removes the user and everything they own. Rows go child first in
// one transaction; blobs are removed afterwards on a best effort basis.
func (s *Accounts) Delete(ctx context.Context, userID string) error {
	if _, err := s.Profile(ctx, userID); err != nil {
		return err
	}

	var keys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var photoKeys, foodKeys []string
		if err := tx.Model(&models.Photo{}).Where("user_id = ?", userID).Pluck("storage_path", &photoKeys).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.FoodPhoto{}).Where("user_id = ?", userID).Pluck("storage_path", &foodKeys).Error; err != nil {
			return err
		}
		keys = append(photoKeys, foodKeys...)

		foodIDs := tx.Model(&models.FoodPhoto{}).Select("id").Where("user_id = ?", userID)
		pokemonIDs := tx.Model(&models.Pokemon{}).Select("id").Where("user_id = ?", userID)
		steps := []struct {
			model any
			query string
			args  []any
		}{
			{&models.FoodReview{}, "user_id = ? OR food_photo_id IN (?)", []any{userID, foodIDs}},
			{&models.PokemonReview{}, "user_id = ? OR pokemon_id IN (?)", []any{userID, pokemonIDs}},
			{&models.FoodPhoto{}, "user_id = ?", []any{userID}},
			{&models.Pokemon{}, "user_id = ?", []any{userID}},
			{&models.Photo{}, "user_id = ?", []any{userID}},
			{&models.Todo{}, "user_id = ?", []any{userID}},
			{&models.Note{}, "user_id = ?", []any{userID}},
			{&models.User{}, "id = ?", []any{userID}},
		}
		for _, step := range steps {
			if err := tx.Where(step.query, step.args...).Delete(step.model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return upstream("Failed to delete account", err)
	}

	if s.uploads != nil {
		s.uploads.discard(ctx, keys...)
	}
	s.views.Invalidate(userID, PathHome)
	return nil
}
