package resource

import (
	"context"
	"errors"
	"strings"

	"github.com/petermazzocco/go-activities/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type SavePokemonInput struct {
	PokemonID string `json:"pokemonId"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
}

type PokemonDetail struct {
	Pokemon *models.Pokemon        `json:"pokemon"`
	Reviews []models.PokemonReview `json:"reviews"`
	Stats   ReviewStats            `json:"stats"`
}

type Pokemon struct {
	db      *gorm.DB
	views   Invalidator
	reviews *reviewSet[models.PokemonReview]
}

func NewPokemon(db *gorm.DB, views Invalidator) *Pokemon {
	return &Pokemon{
		db:    db,
		views: views,
		reviews: &reviewSet[models.PokemonReview]{
			db:          db,
			views:       views,
			parentKind:  "Pokemon",
			parentModel: func() any { return &models.Pokemon{} },
			parentCol:   "pokemon_id",
			path:        PathPokemon,
			build: func(userID, parentID string, in ReviewInput) *models.PokemonReview {
				return &models.PokemonReview{UserID: userID, PokemonID: parentID, Content: in.Content, Rating: in.Rating}
			},
			parentOf: func(r *models.PokemonReview) string { return r.PokemonID },
		},
	}
}

func (s *Pokemon) List(ctx context.Context, userID string, opts ListOptions) ([]models.Pokemon, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	rows := []models.Pokemon{}
	if err := opts.apply(owned(ctx, s.db, userID), "name").Find(&rows).Error; err != nil {
		return nil, upstream("Failed to fetch Pokemon", err)
	}
	return rows, nil
}

func (s *Pokemon) Get(ctx context.Context, userID, id string) (*models.Pokemon, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := validID("Pokemon", id); err != nil {
		return nil, err
	}
	return findOwned[models.Pokemon](ctx, s.db, "Pokemon", userID, id)
}

// Save stores a catalog Pokemon once per user. Saving one that is already
// saved returns the existing row and created=false.
func (s *Pokemon) Save(ctx context.Context, userID string, in SavePokemonInput) (row *models.Pokemon, created bool, err error) {
	if err := requireUser(userID); err != nil {
		return nil, false, err
	}
	in.PokemonID = strings.TrimSpace(in.PokemonID)
	in.Name = strings.TrimSpace(in.Name)

	var c checker
	c.check(in.PokemonID != "", "pokemonId", "Pokemon ID is required")
	c.check(in.Name != "", "name", "Name is required")
	c.httpURL("imageUrl", in.ImageURL, "Invalid image URL")
	if err := c.err(); err != nil {
		return nil, false, err
	}

	if existing, err := s.findSaved(ctx, userID, in.PokemonID); err != nil || existing != nil {
		return existing, false, err
	}

	row = &models.Pokemon{UserID: userID, ExternalID: in.PokemonID, Name: in.Name, ImageURL: in.ImageURL}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent save of the same Pokemon.
			existing, ferr := s.findSaved(ctx, userID, in.PokemonID)
			if ferr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, upstream("Failed to save Pokemon", err)
	}

	s.views.Invalidate(userID, PathPokemon)
	return row, true, nil
}

func (s *Pokemon) findSaved(ctx context.Context, userID, externalID string) (*models.Pokemon, error) {
	var row models.Pokemon
	err := owned(ctx, s.db, userID).Where("pokemon_id = ?", externalID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, upstream("Failed to save Pokemon", err)
	}
	return &row, nil
}

// Delete removes the Pokemon and its reviews in one transaction.
func (s *Pokemon) Delete(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := validID("Pokemon", id); err != nil {
		return err
	}
	if _, err := findOwned[models.Pokemon](ctx, s.db, "Pokemon", userID, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reviews.deleteFor(tx, id); err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Pokemon{}).Error
	})
	if err != nil {
		return upstream("Failed to delete Pokemon", err)
	}

	s.views.Invalidate(userID, PathPokemon, itemPath(PathPokemon, id))
	return nil
}

func (s *Pokemon) Detail(ctx context.Context, userID, id string) (*PokemonDetail, error) {
	detail := &PokemonDetail{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.Get(gctx, userID, id)
		detail.Pokemon = p
		return err
	})
	g.Go(func() error {
		reviews, err := s.ListReviews(gctx, userID, id)
		detail.Reviews = reviews
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail.Stats = PokemonStats(detail.Reviews)
	return detail, nil
}

func (s *Pokemon) ListReviews(ctx context.Context, userID, pokemonID string) ([]models.PokemonReview, error) {
	return s.reviews.list(ctx, userID, pokemonID)
}

func (s *Pokemon) CreateReview(ctx context.Context, userID, pokemonID string, in ReviewInput) (*models.PokemonReview, error) {
	return s.reviews.create(ctx, userID, pokemonID, in)
}

func (s *Pokemon) UpdateReview(ctx context.Context, userID, id string, patch ReviewPatch) (*models.PokemonReview, error) {
	return s.reviews.update(ctx, userID, id, patch)
}

func (s *Pokemon) DeleteReview(ctx context.Context, userID, id string) error {
	return s.reviews.delete(ctx, userID, id)
}

func PokemonStats(reviews []models.PokemonReview) ReviewStats {
	ratings := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	return Stats(ratings)
}
