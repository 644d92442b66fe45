package resource

import (
	"context"
	"sync"
	"testing"

	"github.com/petermazzocco/go-activities/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pikachu = SavePokemonInput{PokemonID: "25", Name: "pikachu", ImageURL: "https://img.example/25.png"}

func TestPokemonSaveDedupe(t *testing.T) {
	db := newTestDB(t)
	views := &recorder{}
	pokemon := NewPokemon(db, views)
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")
	other := newUser(t, db, "other@example.com")

	first, created, err := pokemon.Save(ctx, u, pikachu)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := pokemon.Save(ctx, u, pikachu)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	theirs, created, err := pokemon.Save(ctx, other, pikachu)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, theirs.ID)

	var n int64
	require.NoError(t, db.Model(&models.Pokemon{}).Where("user_id = ?", u).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []string{PathPokemon}, views.paths(u))
}

func TestPokemonSaveConcurrent(t *testing.T) {
	db := newTestDB(t)
	pokemon := NewPokemon(db, NopInvalidator{})
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")

	var wg sync.WaitGroup
	ids := make([]string, 4)
	errs := make([]error, 4)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row, _, err := pokemon.Save(ctx, u, pikachu)
			errs[i] = err
			if row != nil {
				ids[i] = row.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, int64(1), countRows[models.Pokemon](t, db))
}

func TestPokemonSaveValidation(t *testing.T) {
	db := newTestDB(t)
	pokemon := NewPokemon(db, NopInvalidator{})
	u := newUser(t, db, "u@example.com")

	_, _, err := pokemon.Save(context.Background(), u, SavePokemonInput{ImageURL: "ftp://nope"})
	assert.Equal(t, "Pokemon ID is required", fieldMessage(t, err, "pokemonId"))
	assert.Equal(t, "Name is required", fieldMessage(t, err, "name"))
	assert.Equal(t, "Invalid image URL", fieldMessage(t, err, "imageUrl"))
}

func TestPokemonDeleteCascadesReviews(t *testing.T) {
	db := newTestDB(t)
	views := &recorder{}
	pokemon := NewPokemon(db, views)
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")
	other := newUser(t, db, "other@example.com")

	saved, _, err := pokemon.Save(ctx, u, pikachu)
	require.NoError(t, err)
	for _, rating := range []string{"5", "4", "3"} {
		_, err := pokemon.CreateReview(ctx, u, saved.ID, ReviewInput{Content: "Electric", Rating: rating})
		require.NoError(t, err)
	}

	detail, err := pokemon.Detail(ctx, u, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, ReviewStats{Average: 4, Count: 3}, detail.Stats)
	assert.Equal(t, "3", detail.Reviews[0].Rating)

	assert.ErrorIs(t, pokemon.Delete(ctx, other, saved.ID), ErrNotFound)

	views.reset()
	require.NoError(t, pokemon.Delete(ctx, u, saved.ID))
	assert.Equal(t, []string{PathPokemon, PathPokemon + "/" + saved.ID}, views.paths(u))
	assert.Zero(t, countRows[models.PokemonReview](t, db))
	assert.Zero(t, countRows[models.Pokemon](t, db))
}

func TestPokemonListAndReviewIsolation(t *testing.T) {
	db := newTestDB(t)
	pokemon := NewPokemon(db, NopInvalidator{})
	ctx := context.Background()
	u := newUser(t, db, "u@example.com")
	other := newUser(t, db, "other@example.com")

	for _, in := range []SavePokemonInput{
		pikachu,
		{PokemonID: "1", Name: "bulbasaur", ImageURL: "https://img.example/1.png"},
	} {
		_, _, err := pokemon.Save(ctx, u, in)
		require.NoError(t, err)
	}

	opts, err := ParseListOptions("", "name", "asc")
	require.NoError(t, err)
	list, err := pokemon.List(ctx, u, opts)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bulbasaur", list[0].Name)
	assert.Equal(t, "1", list[0].ExternalID)

	theirs, err := pokemon.List(ctx, other, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = pokemon.CreateReview(ctx, other, list[0].ID, ReviewInput{Content: "hi", Rating: "3"})
	assert.ErrorIs(t, err, ErrNotFound)
}
