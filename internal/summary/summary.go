package summary

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/petermazzocco/go-activities/internal/resource"
)

// Counts is what the landing page shows for a signed-in user.
type Counts struct {
	Todos          int `json:"todos" db:"todos"`
	OpenTodos      int `json:"openTodos" db:"open_todos"`
	Photos         int `json:"photos" db:"photos"`
	FoodPhotos     int `json:"foodPhotos" db:"food_photos"`
	FoodReviews    int `json:"foodReviews" db:"food_reviews"`
	Pokemon        int `json:"pokemon" db:"pokemon"`
	PokemonReviews int `json:"pokemonReviews" db:"pokemon_reviews"`
	Notes          int `json:"notes" db:"notes"`
}

// Service runs read-only count queries next to the ORM, on the same pool.
type Service struct {
	db *sqlx.DB
}

// New wraps an open pool. driverName picks the placeholder style.
func New(db *sql.DB, driverName string) *Service {
	if driverName == "sqlite" {
		driverName = "sqlite3"
	}
	return &Service{db: sqlx.NewDb(db, driverName)}
}

type count struct {
	table string
	extra squirrel.Sqlizer
	dest  *int
}

func (s *Service) Counts(ctx context.Context, userID string) (*Counts, error) {
	if userID == "" {
		return nil, resource.ErrNotAuthenticated
	}

	var out Counts
	queries := []count{
		{table: "todos", dest: &out.Todos},
		{table: "todos", extra: squirrel.Eq{"completed": false}, dest: &out.OpenTodos},
		{table: "photos", dest: &out.Photos},
		{table: "food_photos", dest: &out.FoodPhotos},
		{table: "food_reviews", dest: &out.FoodReviews},
		{table: "pokemon", dest: &out.Pokemon},
		{table: "pokemon_reviews", dest: &out.PokemonReviews},
		{table: "notes", dest: &out.Notes},
	}

	for _, q := range queries {
		query, args, err := countQuery(q.table, userID, q.extra)
		if err != nil {
			return nil, fmt.Errorf("failed to build count query: %w", err)
		}
		if err := s.db.GetContext(ctx, q.dest, s.db.Rebind(query), args...); err != nil {
			return nil, &resource.UpstreamError{Message: "Failed to load summary", Err: fmt.Errorf("count %s: %w", q.table, err)}
		}
	}
	return &out, nil
}

func countQuery(table, userID string, extra squirrel.Sqlizer) (string, []any, error) {
	where := squirrel.And{squirrel.Eq{"user_id": userID}}
	if extra != nil {
		where = append(where, extra)
	}
	return squirrel.Select("COUNT(*)").From(table).Where(where).ToSql()
}
