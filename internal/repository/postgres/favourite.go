package postgres

import (
	"context"
	"fmt"

	"github.com/eaaniwezi/anirecs/internal/domain"
	"github.com/eaaniwezi/anirecs/pkg/database"
	apperrors "github.com/eaaniwezi/anirecs/pkg/errors"
)

// FavouriteRepository implements repository.FavouriteRepository using PostgreSQL.
type FavouriteRepository struct {
	pool database.DBTX
}

// NewFavouriteRepository creates a new PostgreSQL-backed favourite repository.
func NewFavouriteRepository(pool database.DBTX) *FavouriteRepository {
	return &FavouriteRepository{pool: pool}
}

// Add marks an anime as a favourite of the user.
func (r *FavouriteRepository) Add(ctx context.Context, userID, animeID int64) error {
	query := `INSERT INTO favourites (user_id, anime_id) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, userID, animeID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("anime is already in favourites")
		}
		return fmt.Errorf("insert favourite: %w", err)
	}

	return nil
}

// Remove deletes the favourite relation.
func (r *FavouriteRepository) Remove(ctx context.Context, userID, animeID int64) error {
	query := `DELETE FROM favourites WHERE user_id = $1 AND anime_id = $2`

	ct, err := r.pool.Exec(ctx, query, userID, animeID)
	if err != nil {
		return fmt.Errorf("delete favourite: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("favourite", fmt.Sprintf("%d/%d", userID, animeID))
	}

	return nil
}

// ListByUser returns the user's favourite animes, most recently added first.
func (r *FavouriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Anime, error) {
	query := `
		SELECT a.id, a.title, a.description, a.rating, a.created_at
		FROM animes a
		JOIN favourites f ON f.anime_id = a.id
		WHERE f.user_id = $1
		ORDER BY f.added_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	defer rows.Close()

	return scanAnimes(rows)
}
