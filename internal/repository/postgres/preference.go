package postgres

import (
	"context"
	"fmt"

	"github.com/eaaniwezi/anirecs/internal/domain"
	"github.com/eaaniwezi/anirecs/pkg/database"
	apperrors "github.com/eaaniwezi/anirecs/pkg/errors"
)

// PreferenceRepository implements repository.PreferenceRepository using PostgreSQL.
type PreferenceRepository struct {
	pool database.DBTX
}

// NewPreferenceRepository creates a new PostgreSQL-backed preference repository.
func NewPreferenceRepository(pool database.DBTX) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// Add records that the user wants recommendations from the genre.
func (r *PreferenceRepository) Add(ctx context.Context, userID, genreID int64) error {
	query := `INSERT INTO preferences (user_id, genre_id) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, userID, genreID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("genre is already in preferences")
		}
		return fmt.Errorf("insert preference: %w", err)
	}

	return nil
}

// Remove deletes the preference relation.
func (r *PreferenceRepository) Remove(ctx context.Context, userID, genreID int64) error {
	query := `DELETE FROM preferences WHERE user_id = $1 AND genre_id = $2`

	ct, err := r.pool.Exec(ctx, query, userID, genreID)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("preference", fmt.Sprintf("%d/%d", userID, genreID))
	}

	return nil
}

// ListByUser returns the genres the user prefers, alphabetically.
func (r *PreferenceRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Genre, error) {
	query := `
		SELECT g.id, g.name
		FROM genres g
		JOIN preferences p ON p.genre_id = g.id
		WHERE p.user_id = $1
		ORDER BY g.name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	return scanGenres(rows)
}
