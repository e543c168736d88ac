package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/eaaniwezi/anirecs/internal/domain"
	"github.com/eaaniwezi/anirecs/pkg/database"
	apperrors "github.com/eaaniwezi/anirecs/pkg/errors"
)

// AnimeRepository implements repository.AnimeRepository using PostgreSQL.
type AnimeRepository struct {
	pool database.DBTX
}

// NewAnimeRepository creates a new PostgreSQL-backed anime repository.
func NewAnimeRepository(pool database.DBTX) *AnimeRepository {
	return &AnimeRepository{pool: pool}
}

// Create inserts a new anime and fills in the generated ID and timestamp.
func (r *AnimeRepository) Create(ctx context.Context, a *domain.Anime) error {
	query := `
		INSERT INTO animes (title, description, rating)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, a.Title, a.Description, a.Rating).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert anime: %w", err)
	}

	return nil
}

// GetByID retrieves an anime by its ID.
func (r *AnimeRepository) GetByID(ctx context.Context, id int64) (*domain.Anime, error) {
	query := `
		SELECT id, title, description, rating, created_at
		FROM animes
		WHERE id = $1`

	var a domain.Anime
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.Title, &a.Description, &a.Rating, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan anime: %w", err)
	}

	return &a, nil
}

// List returns animes ordered by rating, best first. A non-empty search
// narrows the result to titles containing the term, case-insensitively.
func (r *AnimeRepository) List(ctx context.Context, search string) ([]domain.Anime, error) {
	query := `
		SELECT id, title, description, rating, created_at
		FROM animes
		WHERE $1 = '' OR title ILIKE '%' || $1 || '%'
		ORDER BY rating DESC, id`

	rows, err := r.pool.Query(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("list animes: %w", err)
	}
	defer rows.Close()

	animes, err := scanAnimes(rows)
	if err != nil {
		return nil, err
	}

	return animes, nil
}

// Update replaces an anime's title, description and rating.
func (r *AnimeRepository) Update(ctx context.Context, a *domain.Anime) error {
	query := `UPDATE animes SET title = $1, description = $2, rating = $3 WHERE id = $4`

	ct, err := r.pool.Exec(ctx, query, a.Title, a.Description, a.Rating, a.ID)
	if err != nil {
		return fmt.Errorf("update anime: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("anime", a.ID)
	}

	return nil
}

// Delete removes an anime. Favourites and genre tags referencing it cascade.
func (r *AnimeRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM animes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete anime: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("anime", id)
	}

	return nil
}

// scanAnimes collects anime rows into a slice, never returning nil.
func scanAnimes(rows pgx.Rows) ([]domain.Anime, error) {
	var animes []domain.Anime
	for rows.Next() {
		var a domain.Anime
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Rating, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan anime row: %w", err)
		}
		animes = append(animes, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate anime rows: %w", err)
	}

	if animes == nil {
		animes = []domain.Anime{}
	}

	return animes, nil
}
