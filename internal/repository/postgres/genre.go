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

// GenreRepository implements repository.GenreRepository using PostgreSQL.
type GenreRepository struct {
	pool database.DBTX
}

// NewGenreRepository creates a new PostgreSQL-backed genre repository.
func NewGenreRepository(pool database.DBTX) *GenreRepository {
	return &GenreRepository{pool: pool}
}

// Create inserts a new genre and fills in the generated ID.
func (r *GenreRepository) Create(ctx context.Context, g *domain.Genre) error {
	query := `
		INSERT INTO genres (name)
		VALUES ($1)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, g.Name).Scan(&g.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("genre", "name", g.Name)
		}
		return fmt.Errorf("insert genre: %w", err)
	}

	return nil
}

// GetByID retrieves a genre by its ID.
func (r *GenreRepository) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	query := `SELECT id, name FROM genres WHERE id = $1`

	var g domain.Genre
	err := r.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan genre: %w", err)
	}

	return &g, nil
}

// List returns genres ordered by name. A non-empty search narrows the result
// to names containing the term, case-insensitively.
func (r *GenreRepository) List(ctx context.Context, search string) ([]domain.Genre, error) {
	query := `
		SELECT id, name FROM genres
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	genres, err := scanGenres(rows)
	if err != nil {
		return nil, err
	}

	return genres, nil
}

// Update renames a genre.
func (r *GenreRepository) Update(ctx context.Context, g *domain.Genre) error {
	ct, err := r.pool.Exec(ctx, `UPDATE genres SET name = $1 WHERE id = $2`, g.Name, g.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("genre", "name", g.Name)
		}
		return fmt.Errorf("update genre: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("genre", g.ID)
	}

	return nil
}

// Delete removes a genre. Preferences and anime tags referencing it cascade.
func (r *GenreRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("genre", id)
	}

	return nil
}

// scanGenres collects genre rows into a slice, never returning nil.
func scanGenres(rows pgx.Rows) ([]domain.Genre, error) {
	var genres []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genre rows: %w", err)
	}

	if genres == nil {
		genres = []domain.Genre{}
	}

	return genres, nil
}
