package postgres

import (
	"context"
	"fmt"

	"github.com/eaaniwezi/anirecs/internal/domain"
	"github.com/eaaniwezi/anirecs/pkg/database"
	apperrors "github.com/eaaniwezi/anirecs/pkg/errors"
)

// AnimeGenreRepository implements repository.AnimeGenreRepository using PostgreSQL.
type AnimeGenreRepository struct {
	pool database.DBTX
}

// NewAnimeGenreRepository creates a new PostgreSQL-backed anime-genre repository.
func NewAnimeGenreRepository(pool database.DBTX) *AnimeGenreRepository {
	return &AnimeGenreRepository{pool: pool}
}

// Link tags an anime with a genre.
func (r *AnimeGenreRepository) Link(ctx context.Context, animeID, genreID int64) error {
	query := `INSERT INTO anime_genres (anime_id, genre_id) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, animeID, genreID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("anime is already tagged with this genre")
		}
		return fmt.Errorf("insert anime genre link: %w", err)
	}

	return nil
}

// Unlink removes a genre tag from an anime.
func (r *AnimeGenreRepository) Unlink(ctx context.Context, animeID, genreID int64) error {
	query := `DELETE FROM anime_genres WHERE anime_id = $1 AND genre_id = $2`

	ct, err := r.pool.Exec(ctx, query, animeID, genreID)
	if err != nil {
		return fmt.Errorf("delete anime genre link: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("anime genre link", fmt.Sprintf("%d/%d", animeID, genreID))
	}

	return nil
}

// ListLinks returns every anime-genre link ordered by anime then genre.
func (r *AnimeGenreRepository) ListLinks(ctx context.Context) ([]domain.AnimeGenre, error) {
	query := `SELECT anime_id, genre_id FROM anime_genres ORDER BY anime_id, genre_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list anime genre links: %w", err)
	}
	defer rows.Close()

	var links []domain.AnimeGenre
	for rows.Next() {
		var l domain.AnimeGenre
		if err := rows.Scan(&l.AnimeID, &l.GenreID); err != nil {
			return nil, fmt.Errorf("scan anime genre link row: %w", err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate anime genre link rows: %w", err)
	}

	if links == nil {
		links = []domain.AnimeGenre{}
	}

	return links, nil
}

// ListGenres returns the genres an anime is tagged with, alphabetically.
func (r *AnimeGenreRepository) ListGenres(ctx context.Context, animeID int64) ([]domain.Genre, error) {
	query := `
		SELECT g.id, g.name
		FROM genres g
		JOIN anime_genres ag ON ag.genre_id = g.id
		WHERE ag.anime_id = $1
		ORDER BY g.name`

	rows, err := r.pool.Query(ctx, query, animeID)
	if err != nil {
		return nil, fmt.Errorf("list genres for anime: %w", err)
	}
	defer rows.Close()

	return scanGenres(rows)
}

// ListAnimes returns the animes tagged with a genre, best rated first.
func (r *AnimeGenreRepository) ListAnimes(ctx context.Context, genreID int64) ([]domain.Anime, error) {
	query := `
		SELECT a.id, a.title, a.description, a.rating, a.created_at
		FROM animes a
		JOIN anime_genres ag ON ag.anime_id = a.id
		WHERE ag.genre_id = $1
		ORDER BY a.rating DESC, a.id`

	rows, err := r.pool.Query(ctx, query, genreID)
	if err != nil {
		return nil, fmt.Errorf("list animes for genre: %w", err)
	}
	defer rows.Close()

	return scanAnimes(rows)
}

// ListAnimesByGenres returns the distinct animes tagged with any of the given
// genres, best rated first. An empty genre list yields an empty result.
func (r *AnimeGenreRepository) ListAnimesByGenres(ctx context.Context, genreIDs []int64) ([]domain.Anime, error) {
	if len(genreIDs) == 0 {
		return []domain.Anime{}, nil
	}

	query := `
		SELECT DISTINCT a.id, a.title, a.description, a.rating, a.created_at
		FROM animes a
		JOIN anime_genres ag ON ag.anime_id = a.id
		WHERE ag.genre_id = ANY($1)
		ORDER BY a.rating DESC, a.id`

	rows, err := r.pool.Query(ctx, query, genreIDs)
	if err != nil {
		return nil, fmt.Errorf("list animes for genres: %w", err)
	}
	defer rows.Close()

	return scanAnimes(rows)
}
