// Package repository defines the persistence interfaces consumed by the
// service layer. Concrete implementations live in the postgres and redis
// subpackages.
package repository

import (
	"context"

	"github.com/eaaniwezi/anirecs/internal/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, usernameFilter string) ([]domain.User, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
	Delete(ctx context.Context, id int64) error
}

// GenreRepository persists catalog genres.
type GenreRepository interface {
	Create(ctx context.Context, g *domain.Genre) error
	GetByID(ctx context.Context, id int64) (*domain.Genre, error)
	List(ctx context.Context, search string) ([]domain.Genre, error)
	Update(ctx context.Context, g *domain.Genre) error
	Delete(ctx context.Context, id int64) error
}

// AnimeRepository persists catalog animes.
type AnimeRepository interface {
	Create(ctx context.Context, a *domain.Anime) error
	GetByID(ctx context.Context, id int64) (*domain.Anime, error)
	List(ctx context.Context, search string) ([]domain.Anime, error)
	Update(ctx context.Context, a *domain.Anime) error
	Delete(ctx context.Context, id int64) error
}

// FavouriteRepository persists the user-anime favourite relation.
type FavouriteRepository interface {
	Add(ctx context.Context, userID, animeID int64) error
	Remove(ctx context.Context, userID, animeID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Anime, error)
}

// PreferenceRepository persists the user-genre preference relation.
type PreferenceRepository interface {
	Add(ctx context.Context, userID, genreID int64) error
	Remove(ctx context.Context, userID, genreID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Genre, error)
}

// AnimeGenreRepository persists the anime-genre tagging relation.
type AnimeGenreRepository interface {
	Link(ctx context.Context, animeID, genreID int64) error
	Unlink(ctx context.Context, animeID, genreID int64) error
	ListLinks(ctx context.Context) ([]domain.AnimeGenre, error)
	ListGenres(ctx context.Context, animeID int64) ([]domain.Genre, error)
	ListAnimes(ctx context.Context, genreID int64) ([]domain.Anime, error)
	ListAnimesByGenres(ctx context.Context, genreIDs []int64) ([]domain.Anime, error)
}

// RecommendationCache caches computed recommendation lists per user.
type RecommendationCache interface {
	Get(ctx context.Context, userID int64) ([]domain.Anime, error)
	Set(ctx context.Context, userID int64, animes []domain.Anime) error
	Invalidate(ctx context.Context, userID int64) error
}
