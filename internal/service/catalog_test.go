package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eaaniwezi/anirecs/internal/domain"
	apperrors "github.com/eaaniwezi/anirecs/pkg/errors"
)

type catalogMocks struct {
	genres      *mockGenreRepository
	animes      *mockAnimeRepository
	favourites  *mockFavouriteRepository
	preferences *mockPreferenceRepository
	animeGenres *mockAnimeGenreRepository
	cache       *mockRecommendationCache
}

func newCatalogService(t *testing.T) (*CatalogService, catalogMocks) {
	t.Helper()
	m := catalogMocks{
		genres:      new(mockGenreRepository),
		animes:      new(mockAnimeRepository),
		favourites:  new(mockFavouriteRepository),
		preferences: new(mockPreferenceRepository),
		animeGenres: new(mockAnimeGenreRepository),
		cache:       new(mockRecommendationCache),
	}
	svc := NewCatalogService(
		m.genres, m.animes, m.favourites, m.preferences, m.animeGenres, m.cache,
		newTestEventProducer(), newTestLogger(),
	)
	return svc, m
}

// --- Genres ---

func TestCatalogService_CreateGenre_Success(t *testing.T) {
	svc, m := newCatalogService(t)

	m.genres.On("Create", mock.Anything, mock.MatchedBy(func(g *domain.Genre) bool {
		return g.Name == "Action"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Genre).ID = 3
	}).Return(nil)

	genre, err := svc.CreateGenre(context.Background(), "Action")
	require.NoError(t, err)
	assert.Equal(t, int64(3), genre.ID)
	m.genres.AssertExpectations(t)
}

func TestCatalogService_CreateGenre_DuplicateIsInvalidInput(t *testing.T) {
	svc, m := newCatalogService(t)

	m.genres.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("genre", "name", "Action"))

	_, err := svc.CreateGenre(context.Background(), "Action")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.ErrorContains(t, err, "genre already exists")
}

func TestCatalogService_CreateGenre_EmptyName(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.CreateGenre(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCatalogService_UpdateGenre_DuplicateIsInvalidInput(t *testing.T) {
	svc, m := newCatalogService(t)

	m.genres.On("Update", mock.Anything, mock.MatchedBy(func(g *domain.Genre) bool {
		return g.ID == 3 && g.Name == "Action"
	})).Return(apperrors.AlreadyExists("genre", "name", "Action"))

	_, err := svc.UpdateGenre(context.Background(), 3, "Action")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCatalogService_UpdateGenre_Success(t *testing.T) {
	svc, m := newCatalogService(t)

	m.genres.On("Update", mock.Anything, mock.Anything).Return(nil)

	genre, err := svc.UpdateGenre(context.Background(), 3, "Adventure")
	require.NoError(t, err)
	assert.Equal(t, "Adventure", genre.Name)
	m.genres.AssertExpectations(t)
}

// --- Animes ---

func TestCatalogService_CreateAnime_WithGenres(t *testing.T) {
	svc, m := newCatalogService(t)

	m.genres.On("GetByID", mock.Anything, int64(3)).Return(&domain.Genre{ID: 3, Name: "Action"}, nil)
	m.animes.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Anime).ID = 7
	}).Return(nil)
	m.animeGenres.On("Link", mock.Anything, int64(7), int64(3)).Return(nil)

	anime, err := svc.CreateAnime(context.Background(), CreateAnimeInput{
		Title:       "Cowboy Bebop",
		Description: "Bounty hunters.",
		Rating:      8.9,
		GenreIDs:    []int64{3},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), anime.ID)
	m.animeGenres.AssertExpectations(t)
}

func TestCatalogService_CreateAnime_UnknownGenre(t *testing.T) {
	svc, m := newCatalogService(t)

	m.genres.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.CreateAnime(context.Background(), CreateAnimeInput{
		Title:    "Cowboy Bebop",
		Rating:   8.9,
		GenreIDs: []int64{99},
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	m.animes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateAnime_RatingOutOfRange(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.CreateAnime(context.Background(), CreateAnimeInput{Title: "X", Rating: 11})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateAnime(context.Background(), CreateAnimeInput{Title: "X", Rating: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCatalogService_UpdateAnime_Success(t *testing.T) {
	svc, m := newCatalogService(t)

	m.animes.On("Update", mock.Anything, mock.MatchedBy(func(a *domain.Anime) bool {
		return a.ID == 7 && a.Rating == 9.0
	})).Return(nil)
	m.animes.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.Anime{ID: 7, Title: "Cowboy Bebop", Rating: 9.0}, nil)

	anime, err := svc.UpdateAnime(context.Background(), 7, CreateAnimeInput{
		Title:  "Cowboy Bebop",
		Rating: 9.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 9.0, anime.Rating)
	m.animes.AssertExpectations(t)
}

func TestCatalogService_UpdateAnime_NotFound(t *testing.T) {
	svc, m := newCatalogService(t)

	m.animes.On("Update", mock.Anything, mock.Anything).
		Return(apperrors.NotFound("anime", 99))

	_, err := svc.UpdateAnime(context.Background(), 99, CreateAnimeInput{Title: "X", Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- Favourites ---

func TestCatalogService_AddFavourite_OwnershipEnforced(t *testing.T) {
	svc, m := newCatalogService(t)

	err := svc.AddFavourite(context.Background(), 1, 2, 5)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.favourites.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_AddFavourite_AnimeMustExist(t *testing.T) {
	svc, m := newCatalogService(t)

	m.animes.On("GetByID", mock.Anything, int64(5)).Return(nil, apperrors.ErrNotFound)

	err := svc.AddFavourite(context.Background(), 1, 1, 5)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_AddFavourite_DuplicateIsConflict(t *testing.T) {
	svc, m := newCatalogService(t)

	m.animes.On("GetByID", mock.Anything, int64(5)).Return(&domain.Anime{ID: 5}, nil)
	m.favourites.On("Add", mock.Anything, int64(1), int64(5)).
		Return(apperrors.Conflict("anime is already in favourites"))

	err := svc.AddFavourite(context.Background(), 1, 1, 5)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCatalogService_AddFavourite_InvalidatesCache(t *testing.T) {
	svc, m := newCatalogService(t)

	m.animes.On("GetByID", mock.Anything, int64(5)).Return(&domain.Anime{ID: 5}, nil)
	m.favourites.On("Add", mock.Anything, int64(1), int64(5)).Return(nil)
	m.cache.On("Invalidate", mock.Anything, int64(1)).Return(nil)

	require.NoError(t, svc.AddFavourite(context.Background(), 1, 1, 5))
	m.cache.AssertExpectations(t)
}

func TestCatalogService_RemoveFavourite_Success(t *testing.T) {
	svc, m := newCatalogService(t)

	m.favourites.On("Remove", mock.Anything, int64(1), int64(5)).Return(nil)
	m.cache.On("Invalidate", mock.Anything, int64(1)).Return(nil)

	assert.NoError(t, svc.RemoveFavourite(context.Background(), 1, 1, 5))
	m.favourites.AssertExpectations(t)
	m.cache.AssertExpectations(t)
}

// --- Preferences ---

func TestCatalogService_AddPreference_InvalidatesCache(t *testing.T) {
	svc, m := newCatalogService(t)

	m.genres.On("GetByID", mock.Anything, int64(3)).Return(&domain.Genre{ID: 3}, nil)
	m.preferences.On("Add", mock.Anything, int64(1), int64(3)).Return(nil)
	m.cache.On("Invalidate", mock.Anything, int64(1)).Return(nil)

	require.NoError(t, svc.AddPreference(context.Background(), 1, 1, 3))
	m.cache.AssertExpectations(t)
}

func TestCatalogService_AddPreference_OwnershipEnforced(t *testing.T) {
	svc, m := newCatalogService(t)

	err := svc.AddPreference(context.Background(), 1, 2, 3)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.preferences.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_RemovePreference_NotFound(t *testing.T) {
	svc, m := newCatalogService(t)

	m.preferences.On("Remove", mock.Anything, int64(1), int64(3)).
		Return(apperrors.NotFound("preference", "1/3"))
	m.cache.On("Invalidate", mock.Anything, int64(1)).Return(nil).Maybe()

	err := svc.RemovePreference(context.Background(), 1, 1, 3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- Anime-genre links ---

func TestCatalogService_LinkAnimeGenre_BothMustExist(t *testing.T) {
	svc, m := newCatalogService(t)

	m.animes.On("GetByID", mock.Anything, int64(7)).Return(&domain.Anime{ID: 7}, nil)
	m.genres.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)

	err := svc.LinkAnimeGenre(context.Background(), 7, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	m.animeGenres.AssertNotCalled(t, "Link", mock.Anything, mock.Anything, mock.Anything)
}

// --- Recommendations ---

func TestCatalogService_Recommendations_CacheHit(t *testing.T) {
	svc, m := newCatalogService(t)

	cached := []domain.Anime{{ID: 7, Title: "Cowboy Bebop"}}
	m.cache.On("Get", mock.Anything, int64(1)).Return(cached, nil)

	animes, err := svc.Recommendations(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, cached, animes)
	m.preferences.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestCatalogService_Recommendations_ComputesAndCaches(t *testing.T) {
	svc, m := newCatalogService(t)

	m.cache.On("Get", mock.Anything, int64(1)).Return(nil, apperrors.ErrNotFound)
	m.preferences.On("ListByUser", mock.Anything, int64(1)).
		Return([]domain.Genre{{ID: 3, Name: "Action"}}, nil)
	m.animeGenres.On("ListAnimesByGenres", mock.Anything, []int64{3}).
		Return([]domain.Anime{{ID: 7, Title: "Cowboy Bebop"}, {ID: 8, Title: "Trigun"}}, nil)
	m.favourites.On("ListByUser", mock.Anything, int64(1)).
		Return([]domain.Anime{{ID: 8, Title: "Trigun"}}, nil)
	m.cache.On("Set", mock.Anything, int64(1), mock.Anything).Return(nil)

	animes, err := svc.Recommendations(context.Background(), 1)
	require.NoError(t, err)

	// Already favourited animes are filtered out.
	require.Len(t, animes, 1)
	assert.Equal(t, int64(7), animes[0].ID)
	m.cache.AssertExpectations(t)
}

func TestCatalogService_Recommendations_NoPreferences(t *testing.T) {
	svc, m := newCatalogService(t)

	m.cache.On("Get", mock.Anything, int64(1)).Return(nil, apperrors.ErrNotFound)
	m.preferences.On("ListByUser", mock.Anything, int64(1)).Return([]domain.Genre{}, nil)
	m.animeGenres.On("ListAnimesByGenres", mock.Anything, []int64{}).Return([]domain.Anime{}, nil)
	m.favourites.On("ListByUser", mock.Anything, int64(1)).Return([]domain.Anime{}, nil)
	m.cache.On("Set", mock.Anything, int64(1), mock.Anything).Return(nil)

	animes, err := svc.Recommendations(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, animes)
}
