package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eaaniwezi/anirecs/internal/domain"
	"github.com/eaaniwezi/anirecs/internal/event"
	"github.com/eaaniwezi/anirecs/internal/repository"
	apperrors "github.com/eaaniwezi/anirecs/pkg/errors"
)

// maxRating is the upper bound of the anime rating scale.
const maxRating = 10.0

// CatalogService implements the catalog, relation and recommendation logic.
type CatalogService struct {
	genreRepo      repository.GenreRepository
	animeRepo      repository.AnimeRepository
	favouriteRepo  repository.FavouriteRepository
	preferenceRepo repository.PreferenceRepository
	animeGenreRepo repository.AnimeGenreRepository
	recCache       repository.RecommendationCache
	producer       *event.Producer
	logger         *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	genreRepo repository.GenreRepository,
	animeRepo repository.AnimeRepository,
	favouriteRepo repository.FavouriteRepository,
	preferenceRepo repository.PreferenceRepository,
	animeGenreRepo repository.AnimeGenreRepository,
	recCache repository.RecommendationCache,
	producer *event.Producer,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		genreRepo:      genreRepo,
		animeRepo:      animeRepo,
		favouriteRepo:  favouriteRepo,
		preferenceRepo: preferenceRepo,
		animeGenreRepo: animeGenreRepo,
		recCache:       recCache,
		producer:       producer,
		logger:         logger,
	}
}

// CreateAnimeInput holds the parameters for adding a catalog entry.
type CreateAnimeInput struct {
	Title       string
	Description string
	Rating      float64
	GenreIDs    []int64
}

// --- Genres ---

// CreateGenre adds a genre. A taken name is reported as invalid input.
func (s *CatalogService) CreateGenre(ctx context.Context, name string) (*domain.Genre, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("genre name is required")
	}

	genre := &domain.Genre{Name: name}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.InvalidInput("genre already exists")
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.logger.InfoContext(ctx, "genre created",
		slog.Int64("genre_id", genre.ID),
		slog.String("name", genre.Name),
	)

	return genre, nil
}

// ListGenres returns genres, optionally filtered by a name search term.
func (s *CatalogService) ListGenres(ctx context.Context, search string) ([]domain.Genre, error) {
	genres, err := s.genreRepo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// GetGenre returns a single genre by ID.
func (s *CatalogService) GetGenre(ctx context.Context, id int64) (*domain.Genre, error) {
	genre, err := s.genreRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("genre", id)
		}
		return nil, fmt.Errorf("get genre: %w", err)
	}
	return genre, nil
}

// UpdateGenre renames a genre. A taken name is reported as invalid input.
func (s *CatalogService) UpdateGenre(ctx context.Context, id int64, name string) (*domain.Genre, error) {
	if name == "" {
		return nil, apperrors.InvalidInput("genre name is required")
	}

	genre := &domain.Genre{ID: id, Name: name}
	if err := s.genreRepo.Update(ctx, genre); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.InvalidInput("genre already exists")
		}
		return nil, fmt.Errorf("update genre: %w", err)
	}

	s.logger.InfoContext(ctx, "genre updated",
		slog.Int64("genre_id", id),
		slog.String("name", name),
	)

	return genre, nil
}

// DeleteGenre removes a genre and its relations.
func (s *CatalogService) DeleteGenre(ctx context.Context, id int64) error {
	if err := s.genreRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}

	s.logger.InfoContext(ctx, "genre deleted", slog.Int64("genre_id", id))
	return nil
}

// --- Animes ---

// CreateAnime adds a catalog entry and optionally tags it with genres.
// Every referenced genre must exist.
func (s *CatalogService) CreateAnime(ctx context.Context, input CreateAnimeInput) (*domain.Anime, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Rating < 0 || input.Rating > maxRating {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between 0 and %g", maxRating))
	}

	for _, genreID := range input.GenreIDs {
		if _, err := s.genreRepo.GetByID(ctx, genreID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NotFound("genre", genreID)
			}
			return nil, fmt.Errorf("check genre %d: %w", genreID, err)
		}
	}

	anime := &domain.Anime{
		Title:       input.Title,
		Description: input.Description,
		Rating:      input.Rating,
	}
	if err := s.animeRepo.Create(ctx, anime); err != nil {
		return nil, fmt.Errorf("create anime: %w", err)
	}

	for _, genreID := range input.GenreIDs {
		if err := s.animeGenreRepo.Link(ctx, anime.ID, genreID); err != nil && !errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("link genre %d: %w", genreID, err)
		}
	}

	s.producer.AnimeCreated(ctx, anime.ID, anime.Title)

	s.logger.InfoContext(ctx, "anime created",
		slog.Int64("anime_id", anime.ID),
		slog.String("title", anime.Title),
	)

	return anime, nil
}

// ListAnimes returns the catalog, optionally filtered by a title search term.
func (s *CatalogService) ListAnimes(ctx context.Context, search string) ([]domain.Anime, error) {
	animes, err := s.animeRepo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("list animes: %w", err)
	}
	return animes, nil
}

// GetAnime returns a single catalog entry by ID.
func (s *CatalogService) GetAnime(ctx context.Context, id int64) (*domain.Anime, error) {
	anime, err := s.animeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("anime", id)
		}
		return nil, fmt.Errorf("get anime: %w", err)
	}
	return anime, nil
}

// UpdateAnime replaces a catalog entry's title, description and rating.
// Genre tags are managed separately through the anime-genre links.
func (s *CatalogService) UpdateAnime(ctx context.Context, id int64, input CreateAnimeInput) (*domain.Anime, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Rating < 0 || input.Rating > maxRating {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between 0 and %g", maxRating))
	}

	anime := &domain.Anime{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Rating:      input.Rating,
	}
	if err := s.animeRepo.Update(ctx, anime); err != nil {
		return nil, fmt.Errorf("update anime: %w", err)
	}

	updated, err := s.animeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload anime: %w", err)
	}

	s.logger.InfoContext(ctx, "anime updated",
		slog.Int64("anime_id", id),
		slog.String("title", input.Title),
	)

	return updated, nil
}

// DeleteAnime removes a catalog entry and its relations.
func (s *CatalogService) DeleteAnime(ctx context.Context, id int64) error {
	if err := s.animeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete anime: %w", err)
	}

	s.producer.AnimeDeleted(ctx, id)

	s.logger.InfoContext(ctx, "anime deleted", slog.Int64("anime_id", id))
	return nil
}

// --- Favourites ---

// AddFavourite marks an anime as a favourite. Users may only modify their
// own favourites, and the anime must exist.
func (s *CatalogService) AddFavourite(ctx context.Context, callerID, userID, animeID int64) error {
	if callerID != userID {
		return apperrors.Forbidden("cannot modify another user's favourites")
	}

	if _, err := s.GetAnime(ctx, animeID); err != nil {
		return err
	}

	if err := s.favouriteRepo.Add(ctx, userID, animeID); err != nil {
		return fmt.Errorf("add favourite: %w", err)
	}

	s.invalidateRecommendations(ctx, userID)
	return nil
}

// RemoveFavourite unmarks a favourite, with the same ownership rule as AddFavourite.
func (s *CatalogService) RemoveFavourite(ctx context.Context, callerID, userID, animeID int64) error {
	if callerID != userID {
		return apperrors.Forbidden("cannot modify another user's favourites")
	}

	if err := s.favouriteRepo.Remove(ctx, userID, animeID); err != nil {
		return fmt.Errorf("remove favourite: %w", err)
	}

	s.invalidateRecommendations(ctx, userID)
	return nil
}

// ListFavourites returns the favourite animes of a user.
func (s *CatalogService) ListFavourites(ctx context.Context, userID int64) ([]domain.Anime, error) {
	animes, err := s.favouriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	return animes, nil
}

// --- Preferences ---

// AddPreference records a genre preference. Users may only modify their own
// preferences, and the genre must exist. The user's cached recommendations
// are invalidated.
func (s *CatalogService) AddPreference(ctx context.Context, callerID, userID, genreID int64) error {
	if callerID != userID {
		return apperrors.Forbidden("cannot modify another user's preferences")
	}

	if _, err := s.GetGenre(ctx, genreID); err != nil {
		return err
	}

	if err := s.preferenceRepo.Add(ctx, userID, genreID); err != nil {
		return fmt.Errorf("add preference: %w", err)
	}

	s.invalidateRecommendations(ctx, userID)
	return nil
}

// RemovePreference drops a genre preference, with the same ownership rule as
// AddPreference.
func (s *CatalogService) RemovePreference(ctx context.Context, callerID, userID, genreID int64) error {
	if callerID != userID {
		return apperrors.Forbidden("cannot modify another user's preferences")
	}

	if err := s.preferenceRepo.Remove(ctx, userID, genreID); err != nil {
		return fmt.Errorf("remove preference: %w", err)
	}

	s.invalidateRecommendations(ctx, userID)
	return nil
}

// ListPreferences returns the preferred genres of a user.
func (s *CatalogService) ListPreferences(ctx context.Context, userID int64) ([]domain.Genre, error) {
	genres, err := s.preferenceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return genres, nil
}

// --- Anime-genre links ---

// LinkAnimeGenre tags an anime with a genre. Both must exist.
func (s *CatalogService) LinkAnimeGenre(ctx context.Context, animeID, genreID int64) error {
	if _, err := s.GetAnime(ctx, animeID); err != nil {
		return err
	}
	if _, err := s.GetGenre(ctx, genreID); err != nil {
		return err
	}

	if err := s.animeGenreRepo.Link(ctx, animeID, genreID); err != nil {
		return fmt.Errorf("link anime genre: %w", err)
	}

	return nil
}

// UnlinkAnimeGenre removes a genre tag from an anime.
func (s *CatalogService) UnlinkAnimeGenre(ctx context.Context, animeID, genreID int64) error {
	if err := s.animeGenreRepo.Unlink(ctx, animeID, genreID); err != nil {
		return fmt.Errorf("unlink anime genre: %w", err)
	}
	return nil
}

// ListAnimeGenreLinks returns every anime-genre link.
func (s *CatalogService) ListAnimeGenreLinks(ctx context.Context) ([]domain.AnimeGenre, error) {
	links, err := s.animeGenreRepo.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list anime genre links: %w", err)
	}
	return links, nil
}

// ListAnimeGenres returns the genres an anime is tagged with.
func (s *CatalogService) ListAnimeGenres(ctx context.Context, animeID int64) ([]domain.Genre, error) {
	if _, err := s.GetAnime(ctx, animeID); err != nil {
		return nil, err
	}

	genres, err := s.animeGenreRepo.ListGenres(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("list anime genres: %w", err)
	}
	return genres, nil
}

// ListGenreAnimes returns the animes tagged with a genre.
func (s *CatalogService) ListGenreAnimes(ctx context.Context, genreID int64) ([]domain.Anime, error) {
	if _, err := s.GetGenre(ctx, genreID); err != nil {
		return nil, err
	}

	animes, err := s.animeGenreRepo.ListAnimes(ctx, genreID)
	if err != nil {
		return nil, fmt.Errorf("list genre animes: %w", err)
	}
	return animes, nil
}

// --- Recommendations ---

// Recommendations returns animes from the user's preferred genres that they
// have not favourited yet, best rated first. Results are served from the
// Redis cache when present.
func (s *CatalogService) Recommendations(ctx context.Context, userID int64) ([]domain.Anime, error) {
	if s.recCache != nil {
		cached, err := s.recCache.Get(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "recommendation cache read failed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	preferences, err := s.preferenceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences for recommendations: %w", err)
	}

	genreIDs := make([]int64, 0, len(preferences))
	for _, g := range preferences {
		genreIDs = append(genreIDs, g.ID)
	}

	candidates, err := s.animeGenreRepo.ListAnimesByGenres(ctx, genreIDs)
	if err != nil {
		return nil, fmt.Errorf("list candidate animes: %w", err)
	}

	favourites, err := s.favouriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favourites for recommendations: %w", err)
	}

	favourited := make(map[int64]struct{}, len(favourites))
	for _, a := range favourites {
		favourited[a.ID] = struct{}{}
	}

	recommendations := make([]domain.Anime, 0, len(candidates))
	for _, a := range candidates {
		if _, ok := favourited[a.ID]; !ok {
			recommendations = append(recommendations, a)
		}
	}

	if s.recCache != nil {
		if err := s.recCache.Set(ctx, userID, recommendations); err != nil {
			s.logger.WarnContext(ctx, "recommendation cache write failed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return recommendations, nil
}

func (s *CatalogService) invalidateRecommendations(ctx context.Context, userID int64) {
	if s.recCache == nil {
		return
	}
	if err := s.recCache.Invalidate(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "recommendation cache invalidation failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
