package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/eaaniwezi/anirecs/internal/auth"
	"github.com/eaaniwezi/anirecs/internal/domain"
	"github.com/eaaniwezi/anirecs/internal/event"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context, usernameFilter string) ([]domain.User, error) {
	args := m.Called(ctx, usernameFilter)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateUsername(ctx context.Context, id int64, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Genre Repository ---

type mockGenreRepository struct {
	mock.Mock
}

func (m *mockGenreRepository) Create(ctx context.Context, g *domain.Genre) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGenreRepository) GetByID(ctx context.Context, id int64) (*domain.Genre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Genre), args.Error(1)
}

func (m *mockGenreRepository) List(ctx context.Context, search string) ([]domain.Genre, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]domain.Genre), args.Error(1)
}

func (m *mockGenreRepository) Update(ctx context.Context, g *domain.Genre) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGenreRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Anime Repository ---

type mockAnimeRepository struct {
	mock.Mock
}

func (m *mockAnimeRepository) Create(ctx context.Context, a *domain.Anime) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAnimeRepository) GetByID(ctx context.Context, id int64) (*domain.Anime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Anime), args.Error(1)
}

func (m *mockAnimeRepository) List(ctx context.Context, search string) ([]domain.Anime, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]domain.Anime), args.Error(1)
}

func (m *mockAnimeRepository) Update(ctx context.Context, a *domain.Anime) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAnimeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Favourite Repository ---

type mockFavouriteRepository struct {
	mock.Mock
}

func (m *mockFavouriteRepository) Add(ctx context.Context, userID, animeID int64) error {
	args := m.Called(ctx, userID, animeID)
	return args.Error(0)
}

func (m *mockFavouriteRepository) Remove(ctx context.Context, userID, animeID int64) error {
	args := m.Called(ctx, userID, animeID)
	return args.Error(0)
}

func (m *mockFavouriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Anime, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Anime), args.Error(1)
}

// --- Mock Preference Repository ---

type mockPreferenceRepository struct {
	mock.Mock
}

func (m *mockPreferenceRepository) Add(ctx context.Context, userID, genreID int64) error {
	args := m.Called(ctx, userID, genreID)
	return args.Error(0)
}

func (m *mockPreferenceRepository) Remove(ctx context.Context, userID, genreID int64) error {
	args := m.Called(ctx, userID, genreID)
	return args.Error(0)
}

func (m *mockPreferenceRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Genre, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Genre), args.Error(1)
}

// --- Mock Anime-Genre Repository ---

type mockAnimeGenreRepository struct {
	mock.Mock
}

func (m *mockAnimeGenreRepository) Link(ctx context.Context, animeID, genreID int64) error {
	args := m.Called(ctx, animeID, genreID)
	return args.Error(0)
}

func (m *mockAnimeGenreRepository) Unlink(ctx context.Context, animeID, genreID int64) error {
	args := m.Called(ctx, animeID, genreID)
	return args.Error(0)
}

func (m *mockAnimeGenreRepository) ListLinks(ctx context.Context) ([]domain.AnimeGenre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AnimeGenre), args.Error(1)
}

func (m *mockAnimeGenreRepository) ListGenres(ctx context.Context, animeID int64) ([]domain.Genre, error) {
	args := m.Called(ctx, animeID)
	return args.Get(0).([]domain.Genre), args.Error(1)
}

func (m *mockAnimeGenreRepository) ListAnimes(ctx context.Context, genreID int64) ([]domain.Anime, error) {
	args := m.Called(ctx, genreID)
	return args.Get(0).([]domain.Anime), args.Error(1)
}

func (m *mockAnimeGenreRepository) ListAnimesByGenres(ctx context.Context, genreIDs []int64) ([]domain.Anime, error) {
	args := m.Called(ctx, genreIDs)
	return args.Get(0).([]domain.Anime), args.Error(1)
}

// --- Mock Recommendation Cache ---

type mockRecommendationCache struct {
	mock.Mock
}

func (m *mockRecommendationCache) Get(ctx context.Context, userID int64) ([]domain.Anime, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Anime), args.Error(1)
}

func (m *mockRecommendationCache) Set(ctx context.Context, userID int64, animes []domain.Anime) error {
	args := m.Called(ctx, userID, animes)
	return args.Error(0)
}

func (m *mockRecommendationCache) Invalidate(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-key-for-testing-only", "anirecs-api", 15*time.Minute, 168*time.Hour)
}

func newTestEventProducer() *event.Producer {
	return event.NewProducer(nil, newTestLogger())
}

// hashForTest creates a bcrypt hash with the minimum cost for fast tests.
func hashForTest(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}
