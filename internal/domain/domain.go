// Package domain defines the entities of the anime recommendation catalog.
package domain

import "time"

// User is a registered account. The password hash never leaves the service.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Genre is a catalog category animes can be tagged with.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Anime is a catalog entry.
type Anime struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

// Favourite links a user to an anime they marked as a favourite.
type Favourite struct {
	UserID  int64 `json:"user_id"`
	AnimeID int64 `json:"anime_id"`
}

// Preference links a user to a genre they want recommendations from.
type Preference struct {
	UserID  int64 `json:"user_id"`
	GenreID int64 `json:"genre_id"`
}

// AnimeGenre tags an anime with a genre.
type AnimeGenre struct {
	AnimeID int64 `json:"anime_id"`
	GenreID int64 `json:"genre_id"`
}

// TokenPair is the credential bundle returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}
