package http

import (
	"log/slog"
	"net/http"

	"github.com/eaaniwezi/anirecs/internal/service"
	"github.com/eaaniwezi/anirecs/pkg/validator"
)

// AnimeGenreHandler handles the anime-genre tagging endpoints.
type AnimeGenreHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewAnimeGenreHandler creates a new anime-genre HTTP handler.
func NewAnimeGenreHandler(svc *service.CatalogService, logger *slog.Logger) *AnimeGenreHandler {
	return &AnimeGenreHandler{service: svc, logger: logger}
}

// LinkRequest is the JSON request body for tagging an anime with a genre.
type LinkRequest struct {
	AnimeID int64 `json:"anime_id" validate:"required,gt=0"`
	GenreID int64 `json:"genre_id" validate:"required,gt=0"`
}

// Link handles POST /genre-anime
func (h *AnimeGenreHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.service.LinkAnimeGenre(r.Context(), req.AnimeID, req.GenreID); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: map[string]string{
		"message": "genre linked",
	}})
}

// ListAll handles GET /genre-anime
func (h *AnimeGenreHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.ListAnimeGenreLinks(r.Context())
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: links})
}

// Unlink handles DELETE /genre-anime/{gid}/{aid}
func (h *AnimeGenreHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	animeID, err := pathID(r, "aid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	genreID, err := pathID(r, "gid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	if err := h.service.UnlinkAnimeGenre(r.Context(), animeID, genreID); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{
		"message": "genre unlinked",
	}})
}

// GenresForAnime handles GET /genre-anime/anime/{aid}
func (h *AnimeGenreHandler) GenresForAnime(w http.ResponseWriter, r *http.Request) {
	animeID, err := pathID(r, "aid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	genres, err := h.service.ListAnimeGenres(r.Context(), animeID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: genres})
}

// AnimesForGenre handles GET /genre-anime/genre/{gid}
func (h *AnimeGenreHandler) AnimesForGenre(w http.ResponseWriter, r *http.Request) {
	genreID, err := pathID(r, "gid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	animes, err := h.service.ListGenreAnimes(r.Context(), genreID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: animes})
}
