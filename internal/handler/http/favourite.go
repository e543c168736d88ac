package http

import (
	"log/slog"
	"net/http"

	"github.com/eaaniwezi/anirecs/internal/service"
	"github.com/eaaniwezi/anirecs/pkg/middleware"
	"github.com/eaaniwezi/anirecs/pkg/validator"
)

// FavouriteHandler handles the user favourites endpoints.
type FavouriteHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewFavouriteHandler creates a new favourites HTTP handler.
func NewFavouriteHandler(svc *service.CatalogService, logger *slog.Logger) *FavouriteHandler {
	return &FavouriteHandler{service: svc, logger: logger}
}

// AddFavouriteRequest is the JSON request body for adding a favourite.
type AddFavouriteRequest struct {
	UserID  int64 `json:"user_id" validate:"required,gt=0"`
	AnimeID int64 `json:"anime_id" validate:"required,gt=0"`
}

// Add handles POST /user/addfavourites
func (h *FavouriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddFavouriteRequest
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

	callerID := middleware.UserIDFromContext(r.Context())
	if err := h.service.AddFavourite(r.Context(), callerID, req.UserID, req.AnimeID); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: map[string]string{
		"message": "favourite added",
	}})
}

// Remove handles DELETE /user/removefavourites/{uid}/{aid}
func (h *FavouriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "uid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	animeID, err := pathID(r, "aid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	callerID := middleware.UserIDFromContext(r.Context())
	if err := h.service.RemoveFavourite(r.Context(), callerID, userID, animeID); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{
		"message": "favourite removed",
	}})
}

// List handles GET /user/favourites/{uid}
func (h *FavouriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "uid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	animes, err := h.service.ListFavourites(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: animes})
}
