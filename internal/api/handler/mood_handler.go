package handler

import (
	"encoding/json"
	"net/http"

	"moodly/internal/api/middleware"
	"moodly/internal/app/service"
	"moodly/internal/common"

	"github.com/go-chi/chi/v5"
)

type MoodHandler struct {
	moodService *service.MoodService
}

func NewMoodHandler(moodService *service.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

func (h *MoodHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listEntries)             // GET /api/v1/moods
	r.Post("/", h.addEntry)               // POST /api/v1/moods
	r.Put("/{entryID}", h.updateEntry)    // PUT /api/v1/moods/{id}
	r.Delete("/{entryID}", h.deleteEntry) // DELETE /api/v1/moods/{id}
}

func (h *MoodHandler) listEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	entries, err := h.moodService.List(r.Context(), user.ID)
	if err != nil {
		common.RespondWithAppError(w, err)
		return
	}

	count := len(entries)
	common.RespondWithJSON(w, http.StatusOK, common.Envelope{Success: true, Count: &count, Data: entries})
}

func (h *MoodHandler) addEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req service.AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	entry, err := h.moodService.Add(r.Context(), user.ID, req)
	if err != nil {
		common.RespondWithAppError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, common.Envelope{Success: true, Data: entry})
}

func (h *MoodHandler) updateEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	entryID := chi.URLParam(r, "entryID")

	var req service.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	entry, err := h.moodService.Update(r.Context(), user.ID, entryID, req)
	if err != nil {
		common.RespondWithAppError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.Envelope{Success: true, Data: entry})
}

func (h *MoodHandler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	entryID := chi.URLParam(r, "entryID")

	if err := h.moodService.Delete(r.Context(), user.ID, entryID); err != nil {
		common.RespondWithAppError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.Envelope{Success: true, Data: map[string]interface{}{}})
}
