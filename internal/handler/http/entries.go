package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lightningsoon/KeyMinder/internal/app"
	"github.com/lightningsoon/KeyMinder/internal/logger"
	"github.com/lightningsoon/KeyMinder/internal/utils"
	"github.com/lightningsoon/KeyMinder/models"
)

const entryIDParam = "id"

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	entries, err := h.services.EntryService.List(r.Context(), principal)
	if err != nil {
		writeError(w, r, err, "listing entries failed")
		return
	}

	utils.WriteJSON(w, models.EntriesResponse{PasswordEntries: entries}, http.StatusOK)
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())
	entryID := chi.URLParam(r, entryIDParam)

	entry, err := h.services.EntryService.Get(r.Context(), principal, entryID)
	if err != nil {
		writeError(w, r, err, "getting entry failed")
		return
	}

	utils.WriteJSON(w, models.EntryResponse{PasswordEntry: entry}, http.StatusOK)
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	principal, _ := utils.GetPrincipalFromContext(r.Context())

	var entry models.PasswordEntry
	if err := decodeJSON(r, &entry); err != nil {
		writeError(w, r, err, "invalid entry")
		return
	}

	created, err := h.services.EntryService.Create(r.Context(), principal, entry)
	if err != nil {
		writeError(w, r, err, "creating entry failed")
		return
	}

	log.Info().Str("entry_id", created.ID).Msg("entry created")

	utils.WriteJSON(w, models.EntryResponse{
		Message:       app.MsgEntryCreated,
		PasswordEntry: created,
	}, http.StatusCreated)
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())
	entryID := chi.URLParam(r, entryIDParam)

	var update models.EntryUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, r, err, "invalid entry update")
		return
	}

	updated, err := h.services.EntryService.Update(r.Context(), principal, entryID, update)
	if err != nil {
		writeError(w, r, err, "updating entry failed")
		return
	}

	utils.WriteJSON(w, models.EntryResponse{
		Message:       app.MsgEntryUpdated,
		PasswordEntry: updated,
	}, http.StatusOK)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	principal, _ := utils.GetPrincipalFromContext(r.Context())
	entryID := chi.URLParam(r, entryIDParam)

	if err := h.services.EntryService.Delete(r.Context(), principal, entryID); err != nil {
		writeError(w, r, err, "deleting entry failed")
		return
	}

	utils.WriteMessage(w, app.MsgEntryDeleted, http.StatusOK)
}
