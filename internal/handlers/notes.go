package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/petermazzocco/go-activities/internal/resource"
)

func (h *Handler) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Notes.List(r.Context(), userID(r), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *Handler) GetNoteHandler(w http.ResponseWriter, r *http.Request) {
	note, err := h.Notes.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	var in resource.NoteInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	note, err := h.Notes.Create(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *Handler) UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	var patch resource.NotePatch
	if err := decode(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	note, err := h.Notes.Update(r.Context(), userID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Notes.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
