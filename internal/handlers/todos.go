package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/petermazzocco/go-activities/internal/resource"
)

func (h *Handler) ListTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := h.Todos.List(r.Context(), userID(r), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *Handler) GetTodoHandler(w http.ResponseWriter, r *http.Request) {
	todo, err := h.Todos.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) CreateTodoHandler(w http.ResponseWriter, r *http.Request) {
	var in resource.TodoInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	todo, err := h.Todos.Create(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (h *Handler) UpdateTodoHandler(w http.ResponseWriter, r *http.Request) {
	var patch resource.TodoPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	todo, err := h.Todos.Update(r.Context(), userID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) ToggleTodoHandler(w http.ResponseWriter, r *http.Request) {
	todo, err := h.Todos.Toggle(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) DeleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Todos.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
