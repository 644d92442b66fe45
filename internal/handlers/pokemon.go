package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/petermazzocco/go-activities/internal/resource"
	"github.com/petermazzocco/go-activities/internal/suggest"
)

type searchResponse struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	ImageURL string   `json:"imageUrl"`
	Types    []string `json:"types"`
	Height   int      `json:"height"`
	Weight   int      `json:"weight"`
}

func (h *Handler) SearchPokemonHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	types := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, t.Type.Name)
	}
	writeJSON(w, http.StatusOK, searchResponse{
		ID:       p.ID,
		Name:     p.Name,
		ImageURL: p.ImageURL(),
		Types:    types,
		Height:   p.Height,
		Weight:   p.Weight,
	})
}

type suggestionsResponse struct {
	Success     bool                 `json:"success"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
	Error       string               `json:"error,omitempty"`
}

// SuggestPokemonHandler never fails the request; an unavailable or garbled
// AI answer comes back as an empty list with the reason.
func (h *Handler) SuggestPokemonHandler(w http.ResponseWriter, r *http.Request) {
	var (
		suggestions []suggest.Suggestion
		err         error = suggest.ErrNotConfigured
	)
	if h.Suggester != nil {
		suggestions, err = h.Suggester.Suggest(r.Context(), r.URL.Query().Get("interest"))
	}

	resp := suggestionsResponse{Success: err == nil, Suggestions: suggestions}
	if resp.Suggestions == nil {
		resp.Suggestions = []suggest.Suggestion{}
	}
	switch {
	case err == nil:
	case errors.Is(err, suggest.ErrNotConfigured):
		resp.Error = suggest.ErrNotConfigured.Error()
	case errors.Is(err, suggest.ErrUnparseable):
		resp.Error = suggest.ErrUnparseable.Error()
	default:
		resp.Error = suggest.ErrUnavailable.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListPokemonHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.Pokemon.List(r.Context(), userID(r), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) PokemonDetailHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Pokemon.Detail(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// SavePokemonHandler answers 201 for a new row and 200 when the Pokemon was
// already saved.
func (h *Handler) SavePokemonHandler(w http.ResponseWriter, r *http.Request) {
	var in resource.SavePokemonInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	row, created, err := h.Pokemon.Save(r.Context(), userID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, row)
}

func (h *Handler) DeletePokemonHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Pokemon.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPokemonReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Pokemon.ListReviews(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) CreatePokemonReviewHandler(w http.ResponseWriter, r *http.Request) {
	var in resource.ReviewInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	review, err := h.Pokemon.CreateReview(r.Context(), userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) UpdatePokemonReviewHandler(w http.ResponseWriter, r *http.Request) {
	var patch resource.ReviewPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	review, err := h.Pokemon.UpdateReview(r.Context(), userID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) DeletePokemonReviewHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Pokemon.DeleteReview(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
