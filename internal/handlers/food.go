package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/petermazzocco/go-activities/internal/resource"
)

func (h *Handler) ListFoodHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	photos, err := h.Food.List(r.Context(), userID(r), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (h *Handler) FoodDetailHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Food.Detail(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) UploadFoodHandler(w http.ResponseWriter, r *http.Request) {
	name, file, err := readUpload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	photo, err := h.Food.Upload(r.Context(), userID(r), name, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

func (h *Handler) RenameFoodHandler(w http.ResponseWriter, r *http.Request) {
	var in renameRequest
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	photo, err := h.Food.Rename(r.Context(), userID(r), chi.URLParam(r, "id"), in.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *Handler) DeleteFoodHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Food.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFoodReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Food.ListReviews(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) CreateFoodReviewHandler(w http.ResponseWriter, r *http.Request) {
	var in resource.ReviewInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	review, err := h.Food.CreateReview(r.Context(), userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) UpdateFoodReviewHandler(w http.ResponseWriter, r *http.Request) {
	var patch resource.ReviewPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	review, err := h.Food.UpdateReview(r.Context(), userID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) DeleteFoodReviewHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Food.DeleteReview(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
