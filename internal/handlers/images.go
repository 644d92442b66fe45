package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/petermazzocco/go-activities/internal/resource"
	"github.com/petermazzocco/go-activities/internal/storage"
)

const (
	maxMultipartMemory = 8 << 20
	// maxUploadBody leaves room for the form envelope around a file of the
	// largest accepted size.
	maxUploadBody = storage.MaxUploadSize + 1<<20
)

// readUpload pulls the "file" part and optional "name" field out of a
// multipart form. A missing file is not an error here; the upload pipeline
// reports it. At most one byte past the size limit is read so oversized
// files are still rejected with the size message.
func readUpload(w http.ResponseWriter, r *http.Request) (string, *resource.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, &resource.ValidationError{Fields: []resource.FieldError{
				{Field: "file", Message: "File size must be less than 5MB"},
			}}
		}
		return "", nil, err
	}
	name := r.FormValue("name")

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return name, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxUploadSize+1))
	if err != nil {
		return "", nil, err
	}
	return name, &resource.File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	var invalid *resource.ValidationError
	if errors.As(err, &invalid) {
		writeError(w, err)
		return
	}
	log.Println("Failed to read upload:", err)
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Failed to read file"})
}

func listOptions(r *http.Request) (resource.ListOptions, error) {
	q := r.URL.Query()
	return resource.ParseListOptions(q.Get("search"), q.Get("sortBy"), q.Get("sortOrder"))
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) ListPhotosHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	photos, err := h.Photos.List(r.Context(), userID(r), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (h *Handler) GetPhotoHandler(w http.ResponseWriter, r *http.Request) {
	photo, err := h.Photos.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *Handler) UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	name, file, err := readUpload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	photo, err := h.Photos.Upload(r.Context(), userID(r), name, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

func (h *Handler) RenamePhotoHandler(w http.ResponseWriter, r *http.Request) {
	var in renameRequest
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	photo, err := h.Photos.Rename(r.Context(), userID(r), chi.URLParam(r, "id"), in.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *Handler) DeletePhotoHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Photos.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
