package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/petermazzocco/go-activities/internal/auth"
	"github.com/petermazzocco/go-activities/internal/pokeapi"
	"github.com/petermazzocco/go-activities/internal/realtime"
	"github.com/petermazzocco/go-activities/internal/resource"
	"github.com/petermazzocco/go-activities/internal/suggest"
	"github.com/petermazzocco/go-activities/internal/summary"
)

type Catalog interface {
	Search(ctx context.Context, name string) (*pokeapi.Pokemon, error)
}

type Suggester interface {
	Suggest(ctx context.Context, interest string) ([]suggest.Suggestion, error)
}

type Summarizer interface {
	Counts(ctx context.Context, userID string) (*summary.Counts, error)
}

// Handler exposes every operation over JSON.
type Handler struct {
	Todos    *resource.Todos
	Photos   *resource.Photos
	Food     *resource.Food
	Pokemon  *resource.Pokemon
	Notes    *resource.Notes
	Accounts *resource.Accounts

	Identity  *auth.Identity
	Sessions  *auth.Sessions
	Providers []string

	Hub       *realtime.Hub
	Catalog   Catalog
	Suggester Suggester
	Summary   Summarizer
}

type errorResponse struct {
	Error  string                `json:"error"`
	Fields []resource.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Failed to encode response:", err)
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &resource.ValidationError{Fields: []resource.FieldError{{Field: "body", Message: "Invalid request body"}}}
	}
	return nil
}

// writeError maps an operation error to a status code. Internal causes are
// logged where they happen and never written to the response.
func writeError(w http.ResponseWriter, err error) {
	var verr *resource.ValidationError
	var uerr *resource.UpstreamError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, resource.ErrNotAuthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrAlreadyRegistered):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, resource.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, pokeapi.ErrEmptyName):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: pokeapi.ErrEmptyName.Error()})
	case errors.Is(err, pokeapi.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: pokeapi.ErrNotFound.Error()})
	case errors.Is(err, pokeapi.ErrFetch):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: pokeapi.ErrFetch.Error()})
	case errors.As(err, &uerr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: uerr.Message})
	default:
		log.Println("Unhandled error:", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Something went wrong"})
	}
}

func userID(r *http.Request) string {
	return auth.UserID(r.Context())
}
