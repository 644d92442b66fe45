package handlers

import (
	"log"
	"net/http"

	"github.com/markbates/goth/gothic"
	"github.com/petermazzocco/go-activities/internal/auth"
	"github.com/petermazzocco/go-activities/internal/resource"
	"github.com/petermazzocco/go-activities/models"
)

type sessionResponse struct {
	User    *models.User `json:"user,omitempty"`
	Message string       `json:"message"`
}

// LandingHandler is the entry surface: the signed-in landing state when a
// session exists, otherwise what is needed to sign in.
func (h *Handler) LandingHandler(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	if id == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
			"providers":     h.Providers,
		})
		return
	}

	user, err := h.Accounts.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          user,
		"message":       "Welcome back, " + user.Name,
	})
}

func (h *Handler) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var in auth.SignUpInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.Identity.SignUp(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	if !h.startSession(w, r, user.ID) {
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{User: user, Message: "Account created"})
}

func (h *Handler) SignInHandler(w http.ResponseWriter, r *http.Request) {
	var in auth.SignInInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.Identity.SignIn(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	if !h.startSession(w, r, user.ID) {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user, Message: "Signed in"})
}

func (h *Handler) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		log.Println("Failed to clear session:", err)
	}
	writeJSON(w, http.StatusOK, sessionResponse{Message: "Signed out"})
}

// BeginOAuthHandler starts the provider flow, or finishes it straight away
// when gothic already holds a provider session.
func (h *Handler) BeginOAuthHandler(w http.ResponseWriter, r *http.Request) {
	if gothUser, err := gothic.CompleteUserAuth(w, r); err == nil {
		h.finishOAuth(w, r, gothUser.Email, gothUser.Name)
		return
	}
	gothic.BeginAuthHandler(w, r)
}

// UserLoginHandler is the provider callback. The user is matched by email
// and created on first login.
func (h *Handler) UserLoginHandler(w http.ResponseWriter, r *http.Request) {
	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		log.Println("OAuth callback failed:", err)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}
	h.finishOAuth(w, r, gothUser.Email, gothUser.Name)
}

func (h *Handler) finishOAuth(w http.ResponseWriter, r *http.Request, email, name string) {
	user, err := h.Identity.FromProvider(r.Context(), email, name)
	if err != nil {
		writeError(w, err)
		return
	}
	if !h.startSession(w, r, user.ID) {
		return
	}
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, id string) bool {
	if err := h.Sessions.Login(w, r, id); err != nil {
		log.Println("Failed to save session:", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to save session"})
		return false
	}
	return true
}

func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Accounts.Profile(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteAccountHandler removes the caller and everything they own, then
// signs them out.
func (h *Handler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Delete(r.Context(), userID(r)); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Sessions.Logout(w, r); err != nil {
		log.Println("Failed to clear session:", err)
	}
	writeJSON(w, http.StatusOK, sessionResponse{Message: "Account deleted"})
}

func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Summary.Counts(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *Handler) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	if id == "" {
		writeError(w, resource.ErrNotAuthenticated)
		return
	}
	h.Hub.Serve(w, r, id)
}
