package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

type contextKey struct{}

// GatedPrefixes are the feature pages that need a session.
var GatedPrefixes = []string{"/todo", "/drive", "/food", "/pokemon", "/notes"}

// WithUser stores userID on ctx.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the caller put on ctx by Guard, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// UserLookup reports whether the user behind a session still exists.
type UserLookup func(ctx context.Context, userID string) (bool, error)

// Guard resolves the session once per request. A session whose user is gone
// is cleared and counts as signed out. Unauthenticated requests to a gated
// page are redirected to "/"; unauthenticated API calls get a 401.
// Everything else passes through with the caller, if any, on the context.
func Guard(sessions *Sessions, lookup UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sessions.UserID(r)
			if userID != "" && lookup != nil {
				ok, err := lookup(r.Context(), userID)
				if err != nil {
					log.Println("Failed to resolve session user:", err)
					writeJSONError(w, http.StatusInternalServerError, "Failed to fetch user")
					return
				}
				if !ok {
					if err := sessions.Logout(w, r); err != nil {
						log.Println("Failed to clear stale session:", err)
					}
					userID = ""
				}
			}
			if userID == "" {
				switch {
				case isGated(r.URL.Path):
					http.Redirect(w, r, "/", http.StatusSeeOther)
					return
				case hasPrefix(r.URL.Path, "/api") || hasPrefix(r.URL.Path, "/ws"):
					writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func isGated(path string) bool {
	for _, prefix := range GatedPrefixes {
		if hasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasPrefix matches whole path segments, so "/todos" is not under "/todo".
func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
