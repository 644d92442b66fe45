package auth

import (
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

// UseProviders registers the OAuth providers that have credentials and
// points gothic at the app's session store.
func UseProviders(store sessions.Store, googleKey, googleSecret, callbackURL string) []string {
	gothic.Store = store

	var names []string
	if googleKey != "" && googleSecret != "" {
		goth.UseProviders(google.New(googleKey, googleSecret, callbackURL, "email", "profile"))
		names = append(names, "google")
	}
	return names
}
