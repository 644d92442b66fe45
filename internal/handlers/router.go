package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/petermazzocco/go-activities/internal/auth"
)

type RouterConfig struct {
	FrontendURL string
	// RateLimit is requests per minute per IP and endpoint on /api.
	RateLimit int
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.FrontendURL != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.FrontendURL},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(auth.Guard(h.Sessions, h.Identity.Exists))

	// Entry and identity
	r.Get("/", h.LandingHandler)
	r.Post("/auth/signup", h.SignUpHandler)
	r.Post("/auth/signin", h.SignInHandler)
	r.Post("/auth/signout", h.SignOutHandler)
	r.Get("/auth/{provider}", h.BeginOAuthHandler)
	r.Get("/auth/{provider}/callback", h.UserLoginHandler)

	// Views refreshed by invalidation messages
	r.Get("/ws", h.WebSocketHandler)
	r.Get("/todo", h.ListTodosHandler)
	r.Get("/drive", h.ListPhotosHandler)
	r.Get("/food", h.ListFoodHandler)
	r.Get("/food/{id}", h.FoodDetailHandler)
	r.Get("/pokemon", h.ListPokemonHandler)
	r.Get("/pokemon/{id}", h.PokemonDetailHandler)
	r.Get("/notes", h.ListNotesHandler)

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.Limit(
				cfg.RateLimit,
				1*time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			))
		}

		r.Get("/user", h.GetUserHandler)
		r.Delete("/account", h.DeleteAccountHandler)
		r.Get("/summary", h.SummaryHandler)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", h.ListTodosHandler)
			r.Post("/", h.CreateTodoHandler)
			r.Get("/{id}", h.GetTodoHandler)
			r.Patch("/{id}", h.UpdateTodoHandler)
			r.Post("/{id}/toggle", h.ToggleTodoHandler)
			r.Delete("/{id}", h.DeleteTodoHandler)
		})

		r.Route("/photos", func(r chi.Router) {
			r.Get("/", h.ListPhotosHandler)
			r.Post("/", h.UploadPhotoHandler)
			r.Get("/{id}", h.GetPhotoHandler)
			r.Patch("/{id}", h.RenamePhotoHandler)
			r.Delete("/{id}", h.DeletePhotoHandler)
		})

		r.Route("/food", func(r chi.Router) {
			r.Get("/", h.ListFoodHandler)
			r.Post("/", h.UploadFoodHandler)
			r.Get("/{id}", h.FoodDetailHandler)
			r.Patch("/{id}", h.RenameFoodHandler)
			r.Delete("/{id}", h.DeleteFoodHandler)
			r.Get("/{id}/reviews", h.ListFoodReviewsHandler)
			r.Post("/{id}/reviews", h.CreateFoodReviewHandler)
			r.Patch("/reviews/{id}", h.UpdateFoodReviewHandler)
			r.Delete("/reviews/{id}", h.DeleteFoodReviewHandler)
		})

		r.Route("/pokemon", func(r chi.Router) {
			r.Get("/search", h.SearchPokemonHandler)
			r.Get("/suggestions", h.SuggestPokemonHandler)
			r.Get("/", h.ListPokemonHandler)
			r.Post("/", h.SavePokemonHandler)
			r.Get("/{id}", h.PokemonDetailHandler)
			r.Delete("/{id}", h.DeletePokemonHandler)
			r.Get("/{id}/reviews", h.ListPokemonReviewsHandler)
			r.Post("/{id}/reviews", h.CreatePokemonReviewHandler)
			r.Patch("/reviews/{id}", h.UpdatePokemonReviewHandler)
			r.Delete("/reviews/{id}", h.DeletePokemonReviewHandler)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", h.ListNotesHandler)
			r.Post("/", h.CreateNoteHandler)
			r.Get("/{id}", h.GetNoteHandler)
			r.Patch("/{id}", h.UpdateNoteHandler)
			r.Delete("/{id}", h.DeleteNoteHandler)
		})
	})

	return r
}
