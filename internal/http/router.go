package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cdyhdrxj/store-backend/internal/auth"
	"github.com/cdyhdrxj/store-backend/internal/user"
)

func NewRouter(h *Handler, tokens *auth.TokenManager, users auth.UserSource, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(corsMiddleware(corsOrigins))
	r.Use(auth.Authenticator(tokens, users))

	staff := auth.Require(user.RoleManager, user.RoleAdmin)
	anyRole := auth.Require(user.RoleUser, user.RoleManager, user.RoleAdmin)

	r.Get("/health", h.Health)

	r.Post("/login", h.Login)
	r.With(anyRole).Get("/login/me", h.Me)

	r.Route("/brands", func(r chi.Router) {
		r.Get("/", h.ListBrands)
		r.Get("/{brandID}", h.GetBrand)
		r.With(staff).Post("/", h.CreateBrand)
		r.With(staff).Patch("/{brandID}", h.UpdateBrand)
		r.With(staff).Delete("/{brandID}", h.DeleteBrand)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{categoryID}", h.GetCategory)
		r.With(staff).Post("/", h.CreateCategory)
		r.With(staff).Patch("/{categoryID}", h.UpdateCategory)
		r.With(staff).Delete("/{categoryID}", h.DeleteCategory)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Get("/{itemID}", h.GetItem)
		r.Get("/{itemID}/similar", h.SimilarItems)
		r.With(staff).Post("/", h.CreateItem)
		r.With(staff).Patch("/{itemID}", h.UpdateItem)
		r.With(staff).Delete("/{itemID}", h.DeleteItem)
		r.With(staff).Patch("/add/{itemID}", h.Restock)
		r.With(staff).Post("/images/{itemID}", h.UploadImage)
		r.With(staff).Delete("/images/{imageID}", h.DeleteImage)
		r.With(staff).Post("/cover/{itemID}", h.UploadCover)
		r.With(staff).Delete("/cover/{itemID}", h.DeleteCover)
	})

	r.With(auth.Require(user.RoleUser)).Patch("/buy/{itemID}", h.Buy)

	r.With(auth.Require(user.RoleManager)).Get("/ws", h.WebSocket)

	r.With(auth.Require(user.RoleAdmin)).Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Get("/{userID}", h.GetUser)
		r.Patch("/{userID}", h.UpdateUserRole)
		r.Delete("/{userID}", h.DeleteUser)
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// corsMiddleware handles preflight and response headers for the configured
// origins ("*" allows any).
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if _, ok := allowed[origin]; allowAll || ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
