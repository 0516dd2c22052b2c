package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Guruganeshkannan/Afterlife/internal/auth"
	"github.com/Guruganeshkannan/Afterlife/internal/http/handler"
	"github.com/Guruganeshkannan/Afterlife/internal/http/middleware"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Message *handler.MessageHandler
	Control *handler.ControlHandler
}

// NewRouter wires HTTP routes.
func NewRouter(h Handlers, tokens *auth.TokenManager) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		r.Get("/me", h.User.Me)
		r.Post("/profile/train", h.User.TrainProfile)
	})

	r.Route("/api/messages", func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		r.Post("/", h.Message.Create)
		r.Get("/", h.Message.List)
		r.Get("/{id}", h.Message.Get)
		r.Put("/{id}", h.Message.Update)
		r.Delete("/{id}", h.Message.Delete)
	})

	r.Route("/control", func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		r.Post("/start", h.Control.Start)
		r.Post("/stop", h.Control.Stop)
		r.Get("/status", h.Control.Status)
		r.Post("/deliver", h.Control.DeliverNow)
	})

	return r
}
