package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mfadvisor-backend/internal/handlers"
	"mfadvisor-backend/internal/middleware"
	"mfadvisor-backend/internal/websocket"
)

func New(
	chatHandler *handlers.ChatHandler,
	runHandler *handlers.RunHandler,
	wsHub *websocket.Hub,
	staticFS fs.FS,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Chat rate limiter (20 req/min per IP); crew runs are expensive.
	chatLimiter := middleware.NewRateLimiter(20, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chatLimiter.Middleware)
			r.Post("/chat", chatHandler.Chat)
		})

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", runHandler.List)
			r.Get("/{id}", runHandler.Get)
		})
	})

	// Run progress stream
	r.Get("/ws", wsHub.HandleWebSocket)

	// Static chat UI
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		req.URL.Path = "/"
		http.FileServer(http.FS(staticFS)).ServeHTTP(w, req)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	return r
}
