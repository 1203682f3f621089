// Package api provides HTTP handlers for the StoryWeaver API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/storyweaver/internal/generation"
	"github.com/ashureev/storyweaver/internal/identity"
	"github.com/ashureev/storyweaver/internal/session"
	"github.com/ashureev/storyweaver/internal/store"
)

const maxBodyBytes = 1 << 20

// Handler serves the JSON API.
type Handler struct {
	library        *store.Library
	orch           *session.Orchestrator
	gen            generation.Generator
	requestTimeout time.Duration
}

// NewHandler creates a new Handler. gen is nil when no generation credential
// is configured.
func NewHandler(library *store.Library, orch *session.Orchestrator, gen generation.Generator, requestTimeout time.Duration) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = 90 * time.Second
	}
	return &Handler{
		library:        library,
		orch:           orch,
		gen:            gen,
		requestTimeout: requestTimeout,
	}
}

// RegisterRoutes mounts every API route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)

	// Method checks live in the handlers so that the 405 carries a JSON body.
	r.HandleFunc("/api/generateScene", h.GenerateScene)
	r.HandleFunc("/api/generateSceneImage", h.GenerateSceneImage)

	r.Get("/api/choices", h.ListChoices)
	r.Get("/api/pack", h.GetPack)
	r.Route("/api/characters", func(r chi.Router) {
		r.Get("/", h.ListCharacters)
		r.Post("/", h.CreateCharacter)
		r.Route("/{characterID}", func(r chi.Router) {
			r.Get("/", h.GetCharacter)
			r.Get("/scenes", h.ListScenes)
			r.Post("/scenes", h.SubmitScene)
			r.Post("/choices/{choice}", h.SubmitChoice)
			r.Get("/board", h.GetBoard)
			r.Get("/export.pdf", h.ExportPDF)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func namespace(w http.ResponseWriter, r *http.Request) (string, bool) {
	ns := identity.NamespaceFromContext(r.Context())
	if ns == "" {
		Error(w, http.StatusUnauthorized, "missing anonymous identity")
		return "", false
	}
	return ns, true
}
