package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ashureev/storyweaver/internal/domain"
	"github.com/ashureev/storyweaver/internal/generation"
)

const (
	msgMethodNotAllowed   = "Method Not Allowed"
	msgSceneBadRequest    = "Character payload and scene setting are required."
	msgImageBadRequest    = "Character and scene payloads are required."
	msgSceneUnexpected    = "Unexpected error generating scene."
	msgImageUnexpected    = "Unexpected error generating image."
	msgMissingCredentials = generation.MissingCredentialMessage
)

type generateSceneRequest struct {
	Character    *domain.CharacterProfile `json:"character"`
	SceneSetting string                   `json:"sceneSetting"`
	RecentScenes []domain.StoryScene      `json:"recentScenes"`
}

type generateImageRequest struct {
	Character    *domain.CharacterProfile `json:"character"`
	Scene        *domain.StoryScene       `json:"scene"`
	ArtDirection string                   `json:"artDirection"`
}

// allowPost rejects every method but POST with a JSON 405.
func allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	Error(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	return false
}

func upstreamMessage(err error, fallback string) string {
	if msg := generation.Message(err); msg != "" {
		return msg
	}
	return fallback
}

// GenerateScene writes one scene from a caller-supplied character and history.
// Nothing is persisted.
func (h *Handler) GenerateScene(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}
	if h.gen == nil {
		Error(w, http.StatusInternalServerError, msgMissingCredentials)
		return
	}

	var req generateSceneRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Character == nil || strings.TrimSpace(req.SceneSetting) == "" {
		Error(w, http.StatusBadRequest, msgSceneBadRequest)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	text, err := h.gen.GenerateScene(ctx, generation.SceneRequest{
		Character:    *req.Character,
		SceneSetting: strings.TrimSpace(req.SceneSetting),
		RecentScenes: req.RecentScenes,
	})
	if err != nil {
		slog.Error("Failed to generate scene", "character_id", req.Character.ID, "error", err)
		Error(w, http.StatusInternalServerError, upstreamMessage(err, msgSceneUnexpected))
		return
	}

	JSON(w, http.StatusOK, map[string]string{"scene": text})
}

// GenerateSceneImage illustrates a caller-supplied scene.
func (h *Handler) GenerateSceneImage(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}
	if h.gen == nil {
		Error(w, http.StatusInternalServerError, msgMissingCredentials)
		return
	}

	var req generateImageRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Character == nil || req.Scene == nil {
		Error(w, http.StatusBadRequest, msgImageBadRequest)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	img, err := h.gen.GenerateImage(ctx, generation.ImageRequest{
		Character:    *req.Character,
		Scene:        *req.Scene,
		ArtDirection: req.ArtDirection,
	})
	if err != nil {
		slog.Error("Failed to generate scene image", "character_id", req.Character.ID, "scene_id", req.Scene.ID, "error", err)
		Error(w, http.StatusInternalServerError, upstreamMessage(err, msgImageUnexpected))
		return
	}

	JSON(w, http.StatusOK, img)
}
