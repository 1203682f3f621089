// Package generation talks to the hosted text and image generation service.
package generation

import (
	"context"
	"errors"
	"strings"

	"github.com/ashureev/storyweaver/internal/domain"
)

var (
	// ErrMissingCredential is returned when no API key is configured.
	ErrMissingCredential = errors.New("gemini api key not configured")
	// ErrEmptyScene is returned when the service responds without any text.
	ErrEmptyScene = errors.New("gemini returned an empty scene")
	// ErrNoImage is returned when the service responds without inline image data.
	ErrNoImage = errors.New("gemini returned no inline image data")
)

// Messages shown to users for the errors above.
const (
	MissingCredentialMessage = "Missing GEMINI_API_KEY in environment."
	EmptySceneMessage        = "Gemini returned an empty scene."
	NoImageMessage           = "Gemini did not return any inline image data."
)

// Message returns the text to show a user for err: the fixed message for the
// errors of this package, otherwise the trimmed error text.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return MissingCredentialMessage
	case errors.Is(err, ErrEmptyScene):
		return EmptySceneMessage
	case errors.Is(err, ErrNoImage):
		return NoImageMessage
	}
	return strings.TrimSpace(err.Error())
}

// SceneRequest is everything needed to write the next scene of a thread.
type SceneRequest struct {
	Character    domain.CharacterProfile
	SceneSetting string
	RecentScenes []domain.StoryScene
}

// ImageRequest describes the scene to illustrate.
type ImageRequest struct {
	Character    domain.CharacterProfile
	Scene        domain.StoryScene
	ArtDirection string
}

// Image is a generated illustration with base64-encoded data.
type Image struct {
	Data     string `json:"image"`
	MIMEType string `json:"mimeType"`
}

// Generator produces scene text and scene illustrations.
type Generator interface {
	GenerateScene(ctx context.Context, req SceneRequest) (string, error)
	GenerateImage(ctx context.Context, req ImageRequest) (Image, error)
}
