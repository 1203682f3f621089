package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ashureev/storyweaver/internal/prompt"
)

// Default generation settings.
const (
	DefaultSceneModel       = "gemini-2.0-flash"
	DefaultImageModel       = "imagen-3.0-generate-001"
	DefaultSceneTemperature = 0.8
	DefaultSceneMaxTokens   = 600
	DefaultImageTemperature = 0.4
	DefaultImageMIMEType    = "image/png"
)

// contentModels is the subset of *genai.Models used here.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures a Gemini generator.
type GeminiConfig struct {
	APIKey           string
	SceneModel       string
	ImageModel       string
	SceneTemperature float32
	SceneMaxTokens   int32
	ImageTemperature float32
	RateInterval     time.Duration
	RateBurst        int
}

// Gemini implements Generator on the Gemini API.
type Gemini struct {
	models  contentModels
	cfg     GeminiConfig
	limiter *rate.Limiter
}

// NewGemini creates a client for the Gemini API.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGemini(client.Models, cfg), nil
}

func newGemini(models contentModels, cfg GeminiConfig) *Gemini {
	if cfg.SceneModel == "" {
		cfg.SceneModel = DefaultSceneModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if cfg.SceneTemperature <= 0 {
		cfg.SceneTemperature = DefaultSceneTemperature
	}
	if cfg.SceneMaxTokens <= 0 {
		cfg.SceneMaxTokens = DefaultSceneMaxTokens
	}
	if cfg.ImageTemperature <= 0 {
		cfg.ImageTemperature = DefaultImageTemperature
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	limit := rate.Inf
	if cfg.RateInterval > 0 {
		limit = rate.Every(cfg.RateInterval)
	}

	return &Gemini{
		models:  models,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, cfg.RateBurst),
	}
}

// GenerateScene writes the next scene under the continuity instruction.
func (g *Gemini) GenerateScene(ctx context.Context, req SceneRequest) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for rate limiter: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.Continuity(req.Character, req.RecentScenes), genai.RoleUser),
		Temperature:       genai.Ptr(g.cfg.SceneTemperature),
		MaxOutputTokens:   g.cfg.SceneMaxTokens,
	}

	res, err := g.models.GenerateContent(ctx, g.cfg.SceneModel, genai.Text(prompt.SceneRequest(req.SceneSetting)), config)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(responseText(res))
	if text == "" {
		return "", ErrEmptyScene
	}

	slog.Debug("Scene generated", "character_id", req.Character.ID, "model", g.cfg.SceneModel, "chars", len(text))
	return text, nil
}

// GenerateImage illustrates a scene and returns the first inline image.
func (g *Gemini) GenerateImage(ctx context.Context, req ImageRequest) (Image, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Image{}, fmt.Errorf("wait for rate limiter: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr(g.cfg.ImageTemperature),
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	brief := prompt.Image(req.Character, req.Scene, req.ArtDirection)
	res, err := g.models.GenerateContent(ctx, g.cfg.ImageModel, genai.Text(brief), config)
	if err != nil {
		return Image{}, err
	}

	blob := firstImage(res)
	if blob == nil || len(blob.Data) == 0 {
		return Image{}, ErrNoImage
	}

	mime := blob.MIMEType
	if mime == "" {
		mime = DefaultImageMIMEType
	}
	return Image{
		Data:     base64.StdEncoding.EncodeToString(blob.Data),
		MIMEType: mime,
	}, nil
}

func responseText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func firstImage(res *genai.GenerateContentResponse) *genai.Blob {
	if res == nil {
		return nil
	}
	for _, cand := range res.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" || strings.HasPrefix(mime, "image/") {
				return part.InlineData
			}
		}
	}
	return nil
}
