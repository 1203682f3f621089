package visual

import (
	"regexp"
	"strings"

	"github.com/ashureev/storyweaver/internal/domain"
)

// FigureWindow is the number of latest scenes drawn as action figures.
const FigureWindow = 3

// DefaultArchetype stands in for a trait list with no usable parts.
const DefaultArchetype = "Original archetype"

var traitSeparators = regexp.MustCompile(`(?i)[,;/\x{00b7}]|\band\b`)

// TraitSummary reduces a free-text trait list to at most two parts.
func TraitSummary(traits string) string {
	var parts []string
	for _, p := range traitSeparators.Split(traits, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
		if len(parts) == 2 {
			break
		}
	}
	if len(parts) == 0 {
		return DefaultArchetype
	}
	return strings.Join(parts, " / ")
}

// Figure is the action-figure render of one scene.
type Figure struct {
	Scene  domain.StoryScene `json:"scene"`
	Pose   Pose              `json:"pose"`
	Preset PosePreset        `json:"preset"`
}

// ActionFigure classifies a scene from its prompt and narrative.
func ActionFigure(scene domain.StoryScene) Figure {
	pose := ClassifyPose(scene.Prompt + " " + scene.Content)
	return Figure{Scene: scene, Pose: pose, Preset: Preset(pose)}
}

// Board is the full derived visual state of a story thread.
type Board struct {
	Headline string   `json:"headline"`
	Figures  []Figure `json:"figures"`
	Cards    []Card   `json:"cards"`
}

// NewBoard derives figures for the latest scenes (newest first) and one card
// per scene in thread order.
func NewBoard(profile domain.CharacterProfile, scenes []domain.StoryScene) Board {
	recent := domain.RecentScenes(scenes, FigureWindow)
	figures := make([]Figure, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		figures = append(figures, ActionFigure(recent[i]))
	}

	cards := make([]Card, 0, len(scenes))
	for i, s := range scenes {
		cards = append(cards, SceneCard(s, i))
	}

	return Board{
		Headline: TraitSummary(profile.Traits) + " / " + profile.Role,
		Figures:  figures,
		Cards:    cards,
	}
}
