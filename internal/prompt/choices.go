package prompt

import (
	"errors"
	"fmt"

	"github.com/ashureev/storyweaver/internal/domain"
)

// ErrUnknownChoice is returned for a choice id outside the fixed set.
var ErrUnknownChoice = errors.New("unknown story choice")

// Choice is one of the interactive-mode decisions offered after a scene.
type Choice struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Action string `json:"action"`
}

var choices = []Choice{
	{ID: "explore", Label: "Explore the surroundings", Action: "carefully explore the area"},
	{ID: "confront", Label: "Confront the situation directly", Action: "confront what lies ahead"},
	{ID: "retreat", Label: "Take a moment to strategize", Action: "pause and reassess the situation"},
	{ID: "interact", Label: "Engage with characters nearby", Action: "interact with those around them"},
}

// Choices returns the interactive-mode choices in display order.
func Choices() []Choice {
	out := make([]Choice, len(choices))
	copy(out, choices)
	return out
}

// ContinuationPrompt turns a choice into a scene prompt for the character.
func ContinuationPrompt(character domain.CharacterProfile, choiceID string) (string, error) {
	for _, c := range choices {
		if c.ID == choiceID {
			return fmt.Sprintf("%s decides to %s. What happens next?", character.Name, c.Action), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChoice, choiceID)
}
