// Package prompt assembles the instruction text sent to the generation service.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ashureev/storyweaver/internal/domain"
)

// HistoryWindow is the number of most recent scenes embedded in a continuity prompt.
const HistoryWindow = 3

// NoScenesSentinel replaces the scene history when a character has no scenes yet.
const NoScenesSentinel = "No scenes have been generated yet."

// DefaultArtDirection is used when an image request carries no art direction.
const DefaultArtDirection = "Big generous wide shot, painterly lighting, high fidelity, richly detailed."

const guidelines = `Guidelines:
1. Maintain the character's established voice, motivations, and emotional arc.
2. Never contradict stated facts or prior scenes. Reference callbacks where natural.
3. Write immersive prose (2-5 paragraphs) rich with sensory detail and dialogue.
4. Conclude each scene with a hook that invites another scene, without resolving every thread.
5. The output must be under 600 tokens and contain narrative only, with no meta commentary.`

// Continuity builds the system instruction for a new scene from the profile
// and up to HistoryWindow of the most recent scenes.
func Continuity(character domain.CharacterProfile, recent []domain.StoryScene) string {
	recent = domain.RecentScenes(recent, HistoryWindow)

	var sb strings.Builder
	sb.WriteString("You are StoryWeaver, an imaginative co-author who ALWAYS preserves continuity.\n")
	sb.WriteString("Character Profile:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", character.Name)
	fmt.Fprintf(&sb, "- Age: %s\n", character.Age)
	fmt.Fprintf(&sb, "- Role: %s\n", character.Role)
	fmt.Fprintf(&sb, "- Personality Traits: %s\n", character.Traits)
	fmt.Fprintf(&sb, "- Backstory: %s\n", character.Backstory)
	sb.WriteString("\nScene History:\n")
	sb.WriteString(sceneHistory(recent))
	sb.WriteString("\n\n")
	sb.WriteString(guidelines)
	return sb.String()
}

func sceneHistory(scenes []domain.StoryScene) string {
	if len(scenes) == 0 {
		return NoScenesSentinel
	}

	pairs := make([]string, 0, len(scenes))
	for i, scene := range scenes {
		pairs = append(pairs, fmt.Sprintf("Scene %d prompt: %s\nScene %d narrative: %s", i+1, scene.Prompt, i+1, scene.Content))
	}
	return strings.Join(pairs, "\n\n")
}

// SceneRequest is the user turn that accompanies the continuity instruction.
func SceneRequest(setting string) string {
	return fmt.Sprintf("New scene request: %s\nWrite the scene now.", setting)
}

// Image describes a single scene as an illustration brief.
func Image(character domain.CharacterProfile, scene domain.StoryScene, artDirection string) string {
	if strings.TrimSpace(artDirection) == "" {
		artDirection = DefaultArtDirection
	}

	var sb strings.Builder
	sb.WriteString("Illustrate a sweeping, cinematic tableau inspired by the following brief.\n")
	fmt.Fprintf(&sb, "Character: %s (%s)\n", character.Name, character.Role)
	fmt.Fprintf(&sb, "Personality cues: %s\n", character.Traits)
	fmt.Fprintf(&sb, "Backstory context: %s\n", character.Backstory)
	fmt.Fprintf(&sb, "Scene prompt: %s\n", scene.Prompt)
	fmt.Fprintf(&sb, "Scene excerpt: %s\n", scene.Content)
	fmt.Fprintf(&sb, "Art direction: %s\n", artDirection)
	sb.WriteString("Render the moment with dramatic lighting, atmospheric perspective, and tactile texture.")
	return sb.String()
}
