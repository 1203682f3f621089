package domain

import (
	"time"
)

// StoryScene is one generated narrative unit tied to a character.
type StoryScene struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"characterId"`
	Prompt      string    `json:"prompt"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecentScenes returns the last n scenes in their original order.
func RecentScenes(scenes []StoryScene, n int) []StoryScene {
	if n <= 0 {
		return nil
	}
	if n >= len(scenes) {
		return scenes
	}
	return scenes[len(scenes)-n:]
}

// Result is the outcome of a scene generation: exactly one of Scene or Err is set.
type Result struct {
	Scene *StoryScene
	Err   string
}

// Ok wraps a fulfilled scene.
func Ok(scene StoryScene) Result {
	return Result{Scene: &scene}
}

// Err wraps a user-visible failure message.
func Err(message string) Result {
	return Result{Err: message}
}

// IsOk reports whether the result carries a scene.
func (r Result) IsOk() bool {
	return r.Scene != nil
}
