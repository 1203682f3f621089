package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ashureev/storyweaver/internal/domain"
)

// Library persists character profiles and their scene lists on top of a KV.
// Every key is scoped by a namespace so that each browser sees only its own
// characters.
type Library struct {
	kv KV
}

// NewLibrary creates a library over kv.
func NewLibrary(kv KV) *Library {
	return &Library{kv: kv}
}

func scopedKey(namespace, id string) string {
	return namespace + "/" + id
}

// Characters returns every profile in namespace in creation order.
// Entries that fail to decode are skipped.
func (l *Library) Characters(ctx context.Context, namespace string) ([]domain.CharacterProfile, error) {
	entries, err := l.kv.List(ctx, CharactersCollection, scopedKey(namespace, ""))
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	profiles := make([]domain.CharacterProfile, 0, len(entries))
	for _, e := range entries {
		var p domain.CharacterProfile
		if err := json.Unmarshal(e.Value, &p); err != nil {
			slog.Warn("Skipping unreadable character profile", "key", e.Key, "error", err)
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Character retrieves a profile by id. It returns nil, nil when the profile
// is absent or unreadable.
func (l *Library) Character(ctx context.Context, namespace, id string) (*domain.CharacterProfile, error) {
	raw, found, err := l.kv.Get(ctx, CharactersCollection, scopedKey(namespace, id))
	if err != nil {
		return nil, fmt.Errorf("get character: %w", err)
	}
	if !found {
		return nil, nil
	}

	var p domain.CharacterProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		slog.Warn("Stored character profile is malformed", "namespace", namespace, "character_id", id, "error", err)
		return nil, nil
	}
	return &p, nil
}

// SaveCharacter creates or overwrites a profile by id.
func (l *Library) SaveCharacter(ctx context.Context, namespace string, profile domain.CharacterProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode character: %w", err)
	}
	if err := l.kv.Put(ctx, CharactersCollection, scopedKey(namespace, profile.ID), raw); err != nil {
		return fmt.Errorf("save character: %w", err)
	}
	return nil
}

// Scenes returns the ordered scene list of a character. A missing or
// malformed list reads as empty.
func (l *Library) Scenes(ctx context.Context, namespace, characterID string) ([]domain.StoryScene, error) {
	raw, found, err := l.kv.Get(ctx, ScenesCollection, scopedKey(namespace, characterID))
	if err != nil {
		return nil, fmt.Errorf("get scenes: %w", err)
	}
	if !found {
		return []domain.StoryScene{}, nil
	}

	var scenes []domain.StoryScene
	if err := json.Unmarshal(raw, &scenes); err != nil {
		slog.Warn("Stored scene list is malformed", "namespace", namespace, "character_id", characterID, "error", err)
		return []domain.StoryScene{}, nil
	}
	if scenes == nil {
		scenes = []domain.StoryScene{}
	}
	return scenes, nil
}

// SaveScenes replaces the whole scene list of a character.
func (l *Library) SaveScenes(ctx context.Context, namespace, characterID string, scenes []domain.StoryScene) error {
	if scenes == nil {
		scenes = []domain.StoryScene{}
	}
	raw, err := json.Marshal(scenes)
	if err != nil {
		return fmt.Errorf("encode scenes: %w", err)
	}
	if err := l.kv.Put(ctx, ScenesCollection, scopedKey(namespace, characterID), raw); err != nil {
		return fmt.Errorf("save scenes: %w", err)
	}
	return nil
}

// Ping verifies the underlying store is reachable.
func (l *Library) Ping(ctx context.Context) error {
	return l.kv.Ping(ctx)
}
