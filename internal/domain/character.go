// Package domain contains core domain types for the StoryWeaver application.
package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrIncompleteProfile is returned when a profile is missing a required field.
var ErrIncompleteProfile = errors.New("name, age, role, traits and backstory are required")

// CharacterProfile is the persistent persona definition driving generation continuity.
type CharacterProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       string    `json:"age"`
	Role      string    `json:"role"`
	Traits    string    `json:"traits"`
	Backstory string    `json:"backstory"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileDraft holds the user-editable fields of a profile before it is assigned an identity.
type ProfileDraft struct {
	Name      string `json:"name"`
	Age       string `json:"age"`
	Role      string `json:"role"`
	Traits    string `json:"traits"`
	Backstory string `json:"backstory"`
}

// Normalize trims every field and reports whether all of them are present.
func (d ProfileDraft) Normalize() (ProfileDraft, error) {
	n := ProfileDraft{
		Name:      strings.TrimSpace(d.Name),
		Age:       strings.TrimSpace(d.Age),
		Role:      strings.TrimSpace(d.Role),
		Traits:    strings.TrimSpace(d.Traits),
		Backstory: strings.TrimSpace(d.Backstory),
	}
	if n.Name == "" || n.Age == "" || n.Role == "" || n.Traits == "" || n.Backstory == "" {
		return n, ErrIncompleteProfile
	}
	return n, nil
}

// NewCharacterProfile builds a profile from a normalized draft.
func NewCharacterProfile(id string, d ProfileDraft, now time.Time) CharacterProfile {
	return CharacterProfile{
		ID:        id,
		Name:      d.Name,
		Age:       d.Age,
		Role:      d.Role,
		Traits:    d.Traits,
		Backstory: d.Backstory,
		CreatedAt: now.UTC(),
	}
}
