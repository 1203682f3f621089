// Package session runs the per-character scene submission lifecycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/storyweaver/internal/domain"
	"github.com/ashureev/storyweaver/internal/generation"
	"github.com/ashureev/storyweaver/internal/prompt"
	"github.com/ashureev/storyweaver/internal/store"
)

var (
	// ErrBusy is returned while another submission for the same character is in flight.
	ErrBusy = errors.New("scene generation already in progress")
	// ErrBlankPrompt is returned for a prompt that is empty after trimming.
	ErrBlankPrompt = errors.New("scene prompt is blank")
	// ErrCharacterNotFound is returned when the character is not stored.
	ErrCharacterNotFound = errors.New("character not found")
)

// Messages shown to users.
const (
	BusyMessage              = "A scene is already being generated for this character."
	BlankPromptMessage       = "Scene prompt is required."
	CharacterNotFoundMessage = "Character not found. Return home and recreate the profile."

	// GenericSceneError is reported when generation fails without a message.
	GenericSceneError = "Unexpected error generating scene."
)

// Message returns the text to show a user for a submission error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrBusy):
		return BusyMessage
	case errors.Is(err, ErrBlankPrompt):
		return BlankPromptMessage
	case errors.Is(err, ErrCharacterNotFound):
		return CharacterNotFoundMessage
	}
	return generation.Message(err)
}

// State is the submission state of one character session.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Orchestrator turns scene prompts into persisted scenes. Submissions are
// serialized per (namespace, character); a concurrent one is rejected.
type Orchestrator struct {
	library   *store.Library
	generator generation.Generator
	now       func() time.Time
	newID     func() string

	sessions sync.Map // sessionKey -> *characterSession
}

type characterSession struct {
	mu         sync.Mutex
	submitting atomic.Bool
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the scene timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDs overrides the scene id source.
func WithIDs(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// NewOrchestrator creates an orchestrator. generator may be nil when no
// credential is configured; submissions then fail with ErrMissingCredential.
func NewOrchestrator(library *store.Library, generator generation.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		library:   library,
		generator: generator,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func sessionKey(namespace, characterID string) string {
	return namespace + "/" + characterID
}

func (o *Orchestrator) session(namespace, characterID string) *characterSession {
	s, _ := o.sessions.LoadOrStore(sessionKey(namespace, characterID), &characterSession{})
	return s.(*characterSession)
}

// State reports whether a submission is currently in flight.
func (o *Orchestrator) State(namespace, characterID string) State {
	v, ok := o.sessions.Load(sessionKey(namespace, characterID))
	if ok && v.(*characterSession).submitting.Load() {
		return StateSubmitting
	}
	return StateIdle
}

// Submit generates one scene for the character and appends it to the thread.
//
// The returned error covers rejected submissions (ErrBlankPrompt, ErrBusy,
// ErrCharacterNotFound) and storage failures. A generation failure is not an
// error: it comes back as an Err result and leaves the thread untouched.
func (o *Orchestrator) Submit(ctx context.Context, namespace, characterID, scenePrompt string) (domain.Result, error) {
	trimmed := strings.TrimSpace(scenePrompt)
	if trimmed == "" {
		return domain.Result{}, ErrBlankPrompt
	}

	sess := o.session(namespace, characterID)
	if !sess.mu.TryLock() {
		slog.Warn("Scene submission already in progress", "namespace", namespace, "character_id", characterID)
		return domain.Result{}, ErrBusy
	}
	sess.submitting.Store(true)
	defer func() {
		sess.submitting.Store(false)
		sess.mu.Unlock()
	}()

	character, err := o.library.Character(ctx, namespace, characterID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load character: %w", err)
	}
	if character == nil {
		return domain.Result{}, ErrCharacterNotFound
	}

	scenes, err := o.library.Scenes(ctx, namespace, characterID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load scenes: %w", err)
	}

	if o.generator == nil {
		return domain.Err(generation.MissingCredentialMessage), nil
	}

	text, err := o.generator.GenerateScene(ctx, generation.SceneRequest{
		Character:    *character,
		SceneSetting: trimmed,
		RecentScenes: domain.RecentScenes(scenes, prompt.HistoryWindow),
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = generation.ErrEmptyScene
	}
	if err != nil {
		slog.Error("Scene generation failed", "namespace", namespace, "character_id", characterID, "error", err)
		msg := generation.Message(err)
		if msg == "" {
			msg = GenericSceneError
		}
		return domain.Err(msg), nil
	}

	scene := domain.StoryScene{
		ID:          o.newID(),
		CharacterID: characterID,
		Prompt:      scenePrompt,
		Content:     text,
		CreatedAt:   o.now().UTC(),
	}
	next := make([]domain.StoryScene, 0, len(scenes)+1)
	next = append(next, scenes...)
	next = append(next, scene)

	if err := o.library.SaveScenes(ctx, namespace, characterID, next); err != nil {
		return domain.Result{}, fmt.Errorf("persist scenes: %w", err)
	}

	slog.Info("Scene appended", "namespace", namespace, "character_id", characterID, "scene_id", scene.ID, "scenes", len(next))
	return domain.Ok(scene), nil
}

// Continue submits the continuation prompt of an interactive-mode choice.
func (o *Orchestrator) Continue(ctx context.Context, namespace, characterID, choiceID string) (domain.Result, error) {
	character, err := o.library.Character(ctx, namespace, characterID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load character: %w", err)
	}
	if character == nil {
		return domain.Result{}, ErrCharacterNotFound
	}

	continuation, err := prompt.ContinuationPrompt(*character, choiceID)
	if err != nil {
		return domain.Result{}, err
	}
	return o.Submit(ctx, namespace, characterID, continuation)
}
