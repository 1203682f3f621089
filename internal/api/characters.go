package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ashureev/storyweaver/internal/domain"
	"github.com/ashureev/storyweaver/internal/export"
	"github.com/ashureev/storyweaver/internal/pack"
	"github.com/ashureev/storyweaver/internal/prompt"
	"github.com/ashureev/storyweaver/internal/session"
	"github.com/ashureev/storyweaver/internal/visual"
)

const msgCharacterNotFound = "Character not found."

// resultResponse is the wire form of a tagged result: exactly one field is set.
type resultResponse struct {
	Scene *domain.StoryScene `json:"scene,omitempty"`
	Error string             `json:"error,omitempty"`
}

// ListCharacters returns every profile of the calling browser.
func (h *Handler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	ns, ok := namespace(w, r)
	if !ok {
		return
	}

	profiles, err := h.library.Characters(r.Context(), ns)
	if err != nil {
		slog.Error("Failed to list characters", "namespace", ns, "error", err)
		Error(w, http.StatusInternalServerError, "failed to list characters")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"characters": profiles})
}

// CreateCharacter validates a draft and stores it as a new profile.
func (h *Handler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	ns, ok := namespace(w, r)
	if !ok {
		return
	}

	var draft domain.ProfileDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		Error(w, http.StatusBadRequest, "invalid character payload")
		return
	}
	draft, err := draft.Normalize()
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	profile := domain.NewCharacterProfile(uuid.NewString(), draft, time.Now())
	if err := h.library.SaveCharacter(r.Context(), ns, profile); err != nil {
		slog.Error("Failed to save character", "namespace", ns, "error", err)
		Error(w, http.StatusInternalServerError, "failed to save character")
		return
	}

	slog.Info("Character created", "namespace", ns, "character_id", profile.ID)
	JSON(w, http.StatusCreated, profile)
}

// loadCharacter resolves {characterID} or writes a 404.
func (h *Handler) loadCharacter(w http.ResponseWriter, r *http.Request) (string, *domain.CharacterProfile, bool) {
	ns, ok := namespace(w, r)
	if !ok {
		return "", nil, false
	}

	id := chi.URLParam(r, "characterID")
	profile, err := h.library.Character(r.Context(), ns, id)
	if err != nil {
		slog.Error("Failed to load character", "namespace", ns, "character_id", id, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load character")
		return "", nil, false
	}
	if profile == nil {
		Error(w, http.StatusNotFound, msgCharacterNotFound)
		return "", nil, false
	}
	return ns, profile, true
}

// GetCharacter returns a single profile.
func (h *Handler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	if _, profile, ok := h.loadCharacter(w, r); ok {
		JSON(w, http.StatusOK, profile)
	}
}

// ListScenes returns the ordered scene thread of a character.
func (h *Handler) ListScenes(w http.ResponseWriter, r *http.Request) {
	ns, profile, ok := h.loadCharacter(w, r)
	if !ok {
		return
	}

	scenes, err := h.library.Scenes(r.Context(), ns, profile.ID)
	if err != nil {
		slog.Error("Failed to list scenes", "namespace", ns, "character_id", profile.ID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to list scenes")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"scenes": scenes,
		"state":  h.orch.State(ns, profile.ID),
	})
}

type submitSceneRequest struct {
	Prompt string `json:"prompt"`
}

// SubmitScene generates and appends the next scene of a character.
func (h *Handler) SubmitScene(w http.ResponseWriter, r *http.Request) {
	ns, ok := namespace(w, r)
	if !ok {
		return
	}

	var req submitSceneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, session.BlankPromptMessage)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	res, err := h.orch.Submit(ctx, ns, chi.URLParam(r, "characterID"), req.Prompt)
	writeResult(w, res, err)
}

// SubmitChoice continues the story along one of the interactive choices.
func (h *Handler) SubmitChoice(w http.ResponseWriter, r *http.Request) {
	ns, ok := namespace(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	res, err := h.orch.Continue(ctx, ns, chi.URLParam(r, "characterID"), chi.URLParam(r, "choice"))
	writeResult(w, res, err)
}

// GetPack returns the featured story pack and the prompts derived from it.
func (h *Handler) GetPack(w http.ResponseWriter, _ *http.Request) {
	p := pack.Clocktower()
	JSON(w, http.StatusOK, map[string]interface{}{
		"pack":        p,
		"suggestions": p.Suggestions(),
	})
}

// ListChoices returns the interactive-mode choices.
func (h *Handler) ListChoices(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{"choices": prompt.Choices()})
}

func writeResult(w http.ResponseWriter, res domain.Result, err error) {
	switch {
	case err == nil && res.IsOk():
		JSON(w, http.StatusCreated, resultResponse{Scene: res.Scene})
	case err == nil:
		JSON(w, http.StatusInternalServerError, resultResponse{Error: res.Err})
	case errors.Is(err, session.ErrBlankPrompt), errors.Is(err, prompt.ErrUnknownChoice):
		Error(w, http.StatusBadRequest, session.Message(err))
	case errors.Is(err, session.ErrCharacterNotFound):
		Error(w, http.StatusNotFound, session.Message(err))
	case errors.Is(err, session.ErrBusy):
		Error(w, http.StatusConflict, session.Message(err))
	default:
		slog.Error("Scene submission failed", "error", err)
		Error(w, http.StatusInternalServerError, "failed to save scene")
	}
}

// GetBoard returns the derived visual board of a character.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ns, profile, ok := h.loadCharacter(w, r)
	if !ok {
		return
	}

	scenes, err := h.library.Scenes(r.Context(), ns, profile.ID)
	if err != nil {
		slog.Error("Failed to load scenes for board", "namespace", ns, "character_id", profile.ID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to list scenes")
		return
	}
	JSON(w, http.StatusOK, visual.NewBoard(*profile, scenes))
}

// ExportPDF streams the story thread as a PDF download.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	ns, profile, ok := h.loadCharacter(w, r)
	if !ok {
		return
	}

	scenes, err := h.library.Scenes(r.Context(), ns, profile.ID)
	if err != nil {
		slog.Error("Failed to load scenes for export", "namespace", ns, "character_id", profile.ID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to list scenes")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(*profile)))
	if err := export.WritePDF(w, *profile, scenes); err != nil {
		slog.Error("Failed to export story", "namespace", ns, "character_id", profile.ID, "error", err)
	}
}
