package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ashureev/storyweaver/internal/domain"
	"github.com/ashureev/storyweaver/internal/identity"
	"github.com/ashureev/storyweaver/internal/pack"
	"github.com/ashureev/storyweaver/internal/prompt"
	"github.com/ashureev/storyweaver/internal/session"
	"github.com/ashureev/storyweaver/internal/store"
	"github.com/ashureev/storyweaver/internal/visual"
)

// Pages renders the landing page and the per-character story page.
type Pages struct {
	library        *store.Library
	orch           *session.Orchestrator
	featured       pack.Pack
	requestTimeout time.Duration
	tmpl           *template.Template
}

// MomentLength is how many characters of the latest scene the story page
// quotes above the interactive choices.
const MomentLength = 200

// NewPages parses the embedded templates. requestTimeout bounds each scene
// submission; zero leaves it to the request context.
func NewPages(library *store.Library, orch *session.Orchestrator, requestTimeout time.Duration) (*Pages, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Pages{
		library:        library,
		orch:           orch,
		featured:       pack.Clocktower(),
		requestTimeout: requestTimeout,
		tmpl:           tmpl,
	}, nil
}

// RegisterRoutes mounts the pages and static assets on r.
func (p *Pages) RegisterRoutes(r chi.Router) {
	r.Handle("/static/*", StaticHandler())
	r.Get("/", p.Home)
	r.Post("/characters", p.CreateCharacter)
	r.Get("/characters/{characterID}", p.Story)
	r.Post("/characters/{characterID}/scenes", p.SubmitScene)
	r.Post("/characters/{characterID}/choices/{choice}", p.SubmitChoice)
}

type homeData struct {
	Characters []domain.CharacterProfile
	Draft      domain.ProfileDraft
	Pack       pack.Pack
	Error      string
}

type storyData struct {
	Profile     domain.CharacterProfile
	Scenes      []domain.StoryScene
	Board       visual.Board
	Choices     []prompt.Choice
	Moment      string
	Prompt      string
	Suggestions []pack.Suggestion
	Submitting  bool
	Error       string
}

// excerpt cuts s to at most n runes, marking the cut with "...".
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func currentMoment(scenes []domain.StoryScene) string {
	if len(scenes) == 0 {
		return ""
	}
	return excerpt(scenes[len(scenes)-1].Content, MomentLength)
}

func (p *Pages) submitContext(r *http.Request) (context.Context, context.CancelFunc) {
	if p.requestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), p.requestTimeout)
}

func (p *Pages) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Failed to render page", "template", name, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *Pages) home(w http.ResponseWriter, r *http.Request, status int, draft domain.ProfileDraft, errMsg string) {
	ns := identity.NamespaceFromContext(r.Context())
	characters, err := p.library.Characters(r.Context(), ns)
	if err != nil {
		slog.Error("Failed to list characters", "namespace", ns, "error", err)
		http.Error(w, "failed to list characters", http.StatusInternalServerError)
		return
	}
	p.render(w, status, "home", homeData{Characters: characters, Draft: draft, Pack: p.featured, Error: errMsg})
}

// Home lists the saved characters and shows the creation form.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	p.home(w, r, http.StatusOK, domain.ProfileDraft{}, "")
}

// CreateCharacter handles the creation form and redirects to the new story page.
func (p *Pages) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		p.home(w, r, http.StatusBadRequest, domain.ProfileDraft{}, "Could not read the form.")
		return
	}

	draft := domain.ProfileDraft{
		Name:      r.PostFormValue("name"),
		Age:       r.PostFormValue("age"),
		Role:      r.PostFormValue("role"),
		Traits:    r.PostFormValue("traits"),
		Backstory: r.PostFormValue("backstory"),
	}
	normalized, err := draft.Normalize()
	if err != nil {
		p.home(w, r, http.StatusBadRequest, draft, "Please fill in every field to create your character.")
		return
	}

	ns := identity.NamespaceFromContext(r.Context())
	profile := domain.NewCharacterProfile(uuid.NewString(), normalized, time.Now())
	if err := p.library.SaveCharacter(r.Context(), ns, profile); err != nil {
		slog.Error("Failed to save character", "namespace", ns, "error", err)
		p.home(w, r, http.StatusInternalServerError, draft, "Could not save the character. Try again.")
		return
	}

	slog.Info("Character created", "namespace", ns, "character_id", profile.ID)
	http.Redirect(w, r, "/characters/"+url.PathEscape(profile.ID), http.StatusSeeOther)
}

// Story shows the character, the scene thread and its derived visuals.
func (p *Pages) Story(w http.ResponseWriter, r *http.Request) {
	ns := identity.NamespaceFromContext(r.Context())
	id := chi.URLParam(r, "characterID")

	profile, err := p.library.Character(r.Context(), ns, id)
	if err != nil {
		slog.Error("Failed to load character", "namespace", ns, "character_id", id, "error", err)
		http.Error(w, "failed to load character", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		p.render(w, http.StatusNotFound, "missing", nil)
		return
	}

	scenes, err := p.library.Scenes(r.Context(), ns, id)
	if err != nil {
		slog.Error("Failed to load scenes", "namespace", ns, "character_id", id, "error", err)
		http.Error(w, "failed to load scenes", http.StatusInternalServerError)
		return
	}

	p.render(w, http.StatusOK, "story", storyData{
		Profile:     *profile,
		Scenes:      scenes,
		Board:       visual.NewBoard(*profile, scenes),
		Choices:     prompt.Choices(),
		Moment:      currentMoment(scenes),
		Prompt:      r.URL.Query().Get("prompt"),
		Suggestions: p.featured.Suggestions(),
		Submitting:  p.orch.State(ns, id) == session.StateSubmitting,
		Error:       r.URL.Query().Get("error"),
	})
}

// SubmitScene handles the generation form.
func (p *Pages) SubmitScene(w http.ResponseWriter, r *http.Request) {
	ns := identity.NamespaceFromContext(r.Context())
	id := chi.URLParam(r, "characterID")

	ctx, cancel := p.submitContext(r)
	defer cancel()

	res, err := p.orch.Submit(ctx, ns, id, r.PostFormValue("prompt"))
	p.afterSubmit(w, r, id, res, err)
}

// SubmitChoice handles an interactive-mode choice button.
func (p *Pages) SubmitChoice(w http.ResponseWriter, r *http.Request) {
	ns := identity.NamespaceFromContext(r.Context())
	id := chi.URLParam(r, "characterID")

	ctx, cancel := p.submitContext(r)
	defer cancel()

	res, err := p.orch.Continue(ctx, ns, id, chi.URLParam(r, "choice"))
	p.afterSubmit(w, r, id, res, err)
}

// afterSubmit redirects back to the story page, carrying any failure message
// as a dismissable banner.
func (p *Pages) afterSubmit(w http.ResponseWriter, r *http.Request, id string, res domain.Result, err error) {
	target := "/characters/" + url.PathEscape(id)

	var msg string
	switch {
	case err == nil && res.IsOk():
		http.Redirect(w, r, target+"#scene-"+url.PathEscape(res.Scene.ID), http.StatusSeeOther)
		return
	case err == nil:
		msg = res.Err
	case errors.Is(err, session.ErrCharacterNotFound):
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	case errors.Is(err, session.ErrBlankPrompt), errors.Is(err, session.ErrBusy), errors.Is(err, prompt.ErrUnknownChoice):
		msg = session.Message(err)
	default:
		slog.Error("Scene submission failed", "character_id", id, "error", err)
		msg = "Could not save the scene. Try again."
	}
	http.Redirect(w, r, target+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
