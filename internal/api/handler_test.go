//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/storyweaver/internal/domain"
	"github.com/ashureev/storyweaver/internal/generation"
	"github.com/ashureev/storyweaver/internal/identity"
	"github.com/ashureev/storyweaver/internal/session"
	"github.com/ashureev/storyweaver/internal/store"
)

const testNamespace = "anon_0123456789abcdef0123456789abcdef"

type fakeGenerator struct {
	text     string
	img      generation.Image
	err      error
	sceneReq generation.SceneRequest
	imageReq generation.ImageRequest
	calls    int
}

func (f *fakeGenerator) GenerateScene(_ context.Context, req generation.SceneRequest) (string, error) {
	f.calls++
	f.sceneReq = req
	return f.text, f.err
}

func (f *fakeGenerator) GenerateImage(_ context.Context, req generation.ImageRequest) (generation.Image, error) {
	f.calls++
	f.imageReq = req
	return f.img, f.err
}

type testServer struct {
	router  http.Handler
	library *store.Library
}

func newTestServer(t *testing.T, gen generation.Generator) *testServer {
	t.Helper()
	library := store.NewLibrary(store.NewMemory())
	h := NewHandler(library, session.NewOrchestrator(library, gen), gen, 0)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(identity.WithNamespace(r.Context(), testNamespace)))
		})
	})
	h.RegisterRoutes(r)
	return &testServer{router: r, library: library}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var got map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return got
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

const characterJSON = `{"id":"c1","name":"Aurelia","age":"27","role":"Diplomat","traits":"calm","backstory":"Embassy child."}`

func TestGenerateScene(t *testing.T) {
	gen := &fakeGenerator{text: "The embassy lights flickered."}
	srv := newTestServer(t, gen)

	body := `{"character":` + characterJSON + `,"sceneSetting":" Negotiations collapse ","recentScenes":[{"id":"s1","prompt":"p","content":"n"}]}`
	rec := srv.do(t, http.MethodPost, "/api/generateScene", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if got := decodeBody(t, rec); got["scene"] != "The embassy lights flickered." {
		t.Errorf("unexpected body %v", got)
	}
	if gen.sceneReq.SceneSetting != "Negotiations collapse" || gen.sceneReq.Character.Name != "Aurelia" {
		t.Errorf("unexpected request %+v", gen.sceneReq)
	}
	if len(gen.sceneReq.RecentScenes) != 1 {
		t.Errorf("expected recent scenes forwarded, got %+v", gen.sceneReq.RecentScenes)
	}
}

func TestGenerateSceneValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing setting", `{"character":` + characterJSON + `}`},
		{"blank setting", `{"character":` + characterJSON + `,"sceneSetting":"   "}`},
		{"missing character", `{"sceneSetting":"x"}`},
		{"malformed", `{"character":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{text: "x"}
			rec := newTestServer(t, gen).do(t, http.MethodPost, "/api/generateScene", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := decodeBody(t, rec); got["error"] != msgSceneBadRequest {
				t.Errorf("unexpected error %v", got["error"])
			}
			if gen.calls != 0 {
				t.Error("expected no upstream call")
			}
		})
	}
}

func TestGenerateEndpointsRejectNonPost(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})
	for _, path := range []string{"/api/generateScene", "/api/generateSceneImage"} {
		rec := srv.do(t, http.MethodGet, path, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", path, rec.Code)
		}
		if rec.Header().Get("Allow") != http.MethodPost {
			t.Errorf("%s: expected Allow: POST, got %q", path, rec.Header().Get("Allow"))
		}
		if got := decodeBody(t, rec); got["error"] != msgMethodNotAllowed {
			t.Errorf("%s: unexpected error %v", path, got["error"])
		}
	}
}

func TestGenerateEndpointsWithoutCredential(t *testing.T) {
	srv := newTestServer(t, nil)
	// Credential check precedes body validation.
	for _, path := range []string{"/api/generateScene", "/api/generateSceneImage"} {
		rec := srv.do(t, http.MethodPost, path, `{}`)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", path, rec.Code)
		}
		if got := decodeBody(t, rec); got["error"] != msgMissingCredentials {
			t.Errorf("%s: unexpected error %v", path, got["error"])
		}
	}
}

func TestGenerateSceneUpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty scene", generation.ErrEmptyScene, "Gemini returned an empty scene."},
		{"blank message", errors.New(" "), msgSceneUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeGenerator{err: tt.err})
			rec := srv.do(t, http.MethodPost, "/api/generateScene", `{"character":`+characterJSON+`,"sceneSetting":"x"}`)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", rec.Code)
			}
			if got := decodeBody(t, rec); got["error"] != tt.want {
				t.Errorf("expected %q, got %v", tt.want, got["error"])
			}
		})
	}
}

func TestGenerateSceneImage(t *testing.T) {
	gen := &fakeGenerator{img: generation.Image{Data: "aGVsbG8=", MIMEType: "image/png"}}
	srv := newTestServer(t, gen)

	rec := srv.do(t, http.MethodPost, "/api/generateSceneImage",
		`{"character":`+characterJSON+`,"scene":{"id":"s1","prompt":"p","content":"c"},"artDirection":"ink"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	got := decodeBody(t, rec)
	if got["image"] != "aGVsbG8=" || got["mimeType"] != "image/png" {
		t.Errorf("unexpected body %v", got)
	}
	if gen.imageReq.ArtDirection != "ink" || gen.imageReq.Scene.ID != "s1" {
		t.Errorf("unexpected request %+v", gen.imageReq)
	}

	rec = srv.do(t, http.MethodPost, "/api/generateSceneImage", `{"character":`+characterJSON+`}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without scene, got %d", rec.Code)
	}
	if got := decodeBody(t, rec); got["error"] != msgImageBadRequest {
		t.Errorf("unexpected error %v", got["error"])
	}
}

func TestGenerateSceneImageNoData(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{err: generation.ErrNoImage})
	rec := srv.do(t, http.MethodPost, "/api/generateSceneImage",
		`{"character":`+characterJSON+`,"scene":{"id":"s1","prompt":"p","content":"c"}}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeBody(t, rec); got["error"] != generation.NoImageMessage {
		t.Errorf("unexpected error %v", got["error"])
	}
}

func createCharacter(t *testing.T, srv *testServer) domain.CharacterProfile {
	t.Helper()
	rec := srv.do(t, http.MethodPost, "/api/characters/",
		`{"name":" Mara ","age":"30","role":"Scout","traits":"keen, brave and wry","backstory":"Desert born."}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var p domain.CharacterProfile
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("Failed to decode profile: %v", err)
	}
	return p
}

func TestCharacterLifecycle(t *testing.T) {
	gen := &fakeGenerator{text: "She ran toward the dunes."}
	srv := newTestServer(t, gen)

	profile := createCharacter(t, srv)
	if profile.ID == "" || profile.Name != "Mara" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	rec := srv.do(t, http.MethodGet, "/api/characters/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), profile.ID) {
		t.Fatalf("expected profile in list, got %d %s", rec.Code, rec.Body)
	}

	rec = srv.do(t, http.MethodGet, "/api/characters/"+profile.ID+"/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/api/characters/"+profile.ID+"/scenes", `{"prompt":"Chase the caravan"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var res resultResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if res.Scene == nil || res.Error != "" || res.Scene.Content != "She ran toward the dunes." {
		t.Fatalf("unexpected result %+v", res)
	}

	rec = srv.do(t, http.MethodGet, "/api/characters/"+profile.ID+"/scenes", "")
	got := decodeBody(t, rec)
	if scenes, _ := got["scenes"].([]interface{}); len(scenes) != 1 {
		t.Errorf("expected one scene, got %v", got["scenes"])
	}
	if got["state"] != string(session.StateIdle) {
		t.Errorf("expected idle state, got %v", got["state"])
	}

	rec = srv.do(t, http.MethodGet, "/api/characters/"+profile.ID+"/board", "")
	board := decodeBody(t, rec)
	if board["headline"] != "keen / brave / Scout" {
		t.Errorf("unexpected headline %v", board["headline"])
	}
	figures, _ := board["figures"].([]interface{})
	if len(figures) != 1 || figures[0].(map[string]interface{})["pose"] != "dynamic" {
		t.Errorf("unexpected figures %v", board["figures"])
	}

	rec = srv.do(t, http.MethodGet, "/api/characters/"+profile.ID+"/export.pdf", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("expected pdf, got %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("expected PDF body")
	}
}

func TestCreateCharacterRequiresEveryField(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.do(t, http.MethodPost, "/api/characters/", `{"name":"Solo","age":" ","role":"r","traits":"t","backstory":"b"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeBody(t, rec); got["error"] != domain.ErrIncompleteProfile.Error() {
		t.Errorf("unexpected error %v", got["error"])
	}
}

func TestUnknownCharacter(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{text: "x"})
	for _, path := range []string{"/api/characters/ghost/", "/api/characters/ghost/scenes", "/api/characters/ghost/board", "/api/characters/ghost/export.pdf"} {
		if rec := srv.do(t, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
	rec := srv.do(t, http.MethodPost, "/api/characters/ghost/scenes", `{"prompt":"hi"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := decodeBody(t, rec); got["error"] != session.CharacterNotFoundMessage {
		t.Errorf("unexpected error %v", got["error"])
	}
}

func TestSubmitSceneFailures(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream exploded")}
	srv := newTestServer(t, gen)
	profile := createCharacter(t, srv)

	rec := srv.do(t, http.MethodPost, "/api/characters/"+profile.ID+"/scenes", `{"prompt":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank prompt, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/api/characters/"+profile.ID+"/scenes", `{"prompt":"Go"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var res resultResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if res.Scene != nil || res.Error != "upstream exploded" {
		t.Errorf("unexpected result %+v", res)
	}

	scenes, _ := srv.library.Scenes(context.Background(), testNamespace, profile.ID)
	if len(scenes) != 0 {
		t.Errorf("expected nothing persisted, got %d scenes", len(scenes))
	}
}

func TestSubmitChoice(t *testing.T) {
	gen := &fakeGenerator{text: "The ruins loomed."}
	srv := newTestServer(t, gen)
	profile := createCharacter(t, srv)

	rec := srv.do(t, http.MethodPost, "/api/characters/"+profile.ID+"/choices/explore", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if gen.sceneReq.SceneSetting != "Mara decides to carefully explore the area. What happens next?" {
		t.Errorf("unexpected continuation %q", gen.sceneReq.SceneSetting)
	}

	rec = srv.do(t, http.MethodPost, "/api/characters/"+profile.ID+"/choices/vanish", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown choice, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/api/choices", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "confront") {
		t.Errorf("unexpected choices %d %s", rec.Code, rec.Body)
	}
}

func TestHealth(t *testing.T) {
	rec := newTestServer(t, nil).do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody(t, rec)
	if got["status"] != "ok" || got["generation_enabled"] != false {
		t.Errorf("unexpected health %v", got)
	}
}

func TestMissingNamespace(t *testing.T) {
	library := store.NewLibrary(store.NewMemory())
	h := NewHandler(library, session.NewOrchestrator(library, nil), nil, 0)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/characters/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestGetPack(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/api/pack", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodeBody(t, rec)
	p, ok := got["pack"].(map[string]interface{})
	if !ok || p["title"] != "Clocktower Arc Toolkit" {
		t.Fatalf("unexpected pack %v", got["pack"])
	}
	if beats, _ := p["beats"].([]interface{}); len(beats) != 5 {
		t.Errorf("expected 5 beats, got %v", p["beats"])
	}
	if suggestions, _ := got["suggestions"].([]interface{}); len(suggestions) != 9 {
		t.Errorf("expected 9 suggestions, got %d", len(suggestions))
	}
}
