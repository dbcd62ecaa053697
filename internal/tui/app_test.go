package tui

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/deckhand/internal/i18n"
	"github.com/kingrea/deckhand/internal/logging"
	"github.com/kingrea/deckhand/internal/runtime"
	"github.com/kingrea/deckhand/internal/session"
	"github.com/kingrea/deckhand/internal/workflow"
)

func TestLandingCreatesProjectAndMovesToUpload(t *testing.T) {
	svc := &fakeDeckService{}
	app := newTestApp(t, svc, nil)
	if app.state != stateLanding {
		t.Fatalf("fresh session should open on landing, got %d", app.state)
	}
	app.nameInput.SetValue("  acme  ")
	app = step(t, app, key(tea.KeyEnter))

	if app.state != stateUpload {
		t.Fatalf("expected upload screen, got %d (%s)", app.state, app.statusMsg)
	}
	state := app.session.Get()
	if state.ProjectID != "acme" || state.AuthToken != "tok" || state.RequiredSlideCount != 6 {
		t.Fatalf("session after create = %+v", state)
	}
	if state.Phase != workflow.PhaseUploading {
		t.Fatalf("phase = %s", state.Phase)
	}
	if !strings.Contains(app.statusMsg, `"acme"`) {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestEmptyProjectNameShowsLocalizedFailure(t *testing.T) {
	svc := &fakeDeckService{}
	app := newTestApp(t, svc, nil)
	app = step(t, app, key(tea.KeyEnter))

	if app.state != stateLanding {
		t.Fatalf("expected to stay on landing, got %d", app.state)
	}
	if !strings.Contains(app.statusMsg, "Project ID is required") {
		t.Fatalf("status = %q", app.statusMsg)
	}
	if got := svc.count("create_project"); got != 0 {
		t.Fatalf("create_project called %d times", got)
	}
	lines, _ := app.logbook.Tail(5)
	if !strings.Contains(strings.Join(lines, "\n"), "Project ID is required") {
		t.Fatalf("failure missing from logbook: %v", lines)
	}
}

func TestSelectionRedirectsWithoutAnalyzedProject(t *testing.T) {
	app := newTestApp(t, &fakeDeckService{}, &session.Patch{
		ProjectID: session.Ptr("acme"),
		AuthToken: session.Ptr("tok"),
	})
	if app.state != stateUpload {
		t.Fatalf("expected upload screen, got %d", app.state)
	}
	app = step(t, app, key(tea.KeyTab))
	if app.state != stateUpload {
		t.Fatalf("selection must be refused without slides, got %d", app.state)
	}
	if app.statusMsg != i18n.Resolve(i18n.English, "selection.redirect") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestGenerationIsolatesFailedSlides(t *testing.T) {
	svc := &fakeDeckService{failing: map[string]bool{"problem": true}}
	app := newSelectingApp(t, svc)

	app.slideMenu.Select(indexOf(t, app, "demo"))
	app = step(t, app, runes(" "))
	if !app.selection.Has("demo") {
		t.Fatalf("space should toggle the highlighted optional slide")
	}
	app = step(t, app, key(tea.KeyEnter))

	if app.state != stateResults {
		t.Fatalf("expected results screen, got %d", app.state)
	}
	want := []string{"title", "introduction", "solution", "market", "ask", "demo"}
	if got := app.result.Keys(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("result keys = %v, want %v", got, want)
	}
	if !app.session.Get().GenerationComplete {
		t.Fatalf("generation should be marked complete")
	}
	if app.statusMsg != "Generation complete · 6 of 7 slides ready" {
		t.Fatalf("status = %q", app.statusMsg)
	}
	lines, _ := app.logbook.Tail(40)
	if !strings.Contains(strings.Join(lines, "\n"), "Slide Problem Statement could not be generated") {
		t.Fatalf("failed slide missing from logbook:\n%s", strings.Join(lines, "\n"))
	}
	if got := svc.count("generate_slides"); got != 7 {
		t.Fatalf("generate_slides called %d times, want 7", got)
	}
}

func TestQuitAbandonsGeneration(t *testing.T) {
	svc := &fakeDeckService{}
	app := newSelectingApp(t, svc)

	_, cmd := app.Update(key(tea.KeyEnter))
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("expected batched generation commands")
	}
	started := batch[0]()
	_, next := app.Update(started)
	if app.generation == nil || app.generation.status["title"] != slideRunning {
		t.Fatalf("first slide should be running")
	}

	_, quit := app.Update(key(tea.KeyCtrlC))
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit")
	}
	app.Update(next())

	if app.generation != nil || app.result != nil {
		t.Fatalf("abandoned run must not produce a result")
	}
	if app.session.Get().GenerationComplete {
		t.Fatalf("abandoned run must not be marked complete")
	}
}

func TestEditShadowsContentAndRevertRestoresIt(t *testing.T) {
	svc := &fakeDeckService{}
	app := generatedApp(t, svc)

	app = step(t, app, runes("e"))
	if app.state != stateEditing || app.editSlide != "title" {
		t.Fatalf("expected editor on title, got state %d slide %q", app.state, app.editSlide)
	}
	app.editInput.SetValue("make it shorter")
	app = step(t, app, key(tea.KeyCtrlS))

	entry, _ := app.result.Entry("title")
	if entry.Display() != "edited title" || entry.Content != "generated title" {
		t.Fatalf("entry after edit = %+v", entry)
	}
	if app.editPending != "" || app.state != stateResults {
		t.Fatalf("edit should have settled back on results")
	}

	app = step(t, app, runes("u"))
	entry, _ = app.result.Entry("title")
	if entry.Edited() || entry.Display() != "generated title" {
		t.Fatalf("revert left %+v", entry)
	}
}

func TestEditControlDisabledWhileEditInFlight(t *testing.T) {
	app := generatedApp(t, &fakeDeckService{})
	app.editPending = "title"
	app.moveCursor(1)

	app = step(t, app, runes("e"))
	if app.state != stateResults {
		t.Fatalf("second edit must not open, got state %d", app.state)
	}
	if app.statusMsg != "⚠ Failed to edit slide: Another edit is still in progress." {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestLanguageToggleRelabelsAndNotifiesService(t *testing.T) {
	svc := &fakeDeckService{}
	app := generatedApp(t, svc)

	app = step(t, app, key(tea.KeyCtrlL))
	if got := app.session.Get().Language; got != i18n.Norwegian {
		t.Fatalf("language = %s", got)
	}
	if app.statusMsg != "Språk er vellykket satt" {
		t.Fatalf("status = %q", app.statusMsg)
	}
	if svc.count("set_language") != 1 {
		t.Fatalf("expected the service to be told about the language")
	}
	if !strings.Contains(app.View(), "Tittelslide") {
		t.Fatalf("view not relabeled")
	}
}

func TestEditModeToggle(t *testing.T) {
	app := newTestApp(t, &fakeDeckService{}, nil)
	app = step(t, app, key(tea.KeyCtrlT))
	if got := app.session.Get().EditMode; got != session.EditGuided {
		t.Fatalf("edit mode = %s", got)
	}
}

func TestExportFailureKeepsPreview(t *testing.T) {
	svc := &fakeDeckService{pdf: []byte("not a pdf")}
	app := generatedApp(t, svc)

	app = step(t, app, runes("p"))
	if app.state != statePreview || app.session.Get().Phase != workflow.PhasePreviewing {
		t.Fatalf("expected preview, got state %d phase %s", app.state, app.session.Get().Phase)
	}
	app = step(t, app, runes("x"))
	if app.state != statePreview {
		t.Fatalf("export failure must keep the preview, got %d", app.state)
	}
	if app.statusMsg != "⚠ Failed to download PDF. Please try again." {
		t.Fatalf("status = %q", app.statusMsg)
	}
	if app.session.Get().Phase != workflow.PhasePreviewing {
		t.Fatalf("phase advanced on a failed export")
	}
}

func TestDeleteReturnsToLanding(t *testing.T) {
	svc := &fakeDeckService{}
	app := generatedApp(t, svc)
	app = step(t, app, runes("p"))
	app = step(t, app, runes("d"))

	if app.state != stateLanding {
		t.Fatalf("expected landing after delete, got %d (%s)", app.state, app.statusMsg)
	}
	state := app.session.Get()
	if state.HasProject() || state.AuthToken != "" || state.RequiredSlideCount != 0 {
		t.Fatalf("session after delete = %+v", state)
	}
	if app.result != nil || app.selection.Len() != 0 {
		t.Fatalf("deck state should be cleared")
	}
	if app.statusMsg != `Project with ID "acme" deleted successfully.` {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestRestoredLatePhaseResumesAtSelection(t *testing.T) {
	app := newTestApp(t, &fakeDeckService{}, &session.Patch{
		ProjectID:          session.Ptr("acme"),
		AuthToken:          session.Ptr("tok"),
		RequiredSlideCount: session.Ptr(6),
		Phase:              session.Ptr(workflow.PhasePreviewing),
	})
	if app.state != stateSelection {
		t.Fatalf("expected selection, got %d", app.state)
	}
	if got := app.session.Get().Phase; got != workflow.PhaseSelecting {
		t.Fatalf("phase = %s", got)
	}
}

// ---- helpers ---------------------------------------------------------------

type fakeDeckService struct {
	mu       sync.Mutex
	failing  map[string]bool
	pdf      []byte
	requests []string
}

func (f *fakeDeckService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	op := strings.TrimPrefix(r.URL.Path, "/")
	f.mu.Lock()
	f.requests = append(f.requests, op)
	f.mu.Unlock()

	var body map[string]string
	if op != "upload_documents" {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	switch op {
	case "create_project":
		io.WriteString(w, `{"token":"tok","state":{"slides":{"title":{},"introduction":{},"problem":{},"solution":{},"market":{},"ask":{}}}}`)
	case "upload_documents":
		io.WriteString(w, `{"status":"ok","message":"1 file"}`)
	case "generate_slides":
		if f.failing[body["slide"]] {
			io.WriteString(w, `{"error":"not enough context"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"content": "generated " + body["slide"]})
	case "edit_slide":
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "completed", "content": "edited " + body["slide"]})
	case "delete_project", "set_language":
		io.WriteString(w, `{"status":"ok"}`)
	case "download_pdf":
		w.Write(f.pdf)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeDeckService) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, req := range f.requests {
		if req == op {
			n++
		}
	}
	return n
}

func newTestApp(t *testing.T, svc http.Handler, seed *session.Patch) *App {
	t.Helper()
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	t.Setenv("DECKHAND_SERVICE_URL", srv.URL)
	t.Setenv("DECKHAND_PREVIEW_ENABLED", "false")

	rt, err := runtime.Open(t.TempDir(), runtime.WithLogger(logging.Nop()))
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	if seed != nil {
		if err := rt.Session.Set(*seed); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	app, err := NewApp(rt)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	app.nameInput.Cursor.SetMode(cursor.CursorStatic)
	app.pathInput.Cursor.SetMode(cursor.CursorStatic)
	app.editInput.Cursor.SetMode(cursor.CursorStatic)
	return app
}

func newSelectingApp(t *testing.T, svc http.Handler) *App {
	t.Helper()
	app := newTestApp(t, svc, &session.Patch{
		ProjectID:          session.Ptr("acme"),
		AuthToken:          session.Ptr("tok"),
		RequiredSlideCount: session.Ptr(6),
		Phase:              session.Ptr(workflow.PhaseSelecting),
	})
	if app.state != stateSelection {
		t.Fatalf("expected selection screen, got %d", app.state)
	}
	return app
}

func generatedApp(t *testing.T, svc http.Handler) *App {
	t.Helper()
	app := newSelectingApp(t, svc)
	app = step(t, app, key(tea.KeyEnter))
	if app.state != stateResults || app.result.Len() == 0 {
		t.Fatalf("generation did not finish: state %d (%s)", app.state, app.statusMsg)
	}
	return app
}

func indexOf(t *testing.T, app *App, key string) int {
	t.Helper()
	for i, item := range app.slideMenu.Items() {
		if option, ok := item.(slideOption); ok && option.key == key {
			return i
		}
	}
	t.Fatalf("slide %s not offered", key)
	return -1
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, app *App, msg tea.Msg) *App {
	t.Helper()
	model, cmd := app.Update(msg)
	return runCommands(t, model, cmd)
}

// runCommands drains cmd and everything it schedules, skipping spinner
// animation frames.
func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case nil, spinner.TickMsg, cursor.BlinkMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}
		nextModel, nextCmd := app.Update(msg)
		app, ok = nextModel.(*App)
		if !ok {
			t.Fatalf("unexpected model type: %T", nextModel)
		}
		queue = append(queue, nextCmd)
	}
	return app
}
