// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for deckhand.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// Every call to the deck service runs inside a tea.Cmd and reports back
// with a message, so Update never blocks.

package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/deckhand/internal/deck"
	"github.com/kingrea/deckhand/internal/failure"
	"github.com/kingrea/deckhand/internal/i18n"
	"github.com/kingrea/deckhand/internal/logbook"
	"github.com/kingrea/deckhand/internal/runtime"
	"github.com/kingrea/deckhand/internal/session"
	"github.com/kingrea/deckhand/internal/slides"
	"github.com/kingrea/deckhand/internal/workflow"
)

// appState represents which "screen" we're on
type appState int

const (
	stateLanding    appState = iota // Project name entry
	stateUpload                     // Optional document upload
	stateSelection                  // Required + optional slide checklist
	stateGenerating                 // Live per-slide generation status
	stateResults                    // Generated slides, editable
	stateEditing                    // Textarea open for one slide
	statePreview                    // Read-only deck with export and delete
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithContext sets the parent context for service calls. Cancelling it
// abandons any generation run in progress.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// WithOrder overrides the deck layout offered on the selection screen.
func WithOrder(order slides.Order) AppOption {
	return func(a *App) {
		a.order = order
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	rt      *runtime.Runtime
	session *session.Store
	logbook *logbook.Logbook
	order   slides.Order
	ctx     context.Context
	cancel  context.CancelFunc

	// UI components
	nameInput  textinput.Model
	pathInput  textinput.Model
	editInput  textarea.Model
	spinner    spinner.Model
	slideMenu  list.Model
	selection  *slides.Selection
	generation *generationView

	result      *deck.Result
	cursor      int    // Selected slide on the results and preview screens
	editSlide   string // Slide open in the textarea
	editPending string // Slide with an edit request in flight
	busy        bool   // A create, upload, export or delete call is running

	statusMsg     string
	lastLogStatus string
	previewURL    string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates a new App over an opened runtime. The first screen follows
// the restored session phase.
func NewApp(rt *runtime.Runtime, opts ...AppOption) (*App, error) {
	if rt == nil || rt.Session == nil {
		return nil, fmt.Errorf("tui: runtime is not open")
	}
	app := &App{
		rt:        rt,
		session:   rt.Session,
		logbook:   rt.Logbook,
		order:     slides.Default,
		ctx:       context.Background(),
		selection: slides.NewSelection(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.ctx, app.cancel = context.WithCancel(app.ctx)

	app.nameInput = textinput.New()
	app.nameInput.CharLimit = 120
	app.pathInput = textinput.New()
	app.editInput = textarea.New()
	app.editInput.ShowLineNumbers = false
	app.editInput.SetHeight(5)
	app.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	app.slideMenu = newSlideMenu()
	app.relabel()

	state := app.session.Get()
	app.logInfo("Session opened · %s", i18n.Resolve(state.Language, state.Phase.LabelKey()))
	app.restoreScreen(state)
	return app, nil
}

// restoreScreen picks the first screen for a reloaded session. Generated
// content is not persisted, so later phases resume at slide selection.
func (a *App) restoreScreen(state session.State) {
	switch {
	case !state.HasProject():
		a.enterLanding()
	case state.Phase == workflow.PhaseUploading:
		a.enterUpload()
	default:
		a.enterSelection()
	}
}

func (a *App) lang() i18n.Language {
	return a.session.Get().Language
}

func (a *App) text(key string) string {
	return i18n.Resolve(a.lang(), key)
}

func (a *App) textf(key string, args ...any) string {
	return i18n.Resolvef(a.lang(), key, args...)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

func (a *App) logProgress(status string) {
	status = strings.TrimSpace(status)
	if status == "" || status == a.lastLogStatus {
		return
	}
	a.lastLogStatus = status
	a.logInfo("%s", status)
}

// setStatus shows message in the footer and records it in the logbook.
func (a *App) setStatus(message string) {
	a.statusMsg = message
	a.logProgress(message)
}

// showFailure renders err in the active language on the status line and
// appends it to the logbook.
func (a *App) showFailure(err error) {
	if err == nil {
		return
	}
	message := failure.Message(a.lang(), err)
	a.statusMsg = "⚠ " + message
	a.logError("%s", message)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.focusCurrent())
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.slideMenu.SetSize(max(20, msg.Width-6), max(6, msg.Height-16))
		a.editInput.SetWidth(max(20, msg.Width-10))
		return a, nil

	case spinner.TickMsg:
		if a.state != stateGenerating && !a.busy && a.editPending == "" {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case projectCreatedMsg:
		return a.handleProjectCreated(msg)
	case uploadFinishedMsg:
		return a.handleUploadFinished(msg)
	case generationEventMsg:
		return a.handleGenerationEvent(msg)
	case editFinishedMsg:
		return a.handleEditFinished(msg)
	case languageSetMsg:
		return a.handleLanguageSet(msg)
	case previewStartedMsg:
		return a.handlePreviewStarted(msg)
	case exportFinishedMsg:
		return a.handleExportFinished(msg)
	case deleteFinishedMsg:
		return a.handleDeleteFinished(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.shutdown()
			return a, tea.Quit
		case "ctrl+l":
			return a, a.toggleLanguage()
		case "ctrl+t":
			a.toggleEditMode()
			return a, nil
		}
		switch a.state {
		case stateLanding:
			return a.updateLanding(msg)
		case stateUpload:
			return a.updateUpload(msg)
		case stateSelection:
			return a.updateSelection(msg)
		case stateGenerating:
			return a, nil
		case stateResults:
			return a.updateResults(msg)
		case stateEditing:
			return a.updateEditing(msg)
		case statePreview:
			return a.updatePreview(msg)
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateLanding:
		a.nameInput, cmd = a.nameInput.Update(msg)
	case stateUpload:
		a.pathInput, cmd = a.pathInput.Update(msg)
	case stateEditing:
		a.editInput, cmd = a.editInput.Update(msg)
	}
	return a, cmd
}

// shutdown abandons background work before the program exits.
func (a *App) shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.rt.Preview != nil {
		_ = a.rt.Preview.Shutdown(context.Background())
	}
}

func (a *App) focusCurrent() tea.Cmd {
	a.nameInput.Blur()
	a.pathInput.Blur()
	a.editInput.Blur()
	switch a.state {
	case stateLanding:
		return a.nameInput.Focus()
	case stateUpload:
		return a.pathInput.Focus()
	case stateEditing:
		return a.editInput.Focus()
	}
	return nil
}

// relabel refreshes every placeholder and list title after a language change.
func (a *App) relabel() {
	a.nameInput.Placeholder = a.text("landing.placeholder")
	a.pathInput.Placeholder = a.text("upload.placeholder")
	a.editInput.Placeholder = a.text("edit.prompt")
	a.slideMenu.Title = a.text("phase.selecting")
	a.refreshSlideMenu()
}

func (a *App) toggleLanguage() tea.Cmd {
	next := a.lang().Next()
	projects := a.rt.Projects
	ctx := a.ctx
	return func() tea.Msg {
		return languageSetMsg{lang: next, err: projects.SetLanguage(ctx, next)}
	}
}

func (a *App) handleLanguageSet(msg languageSetMsg) (tea.Model, tea.Cmd) {
	a.relabel()
	if msg.err != nil {
		a.showFailure(msg.err)
		return a, nil
	}
	a.setStatus(a.text("language.success"))
	return a, nil
}

func (a *App) toggleEditMode() {
	mode := a.session.Get().EditMode.Toggle()
	if err := a.session.Set(session.Patch{EditMode: session.Ptr(mode)}); err != nil {
		a.logWarn("session save failed: %v", err)
	}
	a.setStatus(fmt.Sprintf("%s: %s", a.text("editmode.label"), a.text(mode.LabelKey())))
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(32, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
	}
	if leftWidth < 20 {
		leftWidth = width
		rightWidth = 0
	}
	var content string
	switch a.state {
	case stateLanding:
		content = a.renderLanding()
	case stateUpload:
		content = a.renderUpload()
	case stateSelection:
		content = a.renderSelection()
	case stateGenerating:
		content = a.renderGenerating()
	case stateResults:
		content = a.renderResults()
	case stateEditing:
		content = a.renderEditing()
	case statePreview:
		content = a.renderPreview()
	}
	return a.renderStatusBoard(content, leftWidth, rightWidth)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(8)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s · %d", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
	return box
}

func (a *App) renderStatusBoard(mainContent string, leftWidth, rightWidth int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render(a.text("app.title"))
	left := lipgloss.JoinVertical(lipgloss.Left,
		a.renderPhasePanel(leftWidth-4),
		"",
		a.renderMainArea(mainContent, leftWidth-4),
	)
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, leftWidth)).
		Render(left)
	var body string
	if rightWidth > 0 {
		right := a.renderSessionPanel(rightWidth - 4)
		rightBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(max(20, rightWidth)).
			Render(right)
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	} else {
		body = leftBox
	}
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	keys := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#444444")).
		Render(a.text("keys.global"))
	sections = append(sections, footer, keys)
	return strings.Join(sections, "\n")
}

func (a *App) renderPhasePanel(width int) string {
	state := a.session.Get()
	pos, total := state.Phase.Position()
	lines := []string{
		fmt.Sprintf("%s: %s (%d/%d)", a.text("phase.label"), a.text(state.Phase.LabelKey()), pos+1, total),
	}
	var next []string
	for _, p := range workflow.Phases()[pos+1:] {
		next = append(next, a.text(p.LabelKey()))
	}
	if len(next) > 0 {
		lines = append(lines, "→ "+strings.Join(next, " → "))
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Width(max(20, width)).
		Render(strings.Join(lines, "\n"))
}

func (a *App) renderMainArea(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		content = a.text("landing.heading")
	}
	return lipgloss.NewStyle().Width(max(20, width)).Render(content)
}

// renderSessionPanel summarizes the session fields the user can change.
func (a *App) renderSessionPanel(width int) string {
	state := a.session.Get()
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(a.text("app.title"))
	project := state.ProjectID
	if project == "" {
		project = "-"
	}
	rows := []string{
		fmt.Sprintf("ID: %s", project),
		fmt.Sprintf("%s: %s", a.text("language.label"), a.text("language."+string(state.Language))),
		fmt.Sprintf("%s: %s", a.text("editmode.label"), a.text(state.EditMode.LabelKey())),
		fmt.Sprintf("%s: %d", a.text("selection.required"), state.RequiredSlideCount),
	}
	if a.result != nil {
		rows = append(rows, fmt.Sprintf("%s: %d", a.text("generation.heading"), a.result.Len()))
	}
	if a.previewURL != "" {
		rows = append(rows, a.textf("preview.served", a.previewURL))
	}
	body := lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(rows, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

func renderHint(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render(text)
}

func renderHeading(text string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(text)
}
