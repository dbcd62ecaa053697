package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/deckhand/internal/deckapi"
	"github.com/kingrea/deckhand/internal/editor"
	"github.com/kingrea/deckhand/internal/failure"
	"github.com/kingrea/deckhand/internal/i18n"
	"github.com/kingrea/deckhand/internal/preview"
	"github.com/kingrea/deckhand/internal/project"
	"github.com/kingrea/deckhand/internal/session"
	"github.com/kingrea/deckhand/internal/slides"
	"github.com/kingrea/deckhand/internal/workflow"
)

type projectCreatedMsg struct {
	name    string
	created project.Created
	err     error
}

type uploadFinishedMsg struct {
	result deckapi.UploadResult
	err    error
}

type editFinishedMsg struct {
	slide   string
	content string
	err     error
}

type languageSetMsg struct {
	lang i18n.Language
	err  error
}

type previewStartedMsg struct {
	url string
	err error
}

type exportFinishedMsg struct {
	path string
	err  error
}

type deleteFinishedMsg struct {
	projectID string
	err       error
}

func (a *App) slideTitle(key string) string {
	return a.text("slide." + key)
}

// ---- landing ---------------------------------------------------------------

func (a *App) enterLanding() tea.Cmd {
	a.state = stateLanding
	a.nameInput.Reset()
	return a.focusCurrent()
}

func (a *App) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "enter" {
		var cmd tea.Cmd
		a.nameInput, cmd = a.nameInput.Update(msg)
		return a, cmd
	}
	if a.busy {
		return a, nil
	}
	name := strings.TrimSpace(a.nameInput.Value())
	if name == "" {
		a.showFailure(failure.New(failure.KindCreation, project.ErrEmptyName))
		return a, nil
	}
	a.busy = true
	a.statusMsg = a.text("landing.creating")
	projects := a.rt.Projects
	ctx := a.ctx
	return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
		created, err := projects.Create(ctx, name)
		return projectCreatedMsg{name: name, created: created, err: err}
	})
}

func (a *App) handleProjectCreated(msg projectCreatedMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	if msg.err != nil {
		a.showFailure(msg.err)
		return a, nil
	}
	a.resetSelection()
	a.setStatus(a.textf("landing.created", msg.created.ProjectID))
	return a, a.enterUpload()
}

func (a *App) renderLanding() string {
	lines := []string{
		renderHeading(a.text("landing.heading")),
		"",
		a.text("landing.prompt"),
		a.nameInput.View(),
	}
	if a.busy {
		lines = append(lines, "", a.spinner.View()+" "+a.text("landing.creating"))
	}
	return strings.Join(lines, "\n")
}

// ---- upload ----------------------------------------------------------------

func (a *App) enterUpload() tea.Cmd {
	a.state = stateUpload
	a.pathInput.Reset()
	return a.focusCurrent()
}

func (a *App) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		if a.busy {
			return a, nil
		}
		return a, a.enterSelection()
	case "enter":
		if a.busy {
			return a, nil
		}
		paths := splitPaths(a.pathInput.Value())
		if len(paths) == 0 {
			a.showFailure(failure.New(failure.KindUpload, project.ErrNoDocuments))
			return a, nil
		}
		a.busy = true
		a.statusMsg = a.text("upload.uploading")
		projects := a.rt.Projects
		ctx := a.ctx
		return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
			result, err := projects.Upload(ctx, paths)
			return uploadFinishedMsg{result: result, err: err}
		})
	}
	var cmd tea.Cmd
	a.pathInput, cmd = a.pathInput.Update(msg)
	return a, cmd
}

func (a *App) handleUploadFinished(msg uploadFinishedMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	if msg.err != nil {
		a.showFailure(msg.err)
		return a, nil
	}
	detail := msg.result.Message
	if detail == "" {
		detail = msg.result.Status
	}
	a.setStatus(a.textf("upload.success", detail))
	a.pathInput.Reset()
	return a, nil
}

func splitPaths(raw string) []string {
	var paths []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			paths = append(paths, part)
		}
	}
	return paths
}

func (a *App) renderUpload() string {
	lines := []string{
		renderHeading(a.text("upload.heading")),
		"",
		a.text("upload.prompt"),
		a.pathInput.View(),
	}
	if a.busy {
		lines = append(lines, "", a.spinner.View()+" "+a.text("upload.uploading"))
	}
	lines = append(lines, renderHint(a.text("upload.hint")))
	return strings.Join(lines, "\n")
}

// ---- selection -------------------------------------------------------------

// slideOption implements list.Item for the selection checklist.
type slideOption struct {
	key      string
	title    string
	section  string
	required bool
	checked  bool
}

func (o slideOption) Title() string {
	box := "[ ]"
	if o.checked {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s", box, o.title)
}
func (o slideOption) Description() string { return o.section }
func (o slideOption) FilterValue() string { return o.key }

func newSlideMenu() list.Model {
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	menu.KeyMap.Quit.SetEnabled(false)
	return menu
}

func (a *App) resetSelection() {
	a.selection = slides.NewSelection()
	a.refreshSlideMenu()
}

func (a *App) refreshSlideMenu() {
	var items []list.Item
	for _, key := range a.order.RequiredKeys() {
		items = append(items, slideOption{
			key:      key,
			title:    a.slideTitle(key),
			section:  a.text("selection.required"),
			required: true,
			checked:  true,
		})
	}
	for _, key := range a.order.OptionalKeys() {
		items = append(items, slideOption{
			key:     key,
			title:   a.slideTitle(key),
			section: a.text("selection.optional"),
			checked: a.selection.Has(key),
		})
	}
	a.slideMenu.SetItems(items)
}

// enterSelection is gated by the project's slide count: without an analyzed
// project the user is sent back to upload.
func (a *App) enterSelection() tea.Cmd {
	ok, err := a.rt.Projects.EnterSelection()
	if err != nil {
		a.logWarn("session save failed: %v", err)
	}
	if !ok {
		a.setStatus(a.text("selection.redirect"))
		if !a.session.Get().HasProject() {
			return a.enterLanding()
		}
		return a.enterUpload()
	}
	a.state = stateSelection
	a.refreshSlideMenu()
	return a.focusCurrent()
}

func (a *App) updateSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "space":
		option, ok := a.slideMenu.SelectedItem().(slideOption)
		if ok && !option.required {
			a.selection.Toggle(option.key)
			a.refreshSlideMenu()
		}
		return a, nil
	case "enter":
		return a.startGeneration()
	}
	var cmd tea.Cmd
	a.slideMenu, cmd = a.slideMenu.Update(msg)
	return a, cmd
}

func (a *App) renderSelection() string {
	view := a.slideMenu.View()
	picked := make([]string, 0, a.selection.Len())
	for _, key := range a.selection.Keys() {
		picked = append(picked, a.slideTitle(key))
	}
	lines := []string{view}
	if len(picked) > 0 {
		lines = append(lines, fmt.Sprintf("%s: %s", a.text("selection.optional"), strings.Join(picked, ", ")))
	}
	lines = append(lines, renderHint(a.text("selection.hint")))
	return strings.Join(lines, "\n")
}

// ---- results and editing ---------------------------------------------------

func (a *App) moveCursor(delta int) {
	if a.result == nil || a.result.Len() == 0 {
		a.cursor = 0
		return
	}
	a.cursor = min(max(0, a.cursor+delta), a.result.Len()-1)
}

func (a *App) currentSlide() (string, bool) {
	keys := a.result.Keys()
	if a.cursor < 0 || a.cursor >= len(keys) {
		return "", false
	}
	return keys[a.cursor], true
}

func (a *App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.moveCursor(-1)
	case "down", "j":
		a.moveCursor(1)
	case "e", "enter":
		slide, ok := a.currentSlide()
		if !ok {
			return a, nil
		}
		if a.rt.Editor.Busy() || a.editPending != "" {
			a.showFailure(failure.ForSlide(failure.KindEdit, slide, editor.ErrEditInFlight))
			return a, nil
		}
		a.editSlide = slide
		a.editInput.Reset()
		a.state = stateEditing
		return a, a.focusCurrent()
	case "u":
		slide, ok := a.currentSlide()
		if !ok {
			return a, nil
		}
		if err := a.rt.Editor.Revert(a.result, slide); err != nil {
			a.showFailure(err)
			return a, nil
		}
		a.setStatus(a.textf("edit.reverted", a.slideTitle(slide)))
	case "m":
		return a, a.enterSelection()
	case "p":
		return a.enterPreview()
	}
	return a, nil
}

func (a *App) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.editSlide = ""
		a.state = stateResults
		return a, a.focusCurrent()
	case "ctrl+s":
		slide := a.editSlide
		current, _ := a.result.Display(slide)
		req := editor.Request{Slide: slide, Current: current, Instruction: a.editInput.Value()}
		if strings.TrimSpace(req.Instruction) == "" {
			a.showFailure(failure.ForSlide(failure.KindEdit, slide, editor.ErrEmptyInstruction))
			return a, nil
		}
		a.editSlide = ""
		a.editPending = slide
		a.state = stateResults
		a.statusMsg = a.textf("edit.pending", a.slideTitle(slide))
		ed := a.rt.Editor
		result := a.result
		ctx := a.ctx
		return a, tea.Batch(a.focusCurrent(), a.spinner.Tick, func() tea.Msg {
			content, err := ed.RequestEdit(ctx, result, req)
			return editFinishedMsg{slide: slide, content: content, err: err}
		})
	}
	var cmd tea.Cmd
	a.editInput, cmd = a.editInput.Update(msg)
	return a, cmd
}

func (a *App) handleEditFinished(msg editFinishedMsg) (tea.Model, tea.Cmd) {
	if a.editPending == msg.slide {
		a.editPending = ""
	}
	if msg.err != nil {
		a.showFailure(msg.err)
		return a, nil
	}
	a.setStatus(a.textf("edit.saved", a.slideTitle(msg.slide)))
	return a, nil
}

func (a *App) renderSlides(withCursor bool) string {
	if a.result == nil || a.result.Len() == 0 {
		return a.text("results.empty")
	}
	titleStyle := lipgloss.NewStyle().Bold(true)
	selectedStyle := titleStyle.Foreground(lipgloss.Color("#5B8DEF"))
	bodyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).PaddingLeft(2)
	var blocks []string
	for i, entry := range a.result.Entries() {
		marker := "  "
		style := titleStyle
		if withCursor && i == a.cursor {
			marker = "▸ "
			style = selectedStyle
		}
		title := marker + a.slideTitle(entry.SlideKey)
		if entry.Edited() {
			title += " " + a.text("results.edited")
		}
		if entry.SlideKey == a.editPending {
			title += " " + a.spinner.View()
		}
		blocks = append(blocks, style.Render(title)+"\n"+bodyStyle.Render(entry.Display()))
	}
	return strings.Join(blocks, "\n\n")
}

func (a *App) renderResults() string {
	hint := a.text("results.hint")
	if a.editPending != "" {
		hint = a.text("error.edit.busy")
	}
	return strings.Join([]string{
		renderHeading(a.text("generation.heading")),
		"",
		a.renderSlides(true),
		renderHint(hint),
	}, "\n")
}

func (a *App) renderEditing() string {
	current, _ := a.result.Display(a.editSlide)
	lines := []string{
		renderHeading(fmt.Sprintf("%s · %s", a.slideTitle(a.editSlide), a.text(a.session.Get().EditMode.LabelKey()))),
		"",
	}
	if a.session.Get().EditMode == session.EditStructured {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Render(current), "")
	}
	lines = append(lines, a.editInput.View(), renderHint(a.text("edit.hint")))
	return strings.Join(lines, "\n")
}

// ---- preview ---------------------------------------------------------------

func (a *App) enterPreview() (tea.Model, tea.Cmd) {
	if err := a.session.Set(session.Patch{Phase: session.Ptr(workflow.PhasePreviewing)}); err != nil {
		a.logWarn("session save failed: %v", err)
	}
	a.state = statePreview
	a.rt.Preview.Publish(a.result)
	srv := a.rt.Preview
	ctx := a.ctx
	return a, func() tea.Msg {
		if err := srv.Start(ctx); err != nil {
			return previewStartedMsg{err: err}
		}
		return previewStartedMsg{url: srv.BaseURL()}
	}
}

func (a *App) handlePreviewStarted(msg previewStartedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, preview.ErrDisabled) {
		return a, nil
	}
	if msg.err != nil {
		a.logWarn("preview server: %v", msg.err)
		return a, nil
	}
	a.previewURL = msg.url
	a.setStatus(a.textf("preview.served", msg.url))
	return a, nil
}

func (a *App) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	switch msg.String() {
	case "b", "esc":
		if err := a.session.Set(session.Patch{Phase: session.Ptr(workflow.PhaseGenerating)}); err != nil {
			a.logWarn("session save failed: %v", err)
		}
		a.state = stateResults
	case "x":
		a.busy = true
		a.statusMsg = a.text("export.pending")
		projects := a.rt.Projects
		result := a.result
		path := a.rt.Config.ExportPath()
		ctx := a.ctx
		return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
			abs, err := projects.Export(ctx, result, path)
			return exportFinishedMsg{path: abs, err: err}
		})
	case "d":
		state := a.session.Get()
		a.busy = true
		a.statusMsg = a.text("delete.pending")
		projects := a.rt.Projects
		ctx := a.ctx
		return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
			err := projects.Delete(ctx, state.ProjectID, state.AuthToken)
			return deleteFinishedMsg{projectID: state.ProjectID, err: err}
		})
	}
	return a, nil
}

func (a *App) handleExportFinished(msg exportFinishedMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	if msg.err != nil {
		a.showFailure(msg.err)
		return a, nil
	}
	a.setStatus(a.textf("export.success", msg.path))
	return a, nil
}

func (a *App) handleDeleteFinished(msg deleteFinishedMsg) (tea.Model, tea.Cmd) {
	a.busy = false
	if msg.err != nil {
		a.showFailure(msg.err)
		return a, nil
	}
	if err := a.rt.Preview.Shutdown(context.Background()); err != nil {
		a.logWarn("preview shutdown: %v", err)
	}
	a.previewURL = ""
	a.result = nil
	a.cursor = 0
	a.rt.Preview.Publish(nil)
	a.resetSelection()
	a.setStatus(a.textf("delete.success", msg.projectID))
	return a, a.enterLanding()
}

func (a *App) renderPreview() string {
	lines := []string{
		renderHeading(a.text("preview.heading")),
		"",
		a.renderSlides(false),
	}
	if a.busy {
		lines = append(lines, "", a.spinner.View()+" "+a.statusMsg)
	}
	lines = append(lines, renderHint(a.text("preview.hint")))
	return strings.Join(lines, "\n")
}
