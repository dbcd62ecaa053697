package tui

import (
	"context"
	"fmt"
	"iter"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/deckhand/internal/pipeline"
)

type slideStatus int

const (
	slidePending slideStatus = iota
	slideRunning
	slideDone
	slideFailed
)

func (s slideStatus) labelKey() string {
	switch s {
	case slideRunning:
		return "generation.running"
	case slideDone:
		return "generation.done"
	case slideFailed:
		return "generation.failed"
	default:
		return "generation.pending"
	}
}

// generationView pulls one pipeline event per tea.Cmd. next and stop are
// only ever called from one goroutine at a time: a new pull is issued after
// the previous event reached Update.
type generationView struct {
	keys   []string
	status map[string]slideStatus
	next   func() (pipeline.Event, bool)
	stop   func()
	cancel context.CancelFunc
	done   int
	failed int
}

type generationEventMsg struct {
	run   *generationView
	event pipeline.Event
	ok    bool
}

func newGenerationView(ctx context.Context, p *pipeline.Pipeline, selected []string) *generationView {
	runCtx, cancel := context.WithCancel(ctx)
	next, stop := iter.Pull(p.Run(runCtx, selected))
	keys := p.Sequence(selected)
	status := make(map[string]slideStatus, len(keys))
	for _, key := range keys {
		status[key] = slidePending
	}
	return &generationView{
		keys:   keys,
		status: status,
		next:   next,
		stop:   stop,
		cancel: cancel,
	}
}

// pull waits for the next pipeline event off the Update goroutine.
func (g *generationView) pull() tea.Cmd {
	return func() tea.Msg {
		event, ok := g.next()
		return generationEventMsg{run: g, event: event, ok: ok}
	}
}

// abandon cancels the run. The pending pull returns once the in-flight
// request unwinds, and that final message releases the iterator.
func (g *generationView) abandon() {
	g.cancel()
}

func (g *generationView) finish() {
	g.cancel()
	g.stop()
}

func (g *generationView) apply(event pipeline.Event) {
	switch event.Kind {
	case pipeline.EventStarted:
		g.status[event.Slide] = slideRunning
	case pipeline.EventSucceeded:
		g.status[event.Slide] = slideDone
		g.done++
	case pipeline.EventFailed:
		g.status[event.Slide] = slideFailed
		g.failed++
	}
}

func (g *generationView) settled() int {
	return g.done + g.failed
}

func (a *App) startGeneration() (tea.Model, tea.Cmd) {
	if a.generation != nil {
		a.generation.abandon()
	}
	a.result = nil
	a.cursor = 0
	a.rt.Preview.Publish(nil)
	a.generation = newGenerationView(a.ctx, a.rt.Pipeline, a.selection.Keys())
	a.state = stateGenerating
	a.setStatus(a.textf("generation.progress", 0, len(a.generation.keys)))
	return a, tea.Batch(a.generation.pull(), a.spinner.Tick)
}

func (a *App) handleGenerationEvent(msg generationEventMsg) (tea.Model, tea.Cmd) {
	run := msg.run
	if run != a.generation {
		run.finish()
		return a, nil
	}
	if !msg.ok || msg.event.Kind == pipeline.EventCompleted {
		run.finish()
	}
	if !msg.ok {
		// Abandoned before completion; the run produced no result.
		a.generation = nil
		return a, nil
	}
	event := msg.event
	run.apply(event)
	switch event.Kind {
	case pipeline.EventStarted:
		a.statusMsg = a.textf("generation.progress", run.settled()+1, len(run.keys))
	case pipeline.EventSucceeded:
		a.logInfo("%s · %s", a.slideTitle(event.Slide), a.text("generation.done"))
	case pipeline.EventFailed:
		a.showFailure(event.Err)
	case pipeline.EventCompleted:
		a.result = event.Result
		a.generation = nil
		a.rt.Preview.Publish(a.result)
		a.state = stateResults
		a.setStatus(a.textf("generation.complete", a.result.Len(), len(run.keys)))
		return a, nil
	}
	return a, run.pull()
}

func (a *App) renderGenerating() string {
	run := a.generation
	if run == nil {
		return a.spinner.View()
	}
	lines := []string{
		renderHeading(fmt.Sprintf("%s %s", a.spinner.View(), a.textf("generation.progress", run.settled(), len(run.keys)))),
		"",
	}
	for _, key := range run.keys {
		status := run.status[key]
		lines = append(lines, fmt.Sprintf("%s  %s", statusStyle(status).Render(fmt.Sprintf("%-12s", a.text(status.labelKey()))), a.slideTitle(key)))
	}
	return strings.Join(lines, "\n")
}

func statusStyle(status slideStatus) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch status {
	case slideRunning:
		return style.Foreground(lipgloss.Color("#5B8DEF"))
	case slideDone:
		return style.Foreground(lipgloss.Color("#7BD88F"))
	case slideFailed:
		return style.Foreground(lipgloss.Color("#FF6B6B"))
	default:
		return style.Foreground(lipgloss.Color("#888888"))
	}
}
