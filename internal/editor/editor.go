// Package editor applies natural-language edits to generated slides.
package editor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/kingrea/deckhand/internal/deck"
	"github.com/kingrea/deckhand/internal/failure"
	"github.com/kingrea/deckhand/internal/session"
)

var (
	// ErrEditInFlight rejects an edit submitted while another is pending.
	ErrEditInFlight = failure.NewLocal("error.edit.busy", "editor: an edit is already in progress")
	// ErrEmptyInstruction rejects a blank edit request.
	ErrEmptyInstruction = failure.NewLocal("error.edit.empty", "editor: edit instruction is empty")
	// ErrStaleContent rejects an edit whose Current text no longer matches
	// what the result displays.
	ErrStaleContent = failure.NewLocal("error.edit.stale", "editor: slide changed since the edit was requested")
)

// Service performs the remote edit.
type Service interface {
	EditSlide(ctx context.Context, token, slide, instruction string) (string, error)
}

// TokenSource yields the current session state.
type TokenSource interface {
	Get() session.State
}

// Request describes one edit.
type Request struct {
	Slide       string
	Current     string
	Instruction string
}

// Editor serializes edits: at most one is in flight at any time.
type Editor struct {
	svc    Service
	tokens TokenSource
	sem    *semaphore.Weighted
	logger *zap.Logger
}

// Option customizes an Editor.
type Option func(*Editor)

// WithLogger records edit outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New builds an editor.
func New(svc Service, tokens TokenSource, opts ...Option) *Editor {
	e := &Editor{
		svc:    svc,
		tokens: tokens,
		sem:    semaphore.NewWeighted(1),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Busy reports whether an edit is pending.
func (e *Editor) Busy() bool {
	if !e.sem.TryAcquire(1) {
		return true
	}
	e.sem.Release(1)
	return false
}

// RequestEdit sends req to the service and records the answer as the
// slide's edited content. On failure the result is left as it was.
func (e *Editor) RequestEdit(ctx context.Context, result *deck.Result, req Request) (string, error) {
	if !e.sem.TryAcquire(1) {
		return "", failure.ForSlide(failure.KindEdit, req.Slide, ErrEditInFlight)
	}
	defer e.sem.Release(1)

	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		return "", failure.ForSlide(failure.KindEdit, req.Slide, ErrEmptyInstruction)
	}
	displayed, ok := result.Display(req.Slide)
	if !ok {
		return "", failure.ForSlide(failure.KindEdit, req.Slide, fmt.Errorf("%w: %s", deck.ErrUnknownSlide, req.Slide))
	}
	if displayed != req.Current {
		return "", failure.ForSlide(failure.KindEdit, req.Slide, ErrStaleContent)
	}
	token := e.tokens.Get().AuthToken
	if strings.TrimSpace(token) == "" {
		return "", failure.ForSlide(failure.KindMissingCredential, req.Slide, failure.ErrMissingCredential)
	}

	content, err := e.svc.EditSlide(ctx, token, req.Slide, instruction)
	if err != nil {
		e.logger.Warn("slide edit failed", zap.String("slide", req.Slide), zap.Error(err))
		return "", failure.ForSlide(failure.KindEdit, req.Slide, err)
	}
	if err := result.SetEdited(req.Slide, content); err != nil {
		return "", failure.ForSlide(failure.KindEdit, req.Slide, err)
	}
	e.logger.Info("slide edited", zap.String("slide", req.Slide), zap.Int("bytes", len(content)))
	return content, nil
}

// Revert restores the generated text of slide.
func (e *Editor) Revert(result *deck.Result, slide string) error {
	if err := result.Revert(slide); err != nil {
		return failure.ForSlide(failure.KindEdit, slide, err)
	}
	e.logger.Info("slide edit reverted", zap.String("slide", slide))
	return nil
}
