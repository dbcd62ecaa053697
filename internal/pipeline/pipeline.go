// Package pipeline runs sequential slide generation and reports progress as
// a stream of events.
package pipeline

import (
	"context"
	"iter"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kingrea/deckhand/internal/deck"
	"github.com/kingrea/deckhand/internal/failure"
	"github.com/kingrea/deckhand/internal/session"
	"github.com/kingrea/deckhand/internal/slides"
	"github.com/kingrea/deckhand/internal/workflow"
)

// EventKind identifies an event in a run.
type EventKind int

const (
	EventStarted EventKind = iota
	EventSucceeded
	EventFailed
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event is one observation of a run. Content is set for succeeded, Err for
// failed and Result for completed.
type Event struct {
	Kind    EventKind
	Slide   string
	Content string
	Err     error
	Result  *deck.Result
}

// Generator produces the content of one slide.
type Generator interface {
	GenerateSlide(ctx context.Context, token, slide string) (string, error)
}

// Store is the session view the pipeline needs.
type Store interface {
	Get() session.State
	Set(session.Patch) error
}

// Pipeline generates slides one at a time.
type Pipeline struct {
	gen    Generator
	store  Store
	order  slides.Order
	policy slides.OrderPolicy
	logger *zap.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithOrder replaces the deck layout.
func WithOrder(order slides.Order) Option {
	return func(p *Pipeline) {
		p.order = order
	}
}

// WithPolicy selects how optional slides are sequenced.
func WithPolicy(policy slides.OrderPolicy) Option {
	return func(p *Pipeline) {
		if policy != "" {
			p.policy = policy
		}
	}
}

// WithLogger records one line per event.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New builds a pipeline generating through gen and reading the credential
// from store.
func New(gen Generator, store Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:    gen,
		store:  store,
		order:  slides.Default,
		policy: slides.OrderSelection,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Sequence returns the keys a run over selected would generate.
func (p *Pipeline) Sequence(selected []string) []string {
	return p.order.Sequence(selected, p.policy)
}

// Run returns a single-use event stream. Ranging over it issues one request
// per slide, each only after the previous one answered. A consumer that
// stops ranging, or a cancelled ctx, abandons the run: no further requests
// are made and completed is not emitted.
func (p *Pipeline) Run(ctx context.Context, selected []string) iter.Seq[Event] {
	var used atomic.Bool
	sequence := p.Sequence(selected)
	return func(yield func(Event) bool) {
		if !used.CompareAndSwap(false, true) {
			return
		}
		p.update(session.Patch{
			Phase:              session.Ptr(workflow.PhaseGenerating),
			GenerationComplete: session.Ptr(false),
		})
		p.logger.Info("generation started", zap.Strings("slides", sequence))

		result := deck.NewResult()
		for _, key := range sequence {
			if ctx.Err() != nil {
				p.logger.Info("generation abandoned", zap.String("slide", key), zap.Error(ctx.Err()))
				return
			}
			p.logger.Info("slide started", zap.String("slide", key))
			if !yield(Event{Kind: EventStarted, Slide: key}) {
				return
			}

			content, err := p.generate(ctx, key)
			if err != nil {
				if ctx.Err() != nil {
					p.logger.Info("generation abandoned", zap.String("slide", key), zap.Error(ctx.Err()))
					return
				}
				ferr := failure.ForSlide(failure.KindGenerationItem, key, err)
				p.logger.Warn("slide failed", zap.String("slide", key), zap.Error(err))
				if !yield(Event{Kind: EventFailed, Slide: key, Err: ferr}) {
					return
				}
				continue
			}

			result.Append(key, content)
			p.logger.Info("slide generated", zap.String("slide", key), zap.Int("bytes", len(content)))
			if !yield(Event{Kind: EventSucceeded, Slide: key, Content: content}) {
				return
			}
		}

		p.update(session.Patch{GenerationComplete: session.Ptr(true)})
		p.logger.Info("generation completed",
			zap.Int("succeeded", result.Len()),
			zap.Int("failed", len(sequence)-result.Len()),
		)
		yield(Event{Kind: EventCompleted, Result: result})
	}
}

func (p *Pipeline) generate(ctx context.Context, key string) (string, error) {
	token := p.store.Get().AuthToken
	if strings.TrimSpace(token) == "" {
		return "", failure.ErrMissingCredential
	}
	return p.gen.GenerateSlide(ctx, token, key)
}

func (p *Pipeline) update(patch session.Patch) {
	if err := p.store.Set(patch); err != nil {
		p.logger.Warn("session update failed", zap.Error(err))
	}
}
