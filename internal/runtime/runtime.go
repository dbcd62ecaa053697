// Package runtime wires the shared dependencies of a deckhand session.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kingrea/deckhand/internal/config"
	"github.com/kingrea/deckhand/internal/deckapi"
	"github.com/kingrea/deckhand/internal/editor"
	"github.com/kingrea/deckhand/internal/logbook"
	"github.com/kingrea/deckhand/internal/logging"
	"github.com/kingrea/deckhand/internal/pipeline"
	"github.com/kingrea/deckhand/internal/preview"
	"github.com/kingrea/deckhand/internal/project"
	"github.com/kingrea/deckhand/internal/session"
)

const sessionIOTimeout = 5 * time.Second

// Runtime carries every component the TUI and commands operate on.
type Runtime struct {
	Config      *config.Config
	Logger      *logging.Logger
	Logbook     *logbook.Logbook
	Session     *session.Store
	Persistence *session.KVPersistence
	API         *deckapi.Client
	Pipeline    *pipeline.Pipeline
	Editor      *editor.Editor
	Projects    *project.Lifecycle
	Preview     *preview.Server

	closers []func() error
}

// Option customizes Open.
type Option func(*options)

type options struct {
	httpClient deckapi.HTTPClient
	logger     *logging.Logger
}

// WithHTTPClient replaces the transport used to reach the deck service.
func WithHTTPClient(h deckapi.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = h
	}
}

// WithLogger replaces the file logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Open prepares the .deckhand directory in projectDir, restores the session
// and builds every component.
func Open(projectDir string, opts ...Option) (*Runtime, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := config.InitDeckhandDir(projectDir); err != nil {
		return nil, fmt.Errorf("runtime: init dir: %w", err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg}
	rt.Logger = o.logger
	if rt.Logger == nil {
		if rt.Logger, err = logging.New(cfg); err != nil {
			return nil, err
		}
	}
	rt.closers = append(rt.closers, rt.Logger.Close)

	if rt.Logbook, err = logbook.New(cfg.JourneyLogPath()); err != nil {
		rt.Close()
		return nil, fmt.Errorf("runtime: logbook: %w", err)
	}

	store, persistence, closeKV, err := OpenSession(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Session = store
	rt.Persistence = persistence
	rt.closers = append(rt.closers, closeKV)
	stopFollow := rt.Logbook.Follow(store)
	rt.closers = append(rt.closers, func() error { stopFollow(); return nil })

	apiOpts := []deckapi.Option{
		deckapi.WithTimeout(cfg.Project.Service.Timeout),
		deckapi.WithLogger(rt.Logger.Named("deckapi")),
	}
	if o.httpClient != nil {
		apiOpts = append(apiOpts, deckapi.WithHTTPClient(o.httpClient))
	}
	if rt.API, err = deckapi.New(cfg.Project.Service.BaseURL, apiOpts...); err != nil {
		rt.Close()
		return nil, err
	}

	rt.Pipeline = pipeline.New(rt.API, store,
		pipeline.WithPolicy(cfg.OrderPolicy()),
		pipeline.WithLogger(rt.Logger.Named("pipeline")),
	)
	rt.Editor = editor.New(rt.API, store, editor.WithLogger(rt.Logger.Named("editor")))
	rt.Projects = project.New(rt.API, store, project.WithLogger(rt.Logger.Named("project")))
	previewOpts := []preview.Option{preview.WithLogger(rt.Logger.Named("preview"))}
	if !cfg.Project.Preview.Enabled {
		previewOpts = append(previewOpts, preview.Disabled())
	}
	rt.Preview = preview.NewServer(cfg.PreviewAddress(), store, previewOpts...)
	rt.closers = append(rt.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return rt.Preview.Shutdown(ctx)
	})

	state := store.Get()
	rt.Logger.Printf("session restored: phase=%s project=%q language=%s backend=%s",
		state.Phase, state.ProjectID, state.Language, cfg.SessionBackend().Backend)
	return rt, nil
}

// OpenSession restores the session store from the configured backend. The
// returned func releases backend connections.
func OpenSession(cfg *config.Config) (*session.Store, *session.KVPersistence, func() error, error) {
	kv, err := session.NewKV(cfg.SessionBackend())
	if err != nil {
		return nil, nil, nil, err
	}
	closeKV := func() error {
		if closer, ok := kv.(io.Closer); ok {
			return closer.Close()
		}
		return nil
	}
	persistence := session.NewKVPersistence(kv, sessionIOTimeout)
	store, err := session.Open(persistence)
	if err != nil {
		_ = closeKV()
		return nil, nil, nil, err
	}
	return store, persistence, closeKV, nil
}

// Close releases resources in reverse order of acquisition.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
