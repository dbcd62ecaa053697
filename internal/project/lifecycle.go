// Package project drives the lifecycle of a remote pitch deck project:
// creation, document upload, deletion, language and export.
package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/kingrea/deckhand/internal/deck"
	"github.com/kingrea/deckhand/internal/deckapi"
	"github.com/kingrea/deckhand/internal/failure"
	"github.com/kingrea/deckhand/internal/i18n"
	"github.com/kingrea/deckhand/internal/session"
	"github.com/kingrea/deckhand/internal/slides"
	"github.com/kingrea/deckhand/internal/workflow"
)

var (
	// ErrEmptyName rejects a blank project name.
	ErrEmptyName = failure.NewLocal("error.creation.name", "project: name is empty")
	// ErrNoDocuments rejects an upload without files.
	ErrNoDocuments = failure.NewLocal("error.upload.empty", "project: no documents selected")
	// ErrNothingToExport rejects an export before any slide was generated.
	ErrNothingToExport = errors.New("project: no generated slides to export")
	// ErrInvalidPDF marks a download that is not a readable PDF.
	ErrInvalidPDF = errors.New("project: downloaded file is not a valid PDF")
)

// Service is the remote API used by Lifecycle.
type Service interface {
	CreateProject(ctx context.Context, projectID string) (deckapi.Project, error)
	UploadDocuments(ctx context.Context, token string, docs []deckapi.Document) (deckapi.UploadResult, error)
	DeleteProject(ctx context.Context, token, projectID string) error
	DownloadPDF(ctx context.Context, token string) ([]byte, error)
	SetLanguage(ctx context.Context, token, language string) error
}

// Store is the session view the lifecycle needs.
type Store interface {
	Get() session.State
	Set(session.Patch) error
}

// Created describes a newly created project.
type Created struct {
	ProjectID          string
	AuthToken          string
	RequiredSlideCount int
}

// Lifecycle owns project-level operations.
type Lifecycle struct {
	svc       Service
	store     Store
	order     slides.Order
	logger    *zap.Logger
	pageCount func([]byte) (int, error)
}

// Option customizes a Lifecycle.
type Option func(*Lifecycle)

// WithLogger records lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(lc *Lifecycle) {
		if l != nil {
			lc.logger = l
		}
	}
}

// WithOrder replaces the deck layout used as the fallback slide count.
func WithOrder(order slides.Order) Option {
	return func(lc *Lifecycle) {
		lc.order = order
	}
}

// WithPageCounter replaces PDF verification.
func WithPageCounter(fn func([]byte) (int, error)) Option {
	return func(lc *Lifecycle) {
		if fn != nil {
			lc.pageCount = fn
		}
	}
}

// New builds a lifecycle bound to svc and store.
func New(svc Service, store Store, opts ...Option) *Lifecycle {
	lc := &Lifecycle{
		svc:       svc,
		store:     store,
		order:     slides.Default,
		logger:    zap.NewNop(),
		pageCount: pdfPageCount,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(lc)
		}
	}
	return lc
}

func pdfPageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), nil)
}

// Create registers name with the service and makes it the active project.
func (lc *Lifecycle) Create(ctx context.Context, name string) (Created, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Created{}, failure.New(failure.KindCreation, ErrEmptyName)
	}
	remote, err := lc.svc.CreateProject(ctx, name)
	if err != nil {
		lc.logger.Warn("project creation failed", zap.String("project", name), zap.Error(err))
		return Created{}, failure.New(failure.KindCreation, err)
	}
	count := remote.SlideCount()
	if count == 0 {
		count = len(lc.order.Required)
	}
	created := Created{ProjectID: name, AuthToken: remote.Token, RequiredSlideCount: count}
	if err := lc.store.Set(session.Patch{
		ProjectID:          session.Ptr(created.ProjectID),
		AuthToken:          session.Ptr(created.AuthToken),
		RequiredSlideCount: session.Ptr(created.RequiredSlideCount),
		Phase:              session.Ptr(workflow.PhaseUploading),
		GenerationComplete: session.Ptr(false),
	}); err != nil {
		lc.logger.Warn("session update failed", zap.Error(err))
	}
	lc.logger.Info("project created", zap.String("project", name), zap.Int("required_slides", count))
	return created, nil
}

// Upload reads paths and submits them as project documents. Failures leave
// the session untouched so the user may retry.
func (lc *Lifecycle) Upload(ctx context.Context, paths []string) (deckapi.UploadResult, error) {
	token := lc.store.Get().AuthToken
	if strings.TrimSpace(token) == "" {
		return deckapi.UploadResult{}, failure.New(failure.KindMissingCredential, failure.ErrMissingCredential)
	}
	docs := make([]deckapi.Document, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return deckapi.UploadResult{}, failure.New(failure.KindUpload, fmt.Errorf("read %s: %w", path, err))
		}
		docs = append(docs, deckapi.Document{Name: filepath.Base(path), Content: data})
	}
	if len(docs) == 0 {
		return deckapi.UploadResult{}, failure.New(failure.KindUpload, ErrNoDocuments)
	}
	res, err := lc.svc.UploadDocuments(ctx, token, docs)
	if err != nil {
		lc.logger.Warn("upload failed", zap.Int("documents", len(docs)), zap.Error(err))
		return deckapi.UploadResult{}, failure.New(failure.KindUpload, err)
	}
	lc.logger.Info("documents uploaded", zap.Int("documents", len(docs)), zap.String("status", res.Status))
	return res, nil
}

// Delete removes the project on the service and clears it locally. On
// failure the project remains active.
func (lc *Lifecycle) Delete(ctx context.Context, projectID, token string) error {
	if strings.TrimSpace(token) == "" {
		return failure.New(failure.KindDeletion, failure.ErrMissingCredential)
	}
	if err := lc.svc.DeleteProject(ctx, token, projectID); err != nil {
		lc.logger.Warn("project deletion failed", zap.String("project", projectID), zap.Error(err))
		return failure.New(failure.KindDeletion, err)
	}
	if err := lc.store.Set(session.Patch{
		AuthToken:          session.Ptr(""),
		ProjectID:          session.Ptr(""),
		RequiredSlideCount: session.Ptr(0),
		Phase:              session.Ptr(workflow.PhaseUploading),
		GenerationComplete: session.Ptr(false),
	}); err != nil {
		lc.logger.Warn("session update failed", zap.Error(err))
	}
	lc.logger.Info("project deleted", zap.String("project", projectID))
	return nil
}

// EnterSelection moves to slide selection when a project has slides. It
// reports false and returns to uploading otherwise.
func (lc *Lifecycle) EnterSelection() (bool, error) {
	if lc.store.Get().RequiredSlideCount > 0 {
		return true, lc.store.Set(session.Patch{Phase: session.Ptr(workflow.PhaseSelecting)})
	}
	lc.logger.Info("selection refused without a project")
	return false, lc.store.Set(session.Patch{Phase: session.Ptr(workflow.PhaseUploading)})
}

// SetLanguage switches the display language and tells the service when a
// project is active. A remote failure keeps the local switch.
func (lc *Lifecycle) SetLanguage(ctx context.Context, lang i18n.Language) error {
	if !lang.Valid() {
		return failure.New(failure.KindLanguage, fmt.Errorf("unsupported language %q", lang))
	}
	if err := lc.store.Set(session.Patch{Language: session.Ptr(lang)}); err != nil {
		lc.logger.Warn("session update failed", zap.Error(err))
	}
	token := lc.store.Get().AuthToken
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := lc.svc.SetLanguage(ctx, token, string(lang)); err != nil {
		lc.logger.Warn("language sync failed", zap.String("language", string(lang)), zap.Error(err))
		return failure.New(failure.KindLanguage, err)
	}
	return nil
}

// Export downloads the rendered deck, verifies it and writes it to path.
func (lc *Lifecycle) Export(ctx context.Context, result *deck.Result, path string) (string, error) {
	if result.Len() == 0 {
		return "", failure.New(failure.KindExport, ErrNothingToExport)
	}
	token := lc.store.Get().AuthToken
	if strings.TrimSpace(token) == "" {
		return "", failure.New(failure.KindExport, failure.ErrMissingCredential)
	}
	data, err := lc.svc.DownloadPDF(ctx, token)
	if err != nil {
		lc.logger.Warn("pdf download failed", zap.Error(err))
		return "", failure.New(failure.KindExport, err)
	}
	pages, err := lc.pageCount(data)
	if err != nil || pages <= 0 {
		lc.logger.Warn("pdf verification failed", zap.Int("bytes", len(data)), zap.Error(err))
		return "", failure.New(failure.KindExport, ErrInvalidPDF)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", failure.New(failure.KindExport, err)
	}
	if err := writeAtomic(abs, data); err != nil {
		return "", failure.New(failure.KindExport, err)
	}
	if err := lc.store.Set(session.Patch{Phase: session.Ptr(workflow.PhaseExported)}); err != nil {
		lc.logger.Warn("session update failed", zap.Error(err))
	}
	lc.logger.Info("deck exported", zap.String("path", abs), zap.Int("pages", pages))
	return abs, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.pdf")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace export: %w", err)
	}
	return nil
}
