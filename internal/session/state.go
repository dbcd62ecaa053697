// Package session keeps the user's workflow state in memory and mirrors the
// durable part of it into a key-value backend.
package session

import (
	"strings"

	"github.com/kingrea/deckhand/internal/i18n"
	"github.com/kingrea/deckhand/internal/workflow"
)

// EditMode selects how slide edits are presented to the user.
type EditMode string

const (
	EditStructured EditMode = "structured"
	EditGuided     EditMode = "guided"
)

// ParseEditMode converts a persisted value. Unknown values yield structured.
func ParseEditMode(value string) (EditMode, bool) {
	switch EditMode(strings.ToLower(strings.TrimSpace(value))) {
	case EditStructured:
		return EditStructured, true
	case EditGuided:
		return EditGuided, true
	default:
		return EditStructured, false
	}
}

// Toggle flips between structured and guided.
func (m EditMode) Toggle() EditMode {
	if m == EditGuided {
		return EditStructured
	}
	return EditGuided
}

// LabelKey returns the localization key for the mode label.
func (m EditMode) LabelKey() string {
	return "editmode." + string(m)
}

// State is the single source of truth for the current workflow.
type State struct {
	Phase              workflow.Phase
	Language           i18n.Language
	EditMode           EditMode
	ProjectID          string
	RequiredSlideCount int
	AuthToken          string
	// GenerationComplete is runtime only and never persisted.
	GenerationComplete bool
}

// Defaults returns the state of a fresh session.
func Defaults() State {
	return State{
		Phase:    workflow.PhaseUploading,
		Language: i18n.English,
		EditMode: EditStructured,
	}
}

// HasProject reports whether a project is active.
func (s State) HasProject() bool {
	return strings.TrimSpace(s.ProjectID) != ""
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Phase              *workflow.Phase
	Language           *i18n.Language
	EditMode           *EditMode
	ProjectID          *string
	RequiredSlideCount *int
	AuthToken          *string
	GenerationComplete *bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Phase == nil && p.Language == nil && p.EditMode == nil && p.ProjectID == nil &&
		p.RequiredSlideCount == nil && p.AuthToken == nil && p.GenerationComplete == nil
}

func (p Patch) apply(s State) State {
	if p.Phase != nil {
		s.Phase = *p.Phase
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.EditMode != nil {
		s.EditMode = *p.EditMode
	}
	if p.ProjectID != nil {
		s.ProjectID = *p.ProjectID
	}
	if p.RequiredSlideCount != nil {
		s.RequiredSlideCount = *p.RequiredSlideCount
	}
	if p.AuthToken != nil {
		s.AuthToken = *p.AuthToken
	}
	if p.GenerationComplete != nil {
		s.GenerationComplete = *p.GenerationComplete
	}
	return s
}

// Ptr returns a pointer to v for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
