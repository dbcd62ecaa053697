// Package failure defines the typed outcomes surfaced to the user interface.
// Every component boundary wraps its errors in an *Error so the TUI can
// render a localized message without inspecting transport details.
package failure

import (
	"errors"
	"fmt"

	"github.com/kingrea/deckhand/internal/i18n"
)

// ErrMissingCredential is returned by any authenticated operation attempted
// without a token. No network call is made.
var ErrMissingCredential = errors.New("missing credential")

// Local is a failure detected before any request is made. It carries the
// localization key its message resolves to.
type Local struct {
	key  string
	text string
}

// NewLocal returns a sentinel rendered through key and reported as text in
// logs.
func NewLocal(key, text string) *Local {
	return &Local{key: key, text: text}
}

func (l *Local) Error() string { return l.text }

// Key is the localization key of the sentinel.
func (l *Local) Key() string { return l.key }

// Kind classifies a failure by the operation that produced it.
type Kind string

const (
	KindCreation          Kind = "creation"
	KindUpload            Kind = "upload"
	KindGenerationItem    Kind = "generation_item"
	KindEdit              Kind = "edit"
	KindDeletion          Kind = "deletion"
	KindMissingCredential Kind = "missing_credential"
	KindExport            Kind = "export"
	KindLanguage          Kind = "language"
)

// Error is a classified failure. Slide is set for per-slide failures.
type Error struct {
	Kind  Kind
	Slide string
	Err   error
}

// New wraps err with kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// ForSlide wraps err with kind and the slide it concerns.
func ForSlide(kind Kind, slide string, err error) *Error {
	return &Error{Kind: kind, Slide: slide, Err: err}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	detail := "unknown error"
	if e.Err != nil {
		detail = e.Err.Error()
	}
	if e.Slide != "" {
		return fmt.Sprintf("%s failure (%s): %s", e.Kind, e.Slide, detail)
	}
	return fmt.Sprintf("%s failure: %s", e.Kind, detail)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Fatal reports whether the failure blocks all downstream operations until
// the user establishes a project again.
func (e *Error) Fatal() bool {
	if e == nil {
		return false
	}
	return e.Kind == KindCreation || e.Kind == KindMissingCredential || errors.Is(e.Err, ErrMissingCredential)
}

// MessageKey returns the localization key used to render the failure.
func (e *Error) MessageKey() string {
	if e == nil {
		return "error.generic"
	}
	if e.Kind == KindMissingCredential || errors.Is(e.Err, ErrMissingCredential) {
		return "error.missing"
	}
	switch e.Kind {
	case KindCreation, KindUpload, KindGenerationItem, KindEdit, KindDeletion, KindExport, KindLanguage:
		return "error." + string(e.Kind)
	default:
		return "error.generic"
	}
}

// IsMissingCredential reports whether err stems from an absent token.
func IsMissingCredential(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// Message renders err as a human-readable message in lang. Missing
// credentials always produce the dedicated message regardless of the
// operation that hit them.
func Message(lang i18n.Language, err error) string {
	if err == nil {
		return ""
	}
	if IsMissingCredential(err) {
		return i18n.Resolve(lang, "error.missing")
	}
	var fe *Error
	if !errors.As(err, &fe) {
		return i18n.Resolvef(lang, "error.generic", detailOf(lang, err))
	}
	detail := detailOf(lang, fe.Err)
	switch fe.Kind {
	case KindGenerationItem:
		return i18n.Resolvef(lang, "error.generation_item", i18n.Resolve(lang, "slide."+fe.Slide), detail)
	case KindExport, KindLanguage:
		return i18n.Resolve(lang, "error."+string(fe.Kind))
	case KindCreation, KindUpload, KindEdit, KindDeletion:
		return i18n.Resolvef(lang, "error."+string(fe.Kind), detail)
	default:
		return i18n.Resolvef(lang, "error.generic", detail)
	}
}

// detailOf prefers the localized text of a *Local anywhere in err's chain
// over the raw error text.
func detailOf(lang i18n.Language, err error) string {
	if err == nil {
		return "unknown error"
	}
	var local *Local
	if errors.As(err, &local) {
		return i18n.Resolve(lang, local.key)
	}
	return err.Error()
}
