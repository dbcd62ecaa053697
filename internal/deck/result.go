// Package deck holds the output of one generation run and the edits applied
// to it afterwards.
package deck

import (
	"sync"

	"github.com/kingrea/deckhand/internal/failure"
)

// ErrUnknownSlide is returned when an operation names a slide that is not
// part of the result.
var ErrUnknownSlide = failure.NewLocal("error.slide.unknown", "deck: slide not in result")

// Entry is one generated slide. EditedContent shadows Content for display
// when set; Content is never overwritten.
type Entry struct {
	SlideKey      string  `json:"slide"`
	Content       string  `json:"content"`
	EditedContent *string `json:"edited_content,omitempty"`
}

// Display returns the text shown to the user.
func (e Entry) Display() string {
	if e.EditedContent != nil {
		return *e.EditedContent
	}
	return e.Content
}

// Edited reports whether the entry carries an edit.
func (e Entry) Edited() bool {
	return e.EditedContent != nil
}

// Result is the ordered collection of successfully generated slides.
type Result struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewResult builds a result from entries in order.
func NewResult(entries ...Entry) *Result {
	r := &Result{}
	for _, e := range entries {
		r.entries = append(r.entries, cloneEntry(e))
	}
	return r
}

// Append adds a generated slide at the end.
func (r *Result) Append(slideKey, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{SlideKey: slideKey, Content: content})
}

// Len returns the number of entries.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns a copy of the entries in order.
func (r *Result) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// Keys returns the slide keys in order.
func (r *Result) Keys() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.SlideKey
	}
	return out
}

// Entry looks up a slide by key.
func (r *Result) Entry(slideKey string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexLocked(slideKey)
	if idx < 0 {
		return Entry{}, false
	}
	return cloneEntry(r.entries[idx]), true
}

// Display returns the text shown for slideKey.
func (r *Result) Display(slideKey string) (string, bool) {
	entry, ok := r.Entry(slideKey)
	if !ok {
		return "", false
	}
	return entry.Display(), true
}

// SetEdited records an edit for slideKey. Content is left untouched.
func (r *Result) SetEdited(slideKey, content string) error {
	if r == nil {
		return ErrUnknownSlide
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(slideKey)
	if idx < 0 {
		return ErrUnknownSlide
	}
	edited := content
	r.entries[idx].EditedContent = &edited
	return nil
}

// Revert drops the edit for slideKey so the generated text shows again.
func (r *Result) Revert(slideKey string) error {
	if r == nil {
		return ErrUnknownSlide
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(slideKey)
	if idx < 0 {
		return ErrUnknownSlide
	}
	r.entries[idx].EditedContent = nil
	return nil
}

func (r *Result) indexLocked(slideKey string) int {
	for i, e := range r.entries {
		if e.SlideKey == slideKey {
			return i
		}
	}
	return -1
}

func cloneEntry(e Entry) Entry {
	if e.EditedContent != nil {
		edited := *e.EditedContent
		e.EditedContent = &edited
	}
	return e
}
