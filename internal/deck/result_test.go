package deck

import (
	"errors"
	"testing"
)

func TestSetEditedShadowsContent(t *testing.T) {
	r := NewResult()
	r.Append("title", "Acme")
	r.Append("ask", "We need 2M")

	if err := r.SetEdited("ask", "We need 3M"); err != nil {
		t.Fatalf("SetEdited: %v", err)
	}
	entry, ok := r.Entry("ask")
	if !ok {
		t.Fatalf("entry ask missing")
	}
	if entry.Content != "We need 2M" {
		t.Fatalf("Content = %q, must stay untouched", entry.Content)
	}
	if entry.Display() != "We need 3M" || !entry.Edited() {
		t.Fatalf("Display = %q, want edited text", entry.Display())
	}
}

func TestRevertRestoresOriginalDisplay(t *testing.T) {
	r := NewResult(Entry{SlideKey: "problem", Content: "original"})
	if err := r.SetEdited("problem", "changed"); err != nil {
		t.Fatalf("SetEdited: %v", err)
	}
	if err := r.Revert("problem"); err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if got, _ := r.Display("problem"); got != "original" {
		t.Fatalf("Display after revert = %q, want original", got)
	}
}

func TestUnknownSlide(t *testing.T) {
	r := NewResult()
	if err := r.SetEdited("demo", "x"); !errors.Is(err, ErrUnknownSlide) {
		t.Fatalf("SetEdited err = %v, want ErrUnknownSlide", err)
	}
	if err := r.Revert("demo"); !errors.Is(err, ErrUnknownSlide) {
		t.Fatalf("Revert err = %v, want ErrUnknownSlide", err)
	}
}

func TestEntriesAreCopies(t *testing.T) {
	r := NewResult(Entry{SlideKey: "team", Content: "a"})
	_ = r.SetEdited("team", "b")
	entries := r.Entries()
	*entries[0].EditedContent = "mutated"
	if got, _ := r.Display("team"); got != "b" {
		t.Fatalf("result mutated through copy: %q", got)
	}
	if keys := r.Keys(); len(keys) != 1 || keys[0] != "team" {
		t.Fatalf("Keys = %v", keys)
	}
}
