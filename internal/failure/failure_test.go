package failure

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kingrea/deckhand/internal/i18n"
)

func TestMissingCredentialSurvivesWrapping(t *testing.T) {
	err := ForSlide(KindGenerationItem, "ask", fmt.Errorf("deckapi: generate: %w", ErrMissingCredential))
	if !IsMissingCredential(err) {
		t.Fatalf("expected wrapped error to report missing credential")
	}
	if !err.Fatal() {
		t.Fatalf("missing credential must be fatal")
	}
	if got := Message(i18n.English, err); got != "Authorization token is missing." {
		t.Fatalf("Message = %q", got)
	}
	if got := Message(i18n.Norwegian, err); got != "Ingen autentiseringstoken funnet." {
		t.Fatalf("Message(no) = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(KindDeletion, errors.New("boom")))
	kind, ok := KindOf(wrapped)
	if !ok || kind != KindDeletion {
		t.Fatalf("KindOf = (%s, %v), want deletion", kind, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no kind")
	}
}

func TestMessageLocalizesSlideTitles(t *testing.T) {
	err := ForSlide(KindGenerationItem, "problem", errors.New("timeout"))
	got := Message(i18n.Norwegian, err)
	if !strings.Contains(got, "Problemstilling") || !strings.Contains(got, "timeout") {
		t.Fatalf("Message(no) = %q", got)
	}
	if err.Fatal() {
		t.Fatalf("generation item failures are not fatal")
	}
}

func TestMessageForUntypedError(t *testing.T) {
	if got := Message(i18n.English, errors.New("disk full")); got != "Error: disk full" {
		t.Fatalf("Message = %q", got)
	}
	if Message(i18n.English, nil) != "" {
		t.Fatalf("nil error renders empty")
	}
}

func TestMessageKey(t *testing.T) {
	cases := map[*Error]string{
		New(KindUpload, errors.New("x")):                         "error.upload",
		New(KindEdit, ErrMissingCredential):                      "error.missing",
		ForSlide(KindGenerationItem, "demo", errors.New("boom")): "error.generation_item",
		New(Kind("other"), errors.New("x")):                      "error.generic",
	}
	for err, want := range cases {
		if got := err.MessageKey(); got != want {
			t.Fatalf("MessageKey(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestMessageLocalizesLocalSentinels(t *testing.T) {
	busy := NewLocal("error.edit.busy", "editor: an edit is already in progress")
	err := ForSlide(KindEdit, "ask", busy)

	if got := Message(i18n.Norwegian, err); got != "Kunne ikke redigere lysbildet: En annen redigering pågår fortsatt." {
		t.Fatalf("Message(no) = %q", got)
	}
	if got := Message(i18n.English, err); got != "Failed to edit slide: Another edit is still in progress." {
		t.Fatalf("Message(en) = %q", got)
	}
	if !errors.Is(err, busy) {
		t.Fatalf("sentinel must survive wrapping")
	}
	if err.Error() != "edit failure (ask): editor: an edit is already in progress" {
		t.Fatalf("log text = %q", err.Error())
	}

	name := NewLocal("error.creation.name", "project: name is empty")
	got := Message(i18n.Norwegian, New(KindCreation, fmt.Errorf("create: %w", name)))
	if got != "Kunne ikke opprette prosjektet: Prosjekt-ID er påkrevd" {
		t.Fatalf("Message(no) = %q", got)
	}
	if strings.Contains(got, "name is empty") {
		t.Fatalf("raw error text leaked into %q", got)
	}
}
