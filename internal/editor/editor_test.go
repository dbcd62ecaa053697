package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/deckhand/internal/deck"
	"github.com/kingrea/deckhand/internal/failure"
	"github.com/kingrea/deckhand/internal/i18n"
	"github.com/kingrea/deckhand/internal/session"
)

type stubService struct {
	calls   int
	content string
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (s *stubService) EditSlide(ctx context.Context, token, slide, instruction string) (string, error) {
	s.calls++
	if s.entered != nil {
		close(s.entered)
	}
	if s.block != nil {
		<-s.block
	}
	return s.content, s.err
}

func storeWithToken(token string) *session.Store {
	return session.NewStore(session.WithState(session.State{AuthToken: token}))
}

func TestEditOnlyTouchesEditedContent(t *testing.T) {
	svc := &stubService{content: "We need 3M"}
	ed := New(svc, storeWithToken("tok"))
	result := deck.NewResult(deck.Entry{SlideKey: "ask", Content: "We need 2M"})

	got, err := ed.RequestEdit(context.Background(), result, Request{Slide: "ask", Current: "We need 2M", Instruction: "raise it"})
	require.NoError(t, err)
	assert.Equal(t, "We need 3M", got)

	entry, _ := result.Entry("ask")
	assert.Equal(t, "We need 2M", entry.Content)
	assert.Equal(t, "We need 3M", entry.Display())

	require.NoError(t, ed.Revert(result, "ask"))
	display, _ := result.Display("ask")
	assert.Equal(t, "We need 2M", display)
}

func TestEditFailureKeepsPriorEdit(t *testing.T) {
	svc := &stubService{err: errors.New("service down")}
	ed := New(svc, storeWithToken("tok"))
	result := deck.NewResult(deck.Entry{SlideKey: "ask", Content: "orig"})
	require.NoError(t, result.SetEdited("ask", "first edit"))

	_, err := ed.RequestEdit(context.Background(), result, Request{Slide: "ask", Current: "first edit", Instruction: "again"})
	kind, ok := failure.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, failure.KindEdit, kind)
	display, _ := result.Display("ask")
	assert.Equal(t, "first edit", display)
}

func TestRejectedBeforeNetwork(t *testing.T) {
	result := deck.NewResult(deck.Entry{SlideKey: "ask", Content: "orig"})
	cases := []struct {
		name  string
		token string
		req   Request
		want  error
	}{
		{"empty instruction", "tok", Request{Slide: "ask", Current: "orig", Instruction: "  "}, ErrEmptyInstruction},
		{"unknown slide", "tok", Request{Slide: "demo", Current: "", Instruction: "x"}, deck.ErrUnknownSlide},
		{"stale content", "tok", Request{Slide: "ask", Current: "older", Instruction: "x"}, ErrStaleContent},
		{"missing token", "", Request{Slide: "ask", Current: "orig", Instruction: "x"}, failure.ErrMissingCredential},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{content: "new"}
			ed := New(svc, storeWithToken(tc.token))
			_, err := ed.RequestEdit(context.Background(), result, tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, svc.calls)
		})
	}
}

func TestRejectionsRenderInActiveLanguage(t *testing.T) {
	result := deck.NewResult(deck.Entry{SlideKey: "ask", Content: "orig"})
	ed := New(&stubService{content: "new"}, storeWithToken("tok"))

	_, err := ed.RequestEdit(context.Background(), result, Request{Slide: "ask", Current: "older", Instruction: "x"})
	require.Error(t, err)
	assert.Equal(t, "Kunne ikke redigere lysbildet: Lysbildet ble endret mens redigeringen pågikk.", failure.Message(i18n.Norwegian, err))

	_, err = ed.RequestEdit(context.Background(), result, Request{Slide: "demo", Instruction: "x"})
	require.Error(t, err)
	assert.Equal(t, "Kunne ikke redigere lysbildet: Lysbildet er ikke en del av den genererte presentasjonen.", failure.Message(i18n.Norwegian, err))
}

func TestSecondEditRejectedWhileFirstPending(t *testing.T) {
	svc := &stubService{content: "new", block: make(chan struct{}), entered: make(chan struct{})}
	ed := New(svc, storeWithToken("tok"))
	result := deck.NewResult(deck.Entry{SlideKey: "ask", Content: "orig"}, deck.Entry{SlideKey: "team", Content: "us"})

	done := make(chan error, 1)
	go func() {
		_, err := ed.RequestEdit(context.Background(), result, Request{Slide: "ask", Current: "orig", Instruction: "x"})
		done <- err
	}()
	<-svc.entered
	assert.True(t, ed.Busy())

	_, err := ed.RequestEdit(context.Background(), result, Request{Slide: "team", Current: "us", Instruction: "y"})
	assert.ErrorIs(t, err, ErrEditInFlight)

	close(svc.block)
	require.NoError(t, <-done)
	assert.False(t, ed.Busy())
	assert.Equal(t, 1, svc.calls)
}
