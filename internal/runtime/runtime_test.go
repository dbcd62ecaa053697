package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/deckhand/internal/logging"
	"github.com/kingrea/deckhand/internal/session"
	"github.com/kingrea/deckhand/internal/workflow"
)

func TestOpenWiresComponents(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(dir, WithLogger(logging.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	assert.NotNil(t, rt.Session)
	assert.NotNil(t, rt.Pipeline)
	assert.NotNil(t, rt.Editor)
	assert.NotNil(t, rt.Projects)
	assert.NotNil(t, rt.Preview)
	assert.Equal(t, "http://127.0.0.1:5000", rt.API.BaseURL())
	assert.Equal(t, workflow.PhaseUploading, rt.Session.Get().Phase)
}

func TestSessionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(dir, WithLogger(logging.Nop()))
	require.NoError(t, err)
	require.NoError(t, rt.Session.Set(session.Patch{
		ProjectID:          session.Ptr("acme"),
		AuthToken:          session.Ptr("tok"),
		RequiredSlideCount: session.Ptr(6),
		Phase:              session.Ptr(workflow.PhaseSelecting),
	}))
	require.NoError(t, rt.Close())

	reopened, err := Open(dir, WithLogger(logging.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	got := reopened.Session.Get()
	assert.Equal(t, "acme", got.ProjectID)
	assert.Equal(t, workflow.PhaseSelecting, got.Phase)
	assert.Equal(t, 6, got.RequiredSlideCount)

	lines, _ := reopened.Logbook.Tail(10)
	assert.NotEmpty(t, lines)
}

func TestMemoryBackendStartsFresh(t *testing.T) {
	t.Setenv("DECKHAND_SESSION_BACKEND", "memory")
	dir := t.TempDir()
	rt, err := Open(dir, WithLogger(logging.Nop()))
	require.NoError(t, err)
	require.NoError(t, rt.Session.Set(session.Patch{ProjectID: session.Ptr("acme")}))
	require.NoError(t, rt.Close())

	again, err := Open(dir, WithLogger(logging.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = again.Close() })
	assert.Empty(t, again.Session.Get().ProjectID)
}

func TestCloseStopsPreview(t *testing.T) {
	t.Setenv("DECKHAND_PREVIEW_PORT", "0")
	rt, err := Open(t.TempDir(), WithLogger(logging.Nop()))
	require.NoError(t, err)

	require.NoError(t, rt.Preview.Start(context.Background()))
	require.True(t, rt.Preview.Running())

	require.NoError(t, rt.Close())
	assert.False(t, rt.Preview.Running())
}
