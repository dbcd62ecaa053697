package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/deckhand/internal/i18n"
	"github.com/kingrea/deckhand/internal/workflow"
)

// Flat keys used by KVPersistence.
const (
	KeyAuthToken          = "authToken"
	KeyPhase              = "phase"
	KeyEditMode           = "editMode"
	KeyLanguage           = "language"
	KeyRequiredSlideCount = "slides"
	KeyProjectID          = "project_id"
)

// ErrInvalidSnapshot marks persisted values that cannot be decoded.
var ErrInvalidSnapshot = errors.New("session: invalid persisted value")

// Snapshot is the durable subset of State.
type Snapshot struct {
	Phase              workflow.Phase
	EditMode           EditMode
	Language           i18n.Language
	RequiredSlideCount int
	ProjectID          string
	AuthToken          string
}

// SnapshotOf extracts the durable fields of state.
func SnapshotOf(state State) Snapshot {
	return Snapshot{
		Phase:              state.Phase,
		EditMode:           state.EditMode,
		Language:           state.Language,
		RequiredSlideCount: state.RequiredSlideCount,
		ProjectID:          state.ProjectID,
		AuthToken:          state.AuthToken,
	}
}

// State rebuilds a session state from the snapshot. GenerationComplete is
// always false.
func (s Snapshot) State() State {
	return State{
		Phase:              s.Phase,
		Language:           s.Language,
		EditMode:           s.EditMode,
		ProjectID:          s.ProjectID,
		RequiredSlideCount: s.RequiredSlideCount,
		AuthToken:          s.AuthToken,
	}
}

// Persistence stores and restores snapshots.
type Persistence interface {
	Save(Snapshot) error
	Load() (Snapshot, error)
}

// KV is a flat string key-value backend.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// KVPersistence stores each snapshot field under its own key.
type KVPersistence struct {
	kv      KV
	timeout time.Duration
}

// NewKVPersistence wraps kv. Each Save or Load is bounded by timeout when it
// is positive.
func NewKVPersistence(kv KV, timeout time.Duration) *KVPersistence {
	return &KVPersistence{kv: kv, timeout: timeout}
}

func (p *KVPersistence) context() (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(context.Background(), p.timeout)
	}
	return context.WithCancel(context.Background())
}

// Save writes every field as a plain string. Empty identifiers are removed.
func (p *KVPersistence) Save(snapshot Snapshot) error {
	ctx, cancel := p.context()
	defer cancel()

	values := []struct {
		key, value string
	}{
		{KeyPhase, snapshot.Phase.String()},
		{KeyEditMode, string(snapshot.EditMode)},
		{KeyLanguage, string(snapshot.Language)},
		{KeyRequiredSlideCount, strconv.Itoa(snapshot.RequiredSlideCount)},
		{KeyProjectID, snapshot.ProjectID},
		{KeyAuthToken, snapshot.AuthToken},
	}
	for _, v := range values {
		if v.value == "" && (v.key == KeyProjectID || v.key == KeyAuthToken) {
			if err := p.kv.Delete(ctx, v.key); err != nil {
				return fmt.Errorf("session: delete %s: %w", v.key, err)
			}
			continue
		}
		if err := p.kv.Set(ctx, v.key, v.value); err != nil {
			return fmt.Errorf("session: write %s: %w", v.key, err)
		}
	}
	return nil
}

// Load reads a snapshot. Missing keys and unrecognized enum values fall back
// to Defaults; a non-numeric slide count is an error.
func (p *KVPersistence) Load() (Snapshot, error) {
	ctx, cancel := p.context()
	defer cancel()

	snapshot := SnapshotOf(Defaults())
	read := func(key string) (string, bool, error) {
		value, ok, err := p.kv.Get(ctx, key)
		if err != nil {
			return "", false, fmt.Errorf("session: read %s: %w", key, err)
		}
		value = strings.TrimSpace(value)
		return value, ok && value != "", nil
	}

	if raw, ok, err := read(KeyPhase); err != nil {
		return Snapshot{}, err
	} else if ok {
		snapshot.Phase, _ = workflow.ParsePhase(raw)
	}
	if raw, ok, err := read(KeyEditMode); err != nil {
		return Snapshot{}, err
	} else if ok {
		snapshot.EditMode, _ = ParseEditMode(raw)
	}
	if raw, ok, err := read(KeyLanguage); err != nil {
		return Snapshot{}, err
	} else if ok {
		if lang := i18n.Language(strings.ToLower(raw)); lang.Valid() {
			snapshot.Language = lang
		}
	}
	if raw, ok, err := read(KeyRequiredSlideCount); err != nil {
		return Snapshot{}, err
	} else if ok {
		count, convErr := strconv.Atoi(raw)
		if convErr != nil || count < 0 {
			return Snapshot{}, fmt.Errorf("%w: %s=%q", ErrInvalidSnapshot, KeyRequiredSlideCount, raw)
		}
		snapshot.RequiredSlideCount = count
	}
	if raw, ok, err := read(KeyProjectID); err != nil {
		return Snapshot{}, err
	} else if ok {
		snapshot.ProjectID = raw
	}
	if raw, ok, err := read(KeyAuthToken); err != nil {
		return Snapshot{}, err
	} else if ok {
		snapshot.AuthToken = raw
	}
	return snapshot, nil
}

// Clear removes every persisted key.
func (p *KVPersistence) Clear() error {
	ctx, cancel := p.context()
	defer cancel()
	for _, key := range []string{KeyAuthToken, KeyPhase, KeyEditMode, KeyLanguage, KeyRequiredSlideCount, KeyProjectID} {
		if err := p.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("session: delete %s: %w", key, err)
		}
	}
	return nil
}
