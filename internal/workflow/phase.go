// internal/workflow/phase.go
//
// Phases of the deck workflow. The session store persists the phase by name
// so a restarted client resumes on the same screen.

package workflow

import "strings"

// Phase represents a stage in the deck workflow
type Phase int

const (
	PhaseUploading Phase = iota
	PhaseSelecting
	PhaseGenerating
	PhasePreviewing
	PhaseExported
)

var phaseOrder = []Phase{
	PhaseUploading,
	PhaseSelecting,
	PhaseGenerating,
	PhasePreviewing,
	PhaseExported,
}

// String returns the persisted name of the phase
func (p Phase) String() string {
	switch p {
	case PhaseUploading:
		return "uploading"
	case PhaseSelecting:
		return "selecting"
	case PhaseGenerating:
		return "generating"
	case PhasePreviewing:
		return "previewing"
	case PhaseExported:
		return "exported"
	default:
		return "unknown"
	}
}

// LabelKey returns the i18n key for the phase's display name.
func (p Phase) LabelKey() string {
	return "phase." + p.String()
}

// Next returns the next phase in the workflow
func (p Phase) Next() Phase {
	if p >= PhaseExported {
		return PhaseExported
	}
	return p + 1
}

// Valid reports whether p is one of the declared phases.
func (p Phase) Valid() bool {
	return p >= PhaseUploading && p <= PhaseExported
}

// Position returns the zero-based index of p and the number of phases.
func (p Phase) Position() (int, int) {
	for i, phase := range phaseOrder {
		if p == phase {
			return i, len(phaseOrder)
		}
	}
	return 0, len(phaseOrder)
}

// Phases returns the phases in workflow order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// ParsePhase maps a persisted name back onto a Phase.
func ParsePhase(value string) (Phase, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, phase := range phaseOrder {
		if phase.String() == value {
			return phase, true
		}
	}
	return PhaseUploading, false
}
