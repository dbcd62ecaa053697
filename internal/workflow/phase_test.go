package workflow

import "testing"

func TestParsePhaseRoundTrip(t *testing.T) {
	for _, phase := range Phases() {
		got, ok := ParsePhase(phase.String())
		if !ok || got != phase {
			t.Fatalf("ParsePhase(%q) = (%v, %v), want (%v, true)", phase.String(), got, ok, phase)
		}
	}
}

func TestParsePhaseRejectsUnknown(t *testing.T) {
	got, ok := ParsePhase("content-generating")
	if ok {
		t.Fatalf("expected unknown phase to be rejected")
	}
	if got != PhaseUploading {
		t.Fatalf("unknown phase should default to uploading, got %v", got)
	}
}

func TestNextStopsAtExported(t *testing.T) {
	if PhaseUploading.Next() != PhaseSelecting {
		t.Fatalf("uploading should advance to selecting")
	}
	if PhaseExported.Next() != PhaseExported {
		t.Fatalf("exported is terminal")
	}
}

func TestPosition(t *testing.T) {
	pos, total := PhasePreviewing.Position()
	if pos != 3 || total != 5 {
		t.Fatalf("Position() = (%d, %d), want (3, 5)", pos, total)
	}
	if PhasePreviewing.LabelKey() != "phase.previewing" {
		t.Fatalf("unexpected label key %s", PhasePreviewing.LabelKey())
	}
}
