package slides

import (
	"reflect"
	"testing"

	"github.com/kingrea/deckhand/internal/i18n"
)

func TestSequenceStartsWithRequiredKeys(t *testing.T) {
	selections := [][]string{
		nil,
		{"demo"},
		{"use_of_funds", "team"},
		{"financials", "team", "traction", "revenue"},
	}
	required := Default.RequiredKeys()
	for _, selected := range selections {
		for _, policy := range []OrderPolicy{OrderSelection, OrderCanonical} {
			seq := Default.Sequence(selected, policy)
			if len(seq) != len(required)+len(selected) {
				t.Fatalf("Sequence(%v) length = %d, want %d", selected, len(seq), len(required)+len(selected))
			}
			if !reflect.DeepEqual(seq[:len(required)], required) {
				t.Fatalf("Sequence(%v, %s) prefix = %v, want %v", selected, policy, seq[:len(required)], required)
			}
		}
	}
}

func TestSequenceKeepsSelectionOrder(t *testing.T) {
	seq := Default.Sequence([]string{"use_of_funds", "team"}, OrderSelection)
	tail := seq[len(Default.Required):]
	if !reflect.DeepEqual(tail, []string{"use_of_funds", "team"}) {
		t.Fatalf("selection order tail = %v", tail)
	}
}

func TestSequenceCanonicalOrder(t *testing.T) {
	seq := Default.Sequence([]string{"use_of_funds", "team"}, OrderCanonical)
	tail := seq[len(Default.Required):]
	if !reflect.DeepEqual(tail, []string{"team", "use_of_funds"}) {
		t.Fatalf("canonical order tail = %v", tail)
	}
}

func TestSequenceDropsUnknownRequiredAndDuplicateKeys(t *testing.T) {
	seq := Default.Sequence([]string{"demo", "ask", "bogus", "demo"}, OrderSelection)
	tail := seq[len(Default.Required):]
	if !reflect.DeepEqual(tail, []string{"demo"}) {
		t.Fatalf("tail = %v, want [demo]", tail)
	}
}

func TestParseOrderPolicy(t *testing.T) {
	if p, err := ParseOrderPolicy(""); err != nil || p != OrderSelection {
		t.Fatalf("empty policy = (%s, %v), want selection", p, err)
	}
	if p, err := ParseOrderPolicy("Canonical"); err != nil || p != OrderCanonical {
		t.Fatalf("Canonical = (%s, %v)", p, err)
	}
	if _, err := ParseOrderPolicy("random"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestSelectionToggleKeepsPickOrder(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("traction")
	sel.Toggle("team")
	sel.Toggle("demo")
	if selected := sel.Toggle("team"); selected {
		t.Fatalf("second toggle should deselect")
	}
	if !reflect.DeepEqual(sel.Keys(), []string{"traction", "demo"}) {
		t.Fatalf("Keys = %v", sel.Keys())
	}
}

func TestSlideTitleIsLocalized(t *testing.T) {
	s := Slide{Key: "market"}
	if s.Title(i18n.English) != "Market Opportunity" || s.Title(i18n.Norwegian) != "Markedmuligheter" {
		t.Fatalf("unexpected titles %q / %q", s.Title(i18n.English), s.Title(i18n.Norwegian))
	}
}
