// Package slides holds the static deck layout: which sections are always
// generated and which ones the user may add.
package slides

import (
	"fmt"
	"strings"

	"github.com/kingrea/deckhand/internal/i18n"
)

// Slide is one deck section identified by a stable key.
type Slide struct {
	Key string
}

// Title returns the localized display title.
func (s Slide) Title(lang i18n.Language) string {
	return i18n.Resolve(lang, "slide."+s.Key)
}

// OrderPolicy decides how selected optional slides are sequenced.
type OrderPolicy string

const (
	// OrderSelection keeps the order in which the user picked slides.
	OrderSelection OrderPolicy = "selection"
	// OrderCanonical reorders picks to follow the Optional list.
	OrderCanonical OrderPolicy = "canonical"
)

// ParseOrderPolicy validates a configured policy name.
func ParseOrderPolicy(value string) (OrderPolicy, error) {
	switch OrderPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", OrderSelection:
		return OrderSelection, nil
	case OrderCanonical:
		return OrderCanonical, nil
	default:
		return "", fmt.Errorf("slides: order must be %q or %q", OrderSelection, OrderCanonical)
	}
}

// Order partitions the deck into required and optional sections. Required
// slides always precede optional ones in generation order.
type Order struct {
	Required []Slide
	Optional []Slide
}

// Default is the pitch deck layout.
var Default = Order{
	Required: keys("title", "introduction", "problem", "solution", "market", "ask"),
	Optional: keys(
		"team", "experience", "revenue", "go_to_market", "demo", "technology", "pipeline",
		"expansion", "uniqueness", "competition", "traction", "financials", "use_of_funds",
	),
}

func keys(values ...string) []Slide {
	out := make([]Slide, len(values))
	for i, v := range values {
		out[i] = Slide{Key: v}
	}
	return out
}

// RequiredKeys returns the required slide keys in order.
func (o Order) RequiredKeys() []string {
	return slideKeys(o.Required)
}

// OptionalKeys returns the optional slide keys in order.
func (o Order) OptionalKeys() []string {
	return slideKeys(o.Optional)
}

// IsOptional reports whether key names an optional slide.
func (o Order) IsOptional(key string) bool {
	return indexOf(o.Optional, key) >= 0
}

// IsRequired reports whether key names a required slide.
func (o Order) IsRequired(key string) bool {
	return indexOf(o.Required, key) >= 0
}

// Sequence returns the generation order for a selection: every required
// key, then the selected optional keys. Unknown keys, required keys and
// duplicates are dropped from the selection.
func (o Order) Sequence(selected []string, policy OrderPolicy) []string {
	picked := make([]string, 0, len(selected))
	seen := make(map[string]struct{}, len(selected))
	for _, key := range selected {
		key = strings.TrimSpace(key)
		if !o.IsOptional(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		picked = append(picked, key)
	}
	if policy == OrderCanonical {
		canonical := picked[:0:0]
		for _, slide := range o.Optional {
			if _, ok := seen[slide.Key]; ok {
				canonical = append(canonical, slide.Key)
			}
		}
		picked = canonical
	}
	return append(o.RequiredKeys(), picked...)
}

func slideKeys(list []Slide) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Key
	}
	return out
}

func indexOf(list []Slide, key string) int {
	for i, s := range list {
		if s.Key == key {
			return i
		}
	}
	return -1
}
