package entities

import "encoding/json"

// Selection is a multi-select value with an "all" sentinel: either every option
// or a non-empty set of specific options. The zero value selects all.
type Selection[T comparable] struct {
	specific bool
	items    []T
}

// All returns the "all" selection
func All[T comparable]() Selection[T] {
	return Selection[T]{}
}

// Specific returns a selection of the given items, deduplicated in first-seen order.
// An empty list collapses to All so a selection is never empty.
func Specific[T comparable](items ...T) Selection[T] {
	seen := make(map[T]bool, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return All[T]()
	}
	return Selection[T]{specific: true, items: out}
}

// IsAll reports whether every option is selected
func (s Selection[T]) IsAll() bool {
	return !s.specific
}

// Items returns the specific items, or nil for All
func (s Selection[T]) Items() []T {
	if !s.specific {
		return nil
	}
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Contains reports whether v is selected
func (s Selection[T]) Contains(v T) bool {
	if !s.specific {
		return true
	}
	for _, item := range s.items {
		if item == v {
			return true
		}
	}
	return false
}

// Expand resolves the selection against the known options, keeping the universe order
func (s Selection[T]) Expand(universe []T) []T {
	out := make([]T, 0, len(universe))
	for _, v := range universe {
		if s.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// Toggle flips one item the way a multi-select dropdown does: picking an item while
// All is active replaces the selection, and removing the last item reverts to All.
func (s Selection[T]) Toggle(v T) Selection[T] {
	if !s.specific {
		return Specific(v)
	}
	if s.Contains(v) {
		remaining := make([]T, 0, len(s.items))
		for _, item := range s.items {
			if item != v {
				remaining = append(remaining, item)
			}
		}
		return Specific(remaining...)
	}
	return Specific(append(s.Items(), v)...)
}

// Reconcile applies a requested selection list. includesAll reports whether the
// request also carried the "all" option; when it arrives together with specific
// items, whichever was newly picked relative to s wins.
func (s Selection[T]) Reconcile(requested []T, includesAll bool) Selection[T] {
	if len(requested) == 0 {
		return All[T]()
	}
	if !includesAll {
		return Specific(requested...)
	}
	if s.IsAll() {
		return Specific(requested...)
	}
	return All[T]()
}

// Equal reports whether both selections pick the same items in the same order
func (s Selection[T]) Equal(o Selection[T]) bool {
	if s.specific != o.specific || len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

type selectionJSON[T comparable] struct {
	All   bool `json:"all"`
	Items []T  `json:"items"`
}

// MarshalJSON encodes the selection as {"all":bool,"items":[...]}
func (s Selection[T]) MarshalJSON() ([]byte, error) {
	items := s.Items()
	if items == nil {
		items = []T{}
	}
	return json.Marshal(selectionJSON[T]{All: s.IsAll(), Items: items})
}

// UnmarshalJSON decodes the {"all":bool,"items":[...]} form
func (s *Selection[T]) UnmarshalJSON(data []byte) error {
	var raw selectionJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.All {
		*s = All[T]()
		return nil
	}
	*s = Specific(raw.Items...)
	return nil
}
