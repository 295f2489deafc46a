package entities

import (
	"fmt"
	"strings"
)

// Shift partitions a production day into three batches
type Shift int

const (
	Morning Shift = iota
	Afternoon
	Night
)

// String method for Shift enum
func (s Shift) String() string {
	switch s {
	case Morning:
		return "morning"
	case Afternoon:
		return "afternoon"
	case Night:
		return "night"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the three known shifts
func (s Shift) Valid() bool {
	return s >= Morning && s <= Night
}

// MarshalText encodes the shift by name
func (s Shift) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid shift %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a shift name
func (s *Shift) UnmarshalText(text []byte) error {
	parsed, err := ParseShift(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Shifts returns all shifts in production order
func Shifts() []Shift {
	return []Shift{Morning, Afternoon, Night}
}

// ParseShift parses a shift name, case-insensitively
func ParseShift(s string) (Shift, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning":
		return Morning, nil
	case "afternoon":
		return Afternoon, nil
	case "night":
		return Night, nil
	default:
		return 0, fmt.Errorf("unknown shift %q", s)
	}
}
