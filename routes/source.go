package routes

import (
	"fmt"
	"strings"
)

/* SourceType selects which payload normalizer a mounted source uses.
 * Generic accepts arbitrary bodies; Discord speaks the Discord webhook
 * payload shape.
 */
type SourceType int

const (
	Generic SourceType = iota + 1
	Discord
)

// String returns the string representation of the source type.
func (t SourceType) String() string {
	switch t {
	case Generic:
		return "generic"
	case Discord:
		return "discord"
	default:
		return "unknown"
	}
}

// NewSourceType creates a SourceType from a string. Unknown strings map to
// the zero value, which Validate rejects.
func NewSourceType(s string) SourceType {
	switch s {
	case "generic":
		return Generic
	case "discord":
		return Discord
	default:
		return SourceType(0)
	}
}

// Validate checks if the source type is valid.
func (t SourceType) Validate() error {
	if t != Generic && t != Discord {
		return fmt.Errorf("invalid source type: %d", t)
	}
	return nil
}

/* Source is one mounted webhook entry point: a path prefix bound to a
 * normalizer. Deprecated sources are kept for backward-compatible route
 * migration; an unknown hook on a deprecated source defers to the next
 * handler in the fallback chain instead of answering 404.
 */
type Source struct {
	Name       string
	Type       SourceType
	Prefix     string
	Deprecated bool
}

// Validate checks if the source configuration is valid.
func (s *Source) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if !strings.HasPrefix(s.Prefix, "/") {
		return fmt.Errorf("prefix must start with / for source %s", s.Name)
	}
	if strings.HasSuffix(s.Prefix, "/") {
		return fmt.Errorf("prefix must not end with / for source %s", s.Name)
	}
	if err := s.Type.Validate(); err != nil {
		return fmt.Errorf("invalid type for source %s: %w", s.Name, err)
	}
	// Only the generic source participates in route migration.
	if s.Deprecated && s.Type != Generic {
		return fmt.Errorf("deprecated is only supported on generic sources, got %s for source %s", s.Type, s.Name)
	}
	return nil
}
