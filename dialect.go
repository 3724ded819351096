package elmkit

// DialectID identifies a provider dialect.
// Using a typed constant prevents typos and provides compile-time safety.
type DialectID string

// Known dialect identifiers
const (
	// DialectOpenAI is the OpenAI-style chat payload
	DialectOpenAI DialectID = "openai"

	// DialectAnthropic is the Anthropic-style payload with out-of-band system content
	DialectAnthropic DialectID = "anthropic"
)

// String returns the string representation of the dialect ID
func (d DialectID) String() string {
	return string(d)
}

// IsValid returns true if the dialect ID is a known dialect
func (d DialectID) IsValid() bool {
	switch d {
	case DialectOpenAI, DialectAnthropic:
		return true
	default:
		return false
	}
}

// RenderOptions controls dialect rendering.
type RenderOptions struct {
	// UseInstructions lifts the first system message out of the sequence
	// into the payload's Instructions field. When no system message exists
	// the field stays unset and rendering proceeds without error.
	UseInstructions bool
}

// Renderer defines the interface that all dialect renderers implement.
// Implementations live in dialects/<name>. New provider targets are added
// by implementing this same two-step contract (optional field lift, then
// per-message role and field projection), not by changing the normalizer.
type Renderer interface {
	// Render projects canonical messages into the dialect's payload shape.
	// It never mutates the slice it is given, and message meta never
	// appears in its output.
	Render(messages []Message, opts *RenderOptions) (*Payload, error)

	// Name returns the dialect identifier.
	Name() DialectID
}

// LiftFirst scans messages in order for the first message whose role is one
// of roles, returning its content and a new slice with that message removed
// and the relative order of the rest preserved. The input slice is never
// mutated. ok reports whether a match was found; when none is, rest is the
// input slice as given.
func LiftFirst(messages []Message, roles ...string) (content Content, rest []Message, ok bool) {
	for i, m := range messages {
		for _, role := range roles {
			if m.Role != role {
				continue
			}
			rest = make([]Message, 0, len(messages)-1)
			rest = append(rest, messages[:i]...)
			rest = append(rest, messages[i+1:]...)
			return m.Content, rest, true
		}
	}
	return nil, messages, false
}
