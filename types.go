// Package elmkit normalizes heterogeneous chat-message inputs into a single
// canonical payload shape and renders that shape into provider dialects.
//
// It never calls a network API. The normalizer checks structure only: content
// is a non-empty string or a slice of block maps, and block internals are
// provider-defined and left opaque.
package elmkit

import "strings"

// Conventional role names. Role is an open set: the normalizer accepts any
// non-empty string, these are the values providers understand.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleDeveloper = "developer"
)

// Content is either a plain string or an ordered slice of blocks
// ([]Block, []map[string]any, or []any whose elements are maps).
type Content = any

// Block is one element of multimodal content, e.g. {"type": "text",
// "text": "..."}. Its internal schema is provider-defined and not
// validated here.
type Block = map[string]any

// Message is the canonical representation of one chat message, independent
// of any provider dialect.
type Message struct {
	// Role is lower-cased on ingestion. Conventionally one of the Role*
	// constants, but any non-empty string is accepted.
	Role string `json:"role"`

	// Content is a non-empty string or a slice of block maps.
	Content Content `json:"content"`

	// Name identifies a named participant such as a tool or function.
	// Empty means absent; absent fields are never serialized.
	Name string `json:"name,omitempty"`

	// ToolCallID correlates a tool response to its invoking call.
	// Empty means absent.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Meta carries caller-attached metadata. It is preserved only when
	// NormalizeOptions.KeepMeta is set, and dialect renderers never emit it.
	Meta map[string]any `json:"meta,omitempty"`
}

// MessageSource is implemented by values that can act as a canonical message
// source. The normalizer recognizes message-like values through this
// interface rather than probing for same-named fields, so unrelated types
// that happen to expose a Role cannot be picked up by accident.
type MessageSource interface {
	CanonicalMessage() Message
}

// CanonicalMessage returns the message itself, making Message (and *Message)
// a MessageSource.
func (m Message) CanonicalMessage() Message { return m }

// Render converts the message into a map suitable for API calls or logging.
// Optional fields are omitted entirely when absent or empty; meta is
// included only when requested and non-empty.
func (m Message) Render(includeMeta bool) map[string]any {
	d := map[string]any{
		"role":    m.Role,
		"content": m.Content,
	}
	if m.Name != "" {
		d["name"] = m.Name
	}
	if m.ToolCallID != "" {
		d["tool_call_id"] = m.ToolCallID
	}
	if includeMeta && len(m.Meta) > 0 {
		d["meta"] = m.Meta
	}
	return d
}

// Payload is the canonical wire shape consumed by chat APIs.
type Payload struct {
	// Messages is the ordered conversation.
	Messages []Message `json:"messages"`

	// Instructions is an opaque passthrough value, carried only when the
	// source payload provided it or a dialect renderer lifted a system
	// message into it.
	Instructions Content `json:"instructions,omitempty"`
}

// MessageOption sets an optional field on a message built by a factory.
type MessageOption func(*Message)

// WithName sets the participant name.
func WithName(name string) MessageOption {
	return func(m *Message) { m.Name = name }
}

// WithToolCallID sets the tool call correlation ID.
func WithToolCallID(id string) MessageOption {
	return func(m *Message) { m.ToolCallID = id }
}

// WithMeta attaches caller metadata.
func WithMeta(meta map[string]any) MessageOption {
	return func(m *Message) { m.Meta = meta }
}

// Msg is the primary message factory. Lightweight and permissive: it
// lower-cases the role and applies options but performs no validation.
// Validation happens when the message passes through Normalize.
func Msg(role string, content Content, opts ...MessageOption) Message {
	m := Message{Role: strings.ToLower(role), Content: content}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// System builds a system message.
func System(content Content, opts ...MessageOption) Message {
	return Msg(RoleSystem, content, opts...)
}

// User builds a user message.
func User(content Content, opts ...MessageOption) Message {
	return Msg(RoleUser, content, opts...)
}

// Assistant builds an assistant message.
func Assistant(content Content, opts ...MessageOption) Message {
	return Msg(RoleAssistant, content, opts...)
}

// Tool builds a tool message.
func Tool(content Content, opts ...MessageOption) Message {
	return Msg(RoleTool, content, opts...)
}

// Developer builds a developer message. The OpenAI dialect sends developer
// messages with the system role.
func Developer(content Content, opts ...MessageOption) Message {
	return Msg(RoleDeveloper, content, opts...)
}
