package elmkit

import (
	"fmt"
	"reflect"
	"strings"
)

// NormalizeOptions controls normalization behavior.
type NormalizeOptions struct {
	// KeepMeta preserves per-message meta maps in the canonical output.
	// The zero value strips them.
	KeepMeta bool
}

// Normalize converts any accepted input into a canonical payload ready for
// an LLM chat API. A nil opts means defaults (meta stripped).
//
// Accepted shapes, checked in this order (first match wins):
//  1. full payload: a Payload (or *Payload) value, or a map carrying a
//     "messages" sequence of record maps, with an optional "instructions"
//     value passed through untouched
//  2. bare string, wrapped as a single user message with the string verbatim
//  3. MessageSource (Message, *Message, or any type implementing it)
//  4. single record map with "role" and "content" keys
//  5. slice of record maps and/or MessageSources, in any mix
//
// Every validation failure aborts the whole call; there is no partial
// output. The call is a pure function of its input and never mutates it.
func Normalize(input any, opts *NormalizeOptions) (*Payload, error) {
	if opts == nil {
		opts = &NormalizeOptions{}
	}

	// Full payload. The record check for plain maps comes later so that a
	// map carrying "messages" is never mistaken for a single record.
	switch p := input.(type) {
	case Payload:
		return normalizeCanonical(p, opts)
	case *Payload:
		if p != nil {
			return normalizeCanonical(*p, opts)
		}
	}
	if rec, ok := mapOf(input); ok {
		if raw, present := rec["messages"]; present {
			return normalizeFullPayload(rec, raw, opts)
		}
	}

	// Bare strings are wrapped verbatim and skip content validation, so an
	// empty string passes here while an empty string inside a record does
	// not. Callers relying on that should confirm it is what they want.
	if s, ok := input.(string); ok {
		return &Payload{Messages: []Message{{Role: RoleUser, Content: s}}}, nil
	}

	if isMessageSource(input) {
		m, err := coerceSource(input.(MessageSource), -1, opts)
		if err != nil {
			return nil, err
		}
		return &Payload{Messages: []Message{m}}, nil
	}

	if rec, ok := mapOf(input); ok {
		m, err := coerceRecord(rec, -1, opts)
		if err != nil {
			return nil, err
		}
		return &Payload{Messages: []Message{m}}, nil
	}

	if items, ok := sliceOf(input); ok {
		return normalizeSequence(items, opts)
	}

	return nil, &ShapeError{
		Got:    typeName(input),
		Reason: "accepted shapes are string, record map, payload map with 'messages', MessageSource, or a slice of records and MessageSources",
	}
}

// normalizeCanonical re-coerces an already-canonical payload. Feeding a
// Normalize result back in yields an identical payload.
func normalizeCanonical(p Payload, opts *NormalizeOptions) (*Payload, error) {
	msgs := make([]Message, 0, len(p.Messages))
	for i, raw := range p.Messages {
		m, err := coerceSource(raw, i, opts)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return &Payload{Messages: msgs, Instructions: p.Instructions}, nil
}

// normalizeFullPayload handles a provider-style payload map. Its messages
// must be a sequence of record maps; MessageSource elements are not accepted
// in this shape. An "instructions" value is carried through without
// validation.
func normalizeFullPayload(payload map[string]any, rawMessages any, opts *NormalizeOptions) (*Payload, error) {
	items, ok := sliceOf(rawMessages)
	if !ok {
		return nil, &ShapeError{Got: typeName(rawMessages), Reason: "'messages' must be a sequence"}
	}

	msgs := make([]Message, 0, len(items))
	for i, it := range items {
		rec, ok := mapOf(it)
		if !ok {
			return nil, &FieldTypeError{Field: "messages", Index: i, Got: typeName(it), Want: "record map"}
		}
		m, err := coerceRecord(rec, i, opts)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}

	out := &Payload{Messages: msgs}
	if instructions, present := payload["instructions"]; present {
		out.Instructions = instructions
	}
	return out, nil
}

// normalizeSequence handles a bare slice of mixed record maps and
// MessageSources. Zero messages is refused.
func normalizeSequence(items []any, opts *NormalizeOptions) (*Payload, error) {
	if len(items) == 0 {
		return nil, ErrEmptyInput
	}

	msgs := make([]Message, 0, len(items))
	for i, it := range items {
		var m Message
		var err error
		switch {
		case isMessageSource(it):
			m, err = coerceSource(it.(MessageSource), i, opts)
		default:
			rec, ok := mapOf(it)
			if !ok {
				return nil, &FieldTypeError{Field: "messages", Index: i, Got: typeName(it), Want: "record map or MessageSource"}
			}
			m, err = coerceRecord(rec, i, opts)
		}
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return &Payload{Messages: msgs}, nil
}

// coerceRecord converts a bare record map into a canonical message.
// idx is the message position in the input sequence, -1 for single inputs.
func coerceRecord(rec map[string]any, idx int, opts *NormalizeOptions) (Message, error) {
	role, roleOK := rec["role"].(string)
	if !roleOK || role == "" {
		return Message{}, &ValidationError{Field: "role", Index: idx, Reason: "must be a non-empty string"}
	}
	content, present := rec["content"]
	if !present || content == nil {
		return Message{}, &ValidationError{Field: "content", Index: idx, Reason: "is required"}
	}

	m := Message{Role: strings.ToLower(role), Content: content}

	if v, present := rec["name"]; present && v != nil {
		s, ok := v.(string)
		if !ok {
			return Message{}, &FieldTypeError{Field: "name", Index: idx, Got: typeName(v), Want: "string"}
		}
		m.Name = s
	}
	if v, present := rec["tool_call_id"]; present && v != nil {
		s, ok := v.(string)
		if !ok {
			return Message{}, &FieldTypeError{Field: "tool_call_id", Index: idx, Got: typeName(v), Want: "string"}
		}
		m.ToolCallID = s
	}
	if v, present := rec["meta"]; opts.KeepMeta && present && v != nil {
		meta, ok := mapOf(v)
		if !ok {
			return Message{}, &FieldTypeError{Field: "meta", Index: idx, Got: typeName(v), Want: "map"}
		}
		if len(meta) > 0 {
			m.Meta = meta
		}
	}

	if err := validateMessage(&m, idx); err != nil {
		return Message{}, err
	}
	return m, nil
}

// coerceSource converts a MessageSource into a canonical message. Name and
// ToolCallID need no type check here, the message struct already types them.
func coerceSource(src MessageSource, idx int, opts *NormalizeOptions) (Message, error) {
	raw := src.CanonicalMessage()
	if raw.Role == "" {
		return Message{}, &ValidationError{Field: "role", Index: idx, Reason: "must be a non-empty string"}
	}
	if raw.Content == nil {
		return Message{}, &ValidationError{Field: "content", Index: idx, Reason: "is required"}
	}

	m := Message{
		Role:       strings.ToLower(raw.Role),
		Content:    raw.Content,
		Name:       raw.Name,
		ToolCallID: raw.ToolCallID,
	}
	if opts.KeepMeta && len(raw.Meta) > 0 {
		m.Meta = raw.Meta
	}

	if err := validateMessage(&m, idx); err != nil {
		return Message{}, err
	}
	return m, nil
}

// validateMessage checks a coerced message: non-empty role, content either a
// non-empty string or a sequence whose every element is a block map. Block
// internals are deliberately not inspected.
func validateMessage(m *Message, idx int) error {
	if m.Role == "" {
		return &ValidationError{Field: "role", Index: idx, Reason: "must be a non-empty string"}
	}

	if s, ok := m.Content.(string); ok {
		if s == "" {
			return &ValidationError{Field: "content", Index: idx, Reason: "must not be an empty string"}
		}
		return nil
	}

	blocks, ok := sliceOf(m.Content)
	if !ok {
		return &FieldTypeError{Field: "content", Index: -1, Got: typeName(m.Content), Want: "string or slice of block maps"}
	}
	for i, b := range blocks {
		if _, ok := mapOf(b); !ok {
			return &FieldTypeError{Field: "content", Index: i, Got: typeName(b), Want: "block map"}
		}
	}
	return nil
}

// isMessageSource reports whether v can supply a canonical message. A typed
// nil pointer is not a source; it falls through to the record checks and
// fails there with a typed error instead of panicking on dereference.
func isMessageSource(v any) bool {
	if v == nil {
		return false
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return false
	}
	_, ok := v.(MessageSource)
	return ok
}

// mapOf reports v as a string-keyed map. Decoded JSON and YAML arrive as
// map[string]any; other string-keyed map types are walked with reflection.
func mapOf(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// sliceOf reports v as a []any. Common element types are handled directly;
// any other slice kind is walked with reflection.
func sliceOf(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []Message:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	case []*Message:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
