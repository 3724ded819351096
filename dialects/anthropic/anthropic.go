// Package anthropic renders canonical messages into the Anthropic-style
// payload, where system content travels out of band rather than inside the
// message sequence.
package anthropic

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/haowjy/elmkit-go"
)

// Renderer implements the elmkit.Renderer interface for the Anthropic
// dialect.
type Renderer struct{}

// NewRenderer creates a new Anthropic dialect renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Name returns the dialect identifier.
func (r *Renderer) Name() elmkit.DialectID {
	return elmkit.DialectAnthropic
}

// Render projects canonical messages into the Anthropic payload shape.
//
// Anthropic has no in-band system role, so the first system or developer
// message is always lifted into Instructions; opts.UseInstructions is
// implied and ignored. Remaining system and developer messages are sent as
// user turns, and tool messages become user turns whose content is wrapped
// in a tool_result block when a tool_call_id is present. Name has no
// Anthropic equivalent and is dropped. The input slice is never mutated.
func (r *Renderer) Render(messages []elmkit.Message, opts *elmkit.RenderOptions) (*elmkit.Payload, error) {
	_ = opts // the lift is unconditional for this dialect

	instructions, rest, lifted := elmkit.LiftFirst(messages, elmkit.RoleSystem, elmkit.RoleDeveloper)

	rendered := make([]elmkit.Message, 0, len(rest))
	for i, m := range rest {
		role := m.Role
		content := m.Content

		switch m.Role {
		case elmkit.RoleUser, elmkit.RoleAssistant:
			// as is
		case elmkit.RoleSystem, elmkit.RoleDeveloper:
			role = elmkit.RoleUser
		case elmkit.RoleTool:
			role = elmkit.RoleUser
			if m.ToolCallID != "" {
				content = []elmkit.Block{{
					"type":        "tool_result",
					"tool_use_id": m.ToolCallID,
					"content":     m.Content,
				}}
			}
		default:
			return nil, &elmkit.ValidationError{
				Field:  "role",
				Index:  i,
				Reason: fmt.Sprintf("%q has no anthropic equivalent", m.Role),
			}
		}

		rendered = append(rendered, elmkit.Message{
			Role:    role,
			Content: content,
		})
	}

	out := &elmkit.Payload{Messages: rendered}
	if lifted {
		out.Instructions = instructions
	}
	return out, nil
}

// MessageParams converts canonical messages into Anthropic SDK request
// parameters, ready for anthropic.Client.Messages.New. It applies the same
// projection as Render and then expresses the result with SDK types:
// the lifted system content becomes system text blocks and every remaining
// message becomes a MessageParam.
//
// Only text and tool_result blocks can be expressed; any other block type
// is rejected rather than silently dropped.
func MessageParams(messages []elmkit.Message) (system []anthropic.TextBlockParam, params []anthropic.MessageParam, err error) {
	r := NewRenderer()
	payload, err := r.Render(messages, nil)
	if err != nil {
		return nil, nil, err
	}

	if payload.Instructions != nil {
		system, err = systemBlocks(payload.Instructions)
		if err != nil {
			return nil, nil, err
		}
	}

	params = make([]anthropic.MessageParam, 0, len(payload.Messages))
	for i, m := range payload.Messages {
		blocks, err := contentBlocks(m.Content, i)
		if err != nil {
			return nil, nil, err
		}
		switch m.Role {
		case elmkit.RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(blocks...))
		default:
			params = append(params, anthropic.NewUserMessage(blocks...))
		}
	}
	return system, params, nil
}

// systemBlocks expresses lifted system content as SDK text blocks.
func systemBlocks(content elmkit.Content) ([]anthropic.TextBlockParam, error) {
	if s, ok := content.(string); ok {
		return []anthropic.TextBlockParam{{Type: "text", Text: s}}, nil
	}

	blocks, ok := contentSlice(content)
	if !ok {
		return nil, fmt.Errorf("anthropic: system content must be a string or block slice, got %T", content)
	}
	out := make([]anthropic.TextBlockParam, 0, len(blocks))
	for j, b := range blocks {
		text, ok := textOf(b)
		if !ok {
			return nil, fmt.Errorf("anthropic: system block %d is not a text block", j)
		}
		out = append(out, anthropic.TextBlockParam{Type: "text", Text: text})
	}
	return out, nil
}

// contentBlocks expresses message content as SDK content block unions.
func contentBlocks(content elmkit.Content, msgIndex int) ([]anthropic.ContentBlockParamUnion, error) {
	if s, ok := content.(string); ok {
		return []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(s)}, nil
	}

	blocks, ok := contentSlice(content)
	if !ok {
		return nil, fmt.Errorf("anthropic: message %d: content must be a string or block slice, got %T", msgIndex, content)
	}

	out := make([]anthropic.ContentBlockParamUnion, 0, len(blocks))
	for j, b := range blocks {
		block, ok := b.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("anthropic: message %d, block %d: not a block map", msgIndex, j)
		}

		blockType, _ := block["type"].(string)
		switch blockType {
		case "text":
			text, _ := block["text"].(string)
			out = append(out, anthropic.NewTextBlock(text))

		case "tool_result":
			toolUseID, _ := block["tool_use_id"].(string)
			if toolUseID == "" {
				return nil, fmt.Errorf("anthropic: message %d, block %d: tool_result block missing tool_use_id", msgIndex, j)
			}
			isError, _ := block["is_error"].(bool)
			result, _ := block["content"].(string)
			out = append(out, anthropic.NewToolResultBlock(toolUseID, result, isError))

		default:
			return nil, fmt.Errorf("anthropic: message %d, block %d: cannot express block type %q with SDK params", msgIndex, j, blockType)
		}
	}
	return out, nil
}

// contentSlice unpacks block-sequence content regardless of its slice type.
func contentSlice(content elmkit.Content) ([]any, bool) {
	switch s := content.(type) {
	case []any:
		return s, true
	case []elmkit.Block:
		out := make([]any, len(s))
		for i, b := range s {
			out[i] = b
		}
		return out, true
	default:
		return nil, false
	}
}

func textOf(b any) (string, bool) {
	block, ok := b.(map[string]any)
	if !ok {
		return "", false
	}
	if t, _ := block["type"].(string); t != "text" {
		return "", false
	}
	text, ok := block["text"].(string)
	return text, ok
}
