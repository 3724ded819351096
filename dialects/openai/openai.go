// Package openai renders canonical messages into the OpenAI-style chat
// payload.
package openai

import (
	"github.com/haowjy/elmkit-go"
)

// Renderer implements the elmkit.Renderer interface for the OpenAI dialect.
type Renderer struct{}

// NewRenderer creates a new OpenAI dialect renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Name returns the dialect identifier.
func (r *Renderer) Name() elmkit.DialectID {
	return elmkit.DialectOpenAI
}

// Render projects canonical messages into the OpenAI payload shape.
//
// With opts.UseInstructions the first system message is lifted into the
// Instructions field and the rest keep their order; when no system message
// exists the field stays unset. The developer role is sent as system (the
// only role remapping), content passes through unchanged, and name and
// tool_call_id are projected only when present. The input slice is never
// mutated.
func (r *Renderer) Render(messages []elmkit.Message, opts *elmkit.RenderOptions) (*elmkit.Payload, error) {
	if opts == nil {
		opts = &elmkit.RenderOptions{}
	}

	var instructions elmkit.Content
	lifted := false
	if opts.UseInstructions {
		instructions, messages, lifted = elmkit.LiftFirst(messages, elmkit.RoleSystem)
	}

	rendered := make([]elmkit.Message, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role == elmkit.RoleDeveloper {
			role = elmkit.RoleSystem
		}
		rendered = append(rendered, elmkit.Message{
			Role:       role,
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		})
	}

	out := &elmkit.Payload{Messages: rendered}
	if lifted {
		out.Instructions = instructions
	}
	return out, nil
}
