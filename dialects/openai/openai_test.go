package openai

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/haowjy/elmkit-go"
)

func TestRenderer_Name(t *testing.T) {
	if got := NewRenderer().Name(); got != elmkit.DialectOpenAI {
		t.Errorf("Name() = %q, want %q", got, elmkit.DialectOpenAI)
	}
}

func TestRender_InstructionsLift(t *testing.T) {
	messages := []elmkit.Message{
		elmkit.System("be terse"),
		elmkit.User("hi"),
	}

	lifted, err := NewRenderer().Render(messages, &elmkit.RenderOptions{UseInstructions: true})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if lifted.Instructions != "be terse" {
		t.Errorf("instructions = %v, want %q", lifted.Instructions, "be terse")
	}
	wantMessages := []elmkit.Message{{Role: "user", Content: "hi"}}
	if !reflect.DeepEqual(lifted.Messages, wantMessages) {
		t.Errorf("messages = %+v, want %+v", lifted.Messages, wantMessages)
	}

	inline, err := NewRenderer().Render(messages, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if inline.Instructions != nil {
		t.Errorf("instructions = %v, want unset without lift", inline.Instructions)
	}
	wantInline := []elmkit.Message{
		{Role: "system", Content: "be terse"},
		{Role: "user", Content: "hi"},
	}
	if !reflect.DeepEqual(inline.Messages, wantInline) {
		t.Errorf("messages = %+v, want %+v", inline.Messages, wantInline)
	}
}

func TestRender_LiftWithoutSystemMessage(t *testing.T) {
	got, err := NewRenderer().Render([]elmkit.Message{elmkit.User("hi")}, &elmkit.RenderOptions{UseInstructions: true})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got.Instructions != nil {
		t.Errorf("instructions = %v, want unset when no system message exists", got.Instructions)
	}
	if len(got.Messages) != 1 {
		t.Errorf("got %d messages, want 1", len(got.Messages))
	}
}

func TestRender_LiftTakesFirstSystemOnly(t *testing.T) {
	messages := []elmkit.Message{
		elmkit.User("hi"),
		elmkit.System("first"),
		elmkit.System("second"),
	}

	got, err := NewRenderer().Render(messages, &elmkit.RenderOptions{UseInstructions: true})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got.Instructions != "first" {
		t.Errorf("instructions = %v, want %q", got.Instructions, "first")
	}
	want := []elmkit.Message{
		{Role: "user", Content: "hi"},
		{Role: "system", Content: "second"},
	}
	if !reflect.DeepEqual(got.Messages, want) {
		t.Errorf("messages = %+v, want %+v", got.Messages, want)
	}
}

func TestRender_DeveloperRemap(t *testing.T) {
	got, err := NewRenderer().Render([]elmkit.Message{elmkit.Developer("x")}, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := []elmkit.Message{{Role: "system", Content: "x"}}
	if !reflect.DeepEqual(got.Messages, want) {
		t.Errorf("messages = %+v, want %+v (developer sent as system)", got.Messages, want)
	}
}

func TestRender_DeveloperNotLifted(t *testing.T) {
	// Only the system role is lifted; developer messages are remapped but
	// stay in the sequence.
	got, err := NewRenderer().Render([]elmkit.Message{elmkit.Developer("x")}, &elmkit.RenderOptions{UseInstructions: true})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got.Instructions != nil {
		t.Errorf("instructions = %v, want unset", got.Instructions)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "system" {
		t.Errorf("messages = %+v, want one system message", got.Messages)
	}
}

func TestRender_FieldProjection(t *testing.T) {
	blocks := []elmkit.Block{{"type": "text", "text": "hi"}}
	messages := []elmkit.Message{
		{Role: "tool", Content: "42", Name: "calc", ToolCallID: "call_1", Meta: map[string]any{"trace_id": "t-1"}},
		{Role: "user", Content: blocks},
	}

	got, err := NewRenderer().Render(messages, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	first := got.Messages[0]
	if first.Name != "calc" || first.ToolCallID != "call_1" {
		t.Errorf("optional fields not projected: %+v", first)
	}
	if first.Meta != nil {
		t.Errorf("meta = %v, must never appear in a dialect payload", first.Meta)
	}
	if !reflect.DeepEqual(got.Messages[1].Content, blocks) {
		t.Errorf("block content = %v, want passed through unchanged", got.Messages[1].Content)
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"meta"`) {
		t.Errorf("serialized dialect payload %s contains meta", data)
	}
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	messages := []elmkit.Message{
		elmkit.System("be terse"),
		elmkit.Developer("x"),
		elmkit.User("hi"),
	}
	snapshot := make([]elmkit.Message, len(messages))
	copy(snapshot, messages)

	if _, err := NewRenderer().Render(messages, &elmkit.RenderOptions{UseInstructions: true}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !reflect.DeepEqual(messages, snapshot) {
		t.Errorf("input mutated: %+v", messages)
	}
}
