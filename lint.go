package elmkit

import (
	"fmt"
	"strings"
	"sync"
)

// Lint philosophy:
//
// The normalizer enforces structure only. Roles are an open set, block
// internals are opaque, and the allowed-role list is deliberately not
// enforced at runtime. Lint rules cover the gap: they flag conversations
// that are structurally valid but likely to be rejected or misread by a
// provider, as warnings rather than errors. Provider APIs stay the source
// of truth; the library never blocks a payload based on warnings.

// Severity indicates how serious a lint warning is
type Severity string

const (
	SeverityInfo    Severity = "info"    // Informational (might be expected)
	SeverityWarning Severity = "warning" // Potentially problematic for providers
)

// WarningCode is a machine-readable identifier for lint warnings
type WarningCode string

const (
	// Role warnings
	WarningCodeUnconventionalRole WarningCode = "UNCONVENTIONAL_ROLE"

	// Tool correlation warnings
	WarningCodeToolWithoutCallID WarningCode = "TOOL_WITHOUT_CALL_ID"
	WarningCodeCallIDOffToolRole WarningCode = "CALL_ID_OFF_TOOL_ROLE"

	// Name warnings
	WarningCodeNameNotIdentifier WarningCode = "NAME_NOT_IDENTIFIER"

	// Block warnings
	WarningCodeBlockWithoutType WarningCode = "BLOCK_WITHOUT_TYPE"
)

// Warning represents a potential issue that might cause an API rejection.
type Warning struct {
	Code     WarningCode // Machine-readable code
	Index    int         // Message position in the sequence
	Field    string      // Field that might cause issues
	Message  string      // Human-readable warning
	Severity Severity    // How serious this warning is
}

// LintRule interface allows adding custom lint logic
type LintRule interface {
	// Name returns a human-readable name for this rule
	Name() string

	// Check inspects canonical messages and returns warnings
	Check(messages []Message) []Warning
}

// Linter manages lint rules and executes them
type Linter struct {
	rules []LintRule
	mu    sync.RWMutex
}

var (
	globalLinter     *Linter
	globalLinterOnce sync.Once
)

// GetLinter returns the global linter (singleton) with the built-in rules
// registered.
func GetLinter() *Linter {
	globalLinterOnce.Do(func() {
		globalLinter = &Linter{rules: make([]LintRule, 0)}
		globalLinter.registerDefaultRules()
	})
	return globalLinter
}

func (l *Linter) registerDefaultRules() {
	l.AddRule(&RoleConventionRule{})
	l.AddRule(&ToolCorrelationRule{})
	l.AddRule(&NameFormatRule{})
	l.AddRule(&BlockTypeRule{})
}

// AddRule adds a lint rule to the linter
func (l *Linter) AddRule(rule LintRule) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rules = append(l.rules, rule)
}

// RemoveRule removes a lint rule by name
func (l *Linter) RemoveRule(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, rule := range l.rules {
		if rule.Name() == name {
			l.rules = append(l.rules[:i], l.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Lint runs all rules over the messages and returns the collected warnings
func (l *Linter) Lint(messages []Message) []Warning {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var warnings []Warning
	for _, rule := range l.rules {
		warnings = append(warnings, rule.Check(messages)...)
	}
	return warnings
}

// Lint is a convenience function that runs the global linter.
func Lint(messages []Message) []Warning {
	return GetLinter().Lint(messages)
}

// RoleConventionRule flags roles outside the conventional set
type RoleConventionRule struct{}

func (r *RoleConventionRule) Name() string {
	return "Role Convention"
}

func (r *RoleConventionRule) Check(messages []Message) []Warning {
	conventional := map[string]bool{
		RoleSystem: true, RoleUser: true, RoleAssistant: true,
		RoleTool: true, RoleDeveloper: true,
	}

	var warnings []Warning
	for i, m := range messages {
		if !conventional[m.Role] {
			warnings = append(warnings, Warning{
				Code:     WarningCodeUnconventionalRole,
				Index:    i,
				Field:    "role",
				Message:  fmt.Sprintf("role %q is not one of the conventional roles; most providers will reject it", m.Role),
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}

// ToolCorrelationRule flags tool messages without a correlation ID and
// correlation IDs on non-tool messages
type ToolCorrelationRule struct{}

func (r *ToolCorrelationRule) Name() string {
	return "Tool Correlation"
}

func (r *ToolCorrelationRule) Check(messages []Message) []Warning {
	var warnings []Warning
	for i, m := range messages {
		if m.Role == RoleTool && m.ToolCallID == "" {
			warnings = append(warnings, Warning{
				Code:     WarningCodeToolWithoutCallID,
				Index:    i,
				Field:    "tool_call_id",
				Message:  "tool message has no tool_call_id to correlate it with an invoking call",
				Severity: SeverityWarning,
			})
		}
		if m.Role != RoleTool && m.ToolCallID != "" {
			warnings = append(warnings, Warning{
				Code:     WarningCodeCallIDOffToolRole,
				Index:    i,
				Field:    "tool_call_id",
				Message:  fmt.Sprintf("tool_call_id set on a %q message; providers expect it on tool messages", m.Role),
				Severity: SeverityInfo,
			})
		}
	}
	return warnings
}

// NameFormatRule flags participant names that are unlikely to be accepted
// as identifiers
type NameFormatRule struct{}

func (r *NameFormatRule) Name() string {
	return "Name Format"
}

func (r *NameFormatRule) Check(messages []Message) []Warning {
	var warnings []Warning
	for i, m := range messages {
		if m.Name == "" {
			continue
		}
		if strings.ContainsAny(m.Name, " \t\n") {
			warnings = append(warnings, Warning{
				Code:     WarningCodeNameNotIdentifier,
				Index:    i,
				Field:    "name",
				Message:  fmt.Sprintf("name %q contains whitespace; providers typically require identifier-like names", m.Name),
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}

// BlockTypeRule flags content blocks that carry no "type" discriminator.
// Block schemas stay opaque; this only checks the one key every provider
// dialect dispatches on.
type BlockTypeRule struct{}

func (r *BlockTypeRule) Name() string {
	return "Block Type"
}

func (r *BlockTypeRule) Check(messages []Message) []Warning {
	var warnings []Warning
	for i, m := range messages {
		blocks, ok := sliceOf(m.Content)
		if !ok {
			continue
		}
		for j, b := range blocks {
			block, ok := mapOf(b)
			if !ok {
				continue
			}
			if t, _ := block["type"].(string); t == "" {
				warnings = append(warnings, Warning{
					Code:     WarningCodeBlockWithoutType,
					Index:    i,
					Field:    "content",
					Message:  fmt.Sprintf("content block %d has no \"type\" field; providers dispatch on it", j),
					Severity: SeverityInfo,
				})
			}
		}
	}
	return warnings
}
