package dsl

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// Builder accumulates script actions in order.
type Builder struct {
	script domain.Script
}

// New creates a new script builder.
func New() *Builder {
	return &Builder{}
}

// Expect appends a step that waits for text to appear in the program's
// output.
func (b *Builder) Expect(text string) *Builder {
	b.script = append(b.script, domain.Expect(text))
	return b
}

// Send appends a step that writes text to the program's input. The
// engine adds the line terminator.
func (b *Builder) Send(text string) *Builder {
	b.script = append(b.script, domain.Send(text))
	return b
}

// Answer appends an expect/send pair: wait for the prompt, then reply.
func (b *Builder) Answer(prompt, reply string) *Builder {
	return b.Expect(prompt).Send(reply)
}

// Build validates the accumulated actions and compiles them into a
// script.
func (b *Builder) Build() (domain.Script, error) {
	if err := b.script.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build script: %w", err)
	}

	script := make(domain.Script, len(b.script))
	copy(script, b.script)
	return script, nil
}
