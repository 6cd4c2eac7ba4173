// Package validation aggregates the diagnostics of a bind: field messages
// keyed by full field path, global messages and the raw input that failed to convert.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Message is one localized diagnostic. Key identifies the message kind; Text is shown to the user.
type Message struct {
	Key  string
	Text string
}

func (m Message) String() string {
	return m.Text
}

// Result is an immutable validation report. A nil *Result is empty.
type Result struct {
	fields   map[string][]Message
	global   []Message
	rejected map[string][]string
}

var empty = &Result{}

// Empty returns the shared empty result.
func Empty() *Result {
	return empty
}

// FieldMessages returns the messages of one field path in insertion order.
func (r *Result) FieldMessages(path string) []Message {
	if r == nil {
		return nil
	}

	return slices.Clone(r.fields[path])
}

// Fields returns every field path carrying messages, sorted.
func (r *Result) Fields() []string {
	if r == nil {
		return nil
	}

	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// FieldMessageMap returns a copy of all field messages.
func (r *Result) FieldMessageMap() map[string][]Message {
	out := make(map[string][]Message)
	if r == nil {
		return out
	}

	for k, v := range r.fields {
		out[k] = slices.Clone(v)
	}

	return out
}

// Global returns the messages not tied to a field.
func (r *Result) Global() []Message {
	if r == nil {
		return nil
	}

	return slices.Clone(r.global)
}

// Rejected returns the raw input of a field path that failed to convert.
func (r *Result) Rejected(path string) ([]string, bool) {
	if r == nil {
		return nil, false
	}

	raw, ok := r.rejected[path]

	return slices.Clone(raw), ok
}

// HasErrors reports whether path carries at least one message.
func (r *Result) HasErrors(path string) bool {
	return r != nil && len(r.fields[path]) > 0
}

// IsValid reports whether the result holds no messages at all.
func (r *Result) IsValid() bool {
	return r == nil || (len(r.fields) == 0 && len(r.global) == 0)
}

// Error returns a combined error from all messages, or nil if valid.
func (r *Result) Error() error {
	if r.IsValid() {
		return nil
	}

	var parts []string
	for _, m := range r.global {
		parts = append(parts, m.Text)
	}

	for _, k := range r.Fields() {
		for _, m := range r.fields[k] {
			parts = append(parts, fmt.Sprintf("%s: %s", k, m.Text))
		}
	}

	return errors.New(strings.Join(parts, "; "))
}

// Merge unions results: field messages by path, global messages as a set.
func Merge(results ...*Result) *Result {
	b := NewBuilder()
	for _, r := range results {
		b.Merge(r)
	}

	return b.Build()
}

// Builder accumulates messages for one Result. Builders are not safe for concurrent use.
type Builder struct {
	fields   map[string][]Message
	global   []Message
	rejected map[string][]string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		fields:   make(map[string][]Message),
		rejected: make(map[string][]string),
	}
}

// AddField adds msg to path unless the path already holds it.
func (b *Builder) AddField(path string, msg Message) *Builder {
	if !slices.Contains(b.fields[path], msg) {
		b.fields[path] = append(b.fields[path], msg)
	}

	return b
}

// AddGlobal adds msg unless already present.
func (b *Builder) AddGlobal(msg Message) *Builder {
	if !slices.Contains(b.global, msg) {
		b.global = append(b.global, msg)
	}

	return b
}

// Reject records raw input of path that failed to convert. The first record wins.
func (b *Builder) Reject(path string, raw ...string) *Builder {
	if _, ok := b.rejected[path]; !ok {
		b.rejected[path] = slices.Clone(raw)
	}

	return b
}

// Merge adds everything r holds.
func (b *Builder) Merge(r *Result) *Builder {
	if r == nil {
		return b
	}

	for _, k := range r.Fields() {
		for _, m := range r.fields[k] {
			b.AddField(k, m)
		}
	}

	for _, m := range r.global {
		b.AddGlobal(m)
	}

	for k, raw := range r.rejected {
		b.Reject(k, raw...)
	}

	return b
}

// Build returns an immutable snapshot; the builder may keep being used.
func (b *Builder) Build() *Result {
	if len(b.fields) == 0 && len(b.global) == 0 && len(b.rejected) == 0 {
		return empty
	}

	r := &Result{
		fields:   make(map[string][]Message, len(b.fields)),
		global:   slices.Clone(b.global),
		rejected: make(map[string][]string, len(b.rejected)),
	}

	for k, v := range b.fields {
		r.fields[k] = slices.Clone(v)
	}

	for k, v := range b.rejected {
		r.rejected[k] = slices.Clone(v)
	}

	return r
}
