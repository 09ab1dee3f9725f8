// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package evalctx is the per-evaluation scope the expression evaluator
// reads $-prefixed names through: parameters, resolved inputs, definitions,
// computed action outputs, foreach-local frames, and the service handle
// used to recurse into other laws. A Context is owned exclusively by one
// evaluation; it is never shared across goroutines.
package evalctx

import (
	"slices"
	"sync"

	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

// InputResolverFunc resolves a declared InputField's value the first time
// it is touched: cross-law call, internal same-article reference,
// delegation, or data-source registry lookup, depending on field.Source.
type InputResolverFunc func(ctx *Context, field lawast.InputField) (value.Value, error)

// FrameSet is the shared cross-law re-entrancy guard: the set of
// (law_id, output) frames currently on the call stack. It is shared by a
// Context and all of its descendants created via NewChild, never copied.
type FrameSet struct {
	mu    sync.Mutex
	stack []string
}

// Push adds frame to the stack, erroring if it is already present (a cycle)
// or if the stack would exceed limit.
func (f *FrameSet) Push(frame string, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slices.Contains(f.stack, frame) {
		return xerr.ErrReentrantFrame(append(slices.Clone(f.stack), frame))
	}
	if len(f.stack) >= limit {
		return xerr.ErrDepthLimit(slices.Clone(f.stack), limit)
	}
	f.stack = append(f.stack, frame)
	return nil
}

// Pop removes the most recently pushed frame.
func (f *FrameSet) Pop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stack) > 0 {
		f.stack = f.stack[:len(f.stack)-1]
	}
}

// Snapshot returns a copy of the current stack, for trace/error reporting.
func (f *FrameSet) Snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.stack)
}

// Context is the per-article (or per-delegation, per-cross-law-call)
// evaluation scope.
type Context struct {
	parent *Context

	referenceDate value.Date

	parameters      map[string]value.Value
	resolvedInputs  map[string]value.Value
	inputsByName    map[string]lawast.InputField
	definitions     map[string]value.Value
	computedOutputs map[string]value.Value

	localFrames []map[string]value.Value // foreach $current_N stack, innermost last

	frames *FrameSet // shared cross-law (law_id, output) re-entrancy set

	resolveInput InputResolverFunc
}

// DepthLimit bounds cross-law recursion, per spec.md §4.7.
const DepthLimit = 64

// New creates the root Context for a top-level service call.
func New(referenceDate value.Date, parameters map[string]value.Value, definitions map[string]value.Value, inputs []lawast.InputField, resolveInput InputResolverFunc) *Context {
	byName := make(map[string]lawast.InputField, len(inputs))
	for _, in := range inputs {
		byName[in.Name] = in
	}
	if parameters == nil {
		parameters = map[string]value.Value{}
	}
	if definitions == nil {
		definitions = map[string]value.Value{}
	}
	return &Context{
		referenceDate:   referenceDate,
		parameters:      parameters,
		resolvedInputs:  map[string]value.Value{},
		inputsByName:    byName,
		definitions:     definitions,
		computedOutputs: map[string]value.Value{},
		frames:          &FrameSet{},
		resolveInput:    resolveInput,
	}
}

// NewChild creates a nested Context for a cross-law call or a delegated
// regulation evaluation: fresh parameters/outputs/inputs/definitions for the
// callee's own article, but sharing the reference date (inherited, per
// spec.md §4.7) and the cross-law frame set (for cycle detection).
func (c *Context) NewChild(parameters map[string]value.Value, definitions map[string]value.Value, inputs []lawast.InputField, resolveInput InputResolverFunc) *Context {
	child := New(c.referenceDate, parameters, definitions, inputs, resolveInput)
	child.parent = c
	child.frames = c.frames
	return child
}

// ReferenceDate returns the evaluation's reference date, inherited by every
// descendant context.
func (c *Context) ReferenceDate() value.Date { return c.referenceDate }

// Frames returns the shared cross-law re-entrancy guard.
func (c *Context) Frames() *FrameSet { return c.frames }

// SetFrames replaces the context's re-entrancy guard, used by a caller that
// owns the FrameSet across a chain of otherwise-unrelated root Contexts (a
// facade recursing into other laws, each its own evalctx.New root).
func (c *Context) SetFrames(f *FrameSet) { c.frames = f }

// PushLocalFrame pushes a new foreach-local binding frame.
func (c *Context) PushLocalFrame(frame map[string]value.Value) {
	c.localFrames = append(c.localFrames, frame)
}

// PopLocalFrame pops the most recently pushed foreach-local frame.
func (c *Context) PopLocalFrame() {
	if len(c.localFrames) > 0 {
		c.localFrames = c.localFrames[:len(c.localFrames)-1]
	}
}

// LocalDepth returns the current foreach nesting depth, used to name
// $current_N bindings.
func (c *Context) LocalDepth() int { return len(c.localFrames) }

// BindOutput caches a computed action output, making it visible to later
// actions in the same article.
func (c *Context) BindOutput(name string, v value.Value) {
	c.computedOutputs[name] = v
}

// HasOutput reports whether name has already been computed.
func (c *Context) HasOutput(name string) bool {
	_, ok := c.computedOutputs[name]
	return ok
}

// Resolve looks up name through the ordered resolve categories: local
// frame, computed output, parameter, input (triggering source resolution
// on first touch), definition, intrinsic.
func (c *Context) Resolve(name string) (value.Value, error) {
	searched := make([]string, 0, 6)

	for i := len(c.localFrames) - 1; i >= 0; i-- {
		if v, ok := c.localFrames[i][name]; ok {
			return v, nil
		}
	}
	searched = append(searched, "local")

	if v, ok := c.computedOutputs[name]; ok {
		return v, nil
	}
	searched = append(searched, "computed_outputs")

	if v, ok := c.parameters[name]; ok {
		return v, nil
	}
	searched = append(searched, "parameters")

	if v, ok := c.resolvedInputs[name]; ok {
		return v, nil
	}
	if field, ok := c.inputsByName[name]; ok {
		if c.resolveInput == nil {
			return nil, xerr.ErrResolution(name, append(searched, "input"))
		}
		v, err := c.resolveInput(c, field)
		if err != nil {
			return nil, err
		}
		c.resolvedInputs[name] = v
		return v, nil
	}
	searched = append(searched, "inputs")

	if v, ok := c.definitions[name]; ok {
		return v, nil
	}
	searched = append(searched, "definitions")

	if v, ok := c.intrinsic(name); ok {
		return v, nil
	}
	searched = append(searched, "intrinsics")

	return nil, xerr.ErrResolution(name, searched)
}

// ValidateParameters checks exec's declared Parameters and Inputs against a
// caller-supplied parameters map before evaluation starts: a Required
// Parameter absent from parameters is an error, and any Parameter or
// InputField present in parameters is checked against its declared
// ValueType. InputFields are otherwise left alone — when absent they are
// resolved lazily, through their Source, the first time an action touches
// them.
func ValidateParameters(exec lawast.Execution, parameters map[string]value.Value) error {
	for _, p := range exec.Parameters {
		v, ok := parameters[p.Name]
		if !ok {
			if p.Required {
				return xerr.ErrMissingParameter(p.Name)
			}
			continue
		}
		if v.Kind() != p.ValueType {
			return xerr.ErrParameterType(p.Name, p.ValueType.String(), v.Kind().String())
		}
	}
	for _, in := range exec.Inputs {
		v, ok := parameters[in.Name]
		if !ok {
			continue
		}
		if v.Kind() != in.ValueType {
			return xerr.ErrParameterType(in.Name, in.ValueType.String(), v.Kind().String())
		}
	}
	return nil
}

func (c *Context) intrinsic(name string) (value.Value, bool) {
	switch name {
	case "REFERENCEDATE", "calculation_date":
		return c.referenceDate, true
	case "january_first":
		return value.Date{Year: c.referenceDate.Year, Month: 1, Day: 1}, true
	case "prev_january_first":
		return value.Date{Year: c.referenceDate.Year - 1, Month: 1, Day: 1}, true
	default:
		return nil, false
	}
}
