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

// Package trace builds the hierarchical execution tree returned alongside
// every evaluation result. It is a plain data structure, independent of
// logging: a caller who discards the tree pays only allocation cost.
package trace

import (
	"time"
)

// Kind is a high-level category for a Node, matching the PathNode kinds of
// the data model: LAW, ARTICLE, REQUIREMENTS, ACTION, OPERATION,
// RESOLVE(source), SERVICE_CALL, DELEGATION, DEFAULTS.
type Kind string

const (
	KindLaw          Kind = "LAW"
	KindArticle      Kind = "ARTICLE"
	KindRequirements Kind = "REQUIREMENTS"
	KindAction       Kind = "ACTION"
	KindOperation    Kind = "OPERATION"
	KindResolve      Kind = "RESOLVE"
	KindServiceCall  Kind = "SERVICE_CALL"
	KindDelegation   Kind = "DELEGATION"
	KindDefaults     Kind = "DEFAULTS"
)

// Node is one step of the execution tree: the label (Kind + Op), the
// duration it took, any result/error, and its children in evaluation order.
type Node struct {
	Kind Kind `json:"kind"`

	// Op is the operator, action/output name, law id, or source name this
	// node concerns, depending on Kind.
	Op string `json:"op,omitempty"`

	Duration time.Duration `json:"duration,omitempty"`

	// Detail is a free-form map for candidate lists, branch choices,
	// resolved scopes and similar kind-specific context.
	Detail map[string]any `json:"detail,omitempty"`

	Children []*Node `json:"children,omitempty"`

	Result any    `json:"result,omitempty"`
	Err    string `json:"err,omitempty"`
}

// DoneFn stops a Node's timer when called; it is returned by New alongside
// the Node itself so callers can `defer done()`.
type DoneFn func()

// New starts a new Node, timing from the moment it's created.
func New(kind Kind, op string, detail map[string]any) (*Node, DoneFn) {
	n := &Node{Kind: kind, Op: op, Detail: detail}
	start := time.Now()
	return n, func() {
		n.Duration = time.Since(start)
	}
}

// Attach appends children and returns n for chaining.
func (n *Node) Attach(children ...*Node) *Node {
	if len(children) == 0 {
		return n
	}
	n.Children = append(n.Children, children...)
	return n
}

// SetResult records the node's evaluated value and returns n.
func (n *Node) SetResult(v any) *Node {
	n.Result = v
	return n
}

// SetErr annotates the node with an error, if non-nil, and returns n.
func (n *Node) SetErr(err error) *Node {
	if err != nil {
		n.Err = err.Error()
	}
	return n
}
