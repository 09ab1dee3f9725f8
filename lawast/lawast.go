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

// Package lawast is the in-memory shape of a law, article, execution block
// and operation tree, as handed in by an external loader. It is immutable
// after load: nothing in this package mutates a Law once constructed.
package lawast

import "github.com/minbzk/regelrecht/value"

// RegulatoryLayer names a tier in the Dutch legal hierarchy.
type RegulatoryLayer string

const (
	LayerWet                    RegulatoryLayer = "WET"
	LayerAMVB                   RegulatoryLayer = "AMVB"
	LayerMinisterieleRegeling   RegulatoryLayer = "MINISTERIELE_REGELING"
	LayerGemeentelijkeVerordening RegulatoryLayer = "GEMEENTELIJKE_VERORDENING"
)

// Law is one time-version of a named piece of legislation. Multiple Law
// values may share an ID; they are different versions distinguished by
// ValidFrom.
type Law struct {
	ID              string
	RegulatoryLayer RegulatoryLayer
	ValidFrom       *value.Date // nil matches any reference date
	BWBID           string
	LegalBasis      []LegalBasis
	KeyAttributes   map[string]string // e.g. gemeente_code for municipal ordinances
	Articles        []*Article
}

// LegalBasis names the delegating law/article a lower-level regulation
// implements.
type LegalBasis struct {
	LawID   string
	Article string
}

// Article is a numbered unit within a Law, optionally bearing a
// machine-readable execution block.
type Article struct {
	Number          string
	MachineReadable *MachineReadable
}

// MachineReadable is the structured execution spec inside an article.
type MachineReadable struct {
	Definitions map[string]value.Value
	Execution   Execution
}

// Execution is the topologically-orderable body of an article: its
// parameters, declared inputs, published outputs, and the actions that
// produce them.
type Execution struct {
	Parameters   []Parameter
	Inputs       []InputField
	Outputs      []string // names that must be produced by some action or input
	Actions      []Action
	Requirements Operation // optional; nil means "always satisfied"
	Defaults     []Action  // used when an optional delegation finds no regulation
}

// Parameter is a value passed into an article evaluation by its caller
// (the top-level service call, or an enclosing delegation/cross-law call).
type Parameter struct {
	Name      string
	ValueType value.Kind
	Required  bool
}

// InputField is a value an article needs but does not receive as a
// parameter; Source (if present) says how to resolve it.
type InputField struct {
	Name      string
	ValueType value.Kind
	Required  bool
	Source    *Source
}

// SourceKind discriminates an InputField's resolution strategy.
type SourceKind int

const (
	SourceDataRegistry SourceKind = iota // no source block: ask the data-source registry
	SourceExternal                      // cross-law call, or same-article internal reference
	SourceDelegation                    // delegation lookup
)

// Source describes where an InputField's value comes from when it is not
// supplied by the caller.
type Source struct {
	Kind SourceKind

	// SourceExternal fields.
	Regulation string // law_id; empty means "same article, internal reference"
	Output     string
	Parameters map[string]string // parameter name -> $variable reference to pass through

	// SourceDelegation fields.
	DelegationLawID  string
	DelegationArticle string
	KeyedBy          map[string]string // criteria name -> $variable reference

	// SourceDataRegistry fields. SourceName is the datasource.Registry
	// entry to query; KeyParameter is the resolvable name (parameter,
	// input, definition...) whose value is the lookup key. Both are
	// empty by default, in which case the resolver falls back to
	// "default"/"bsn" for compatibility with laws that predate these
	// fields.
	SourceName   string
	KeyParameter string
}

// Action produces one named output when executed. Value is an Operation
// tree, a literal value.Value, or a bare variable reference (encoded as a
// Ref operation).
type Action struct {
	OutputName        string
	Value             Operation
	CompetentAuthority string
	TypeSpec           *TypeSpecRef
}

// TypeSpecRef names the per-output normalisation metadata the typespec
// package applies after this action evaluates.
type TypeSpecRef struct {
	Unit      string
	Precision *int
	Min       *float64
	Max       *float64
	Bounds    string // "clamp" or "reject"; loader defaults this to "clamp"
}
