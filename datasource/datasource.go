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

// Package datasource is the pluggable registry of external fact providers
// an article's inputs resolve through when they declare no other source:
// a source name maps to an implementation exposing a single
// lookup(table, key) operation.
package datasource

import (
	"context"
	"fmt"
	"sync"

	"github.com/fatih/structs"

	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

// Source looks up a fact record by table and primary key. A missing record
// is reported via ok=false, surfaced by the caller as value.Null — it is
// not itself an error.
type Source interface {
	Lookup(ctx context.Context, table, key string) (value.Map, bool, error)
}

// Registry is the source_name -> implementation map the context consults
// when an input declares no source.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register binds name to impl, replacing any existing binding.
func (r *Registry) Register(name string, impl Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = impl
}

// Lookup resolves (table, key) through the source registered as name.
func (r *Registry) Lookup(ctx context.Context, name, table, key string) (value.Map, bool, error) {
	r.mu.RLock()
	src, ok := r.sources[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false, xerr.ErrDataSourceMissing(name)
	}
	return src.Lookup(ctx, table, key)
}

// StructFunc produces a Go struct-shaped fact record for a given key; it is
// the shape most real connectors (SQL rows, gRPC responses) naturally
// return, converted to value.Map via ToValueMap.
type StructFunc func(ctx context.Context, table, key string) (any, bool, error)

// structSource adapts a StructFunc into a Source, converting its struct
// result to a value.Map with github.com/fatih/structs.
type structSource struct {
	fn StructFunc
}

// FromStructFunc wraps fn as a Source.
func FromStructFunc(fn StructFunc) Source {
	return &structSource{fn: fn}
}

func (s *structSource) Lookup(ctx context.Context, table, key string) (value.Map, bool, error) {
	rec, ok, err := s.fn(ctx, table, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	return ToValueMap(rec), true, nil
}

// ToValueMap converts a Go struct (or map[string]any) into the engine's
// Map value, the shape a data-source connector hands back to the context.
func ToValueMap(rec any) value.Map {
	if m, ok := rec.(map[string]any); ok {
		return fromAnyMap(m)
	}
	if !structs.IsStruct(rec) {
		return value.Map{}
	}
	return fromAnyMap(structs.Map(rec))
}

func fromAnyMap(m map[string]any) value.Map {
	out := make(value.Map, len(m))
	for k, v := range m {
		out[k] = fromAny(v)
	}
	return out
}

func fromAny(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null
	case bool:
		return value.Bool(t)
	case int:
		return value.Int(int64(t))
	case int64:
		return value.Int(t)
	case float64:
		return value.Float(t)
	case string:
		return value.Str(t)
	case value.Date:
		return t
	case map[string]any:
		return fromAnyMap(t)
	case []any:
		out := make(value.List, len(t))
		for i, e := range t {
			out[i] = fromAny(e)
		}
		return out
	default:
		if structs.IsStruct(v) {
			return fromAnyMap(structs.Map(v))
		}
		return value.Str(fmt.Sprintf("%v", v))
	}
}
