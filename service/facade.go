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

// Package service is the engine's single public entry point: Facade ties
// the resolver, action executor, delegation resolver and data-source
// registry together behind one Evaluate(law_id, output, date, params) call.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/minbzk/regelrecht/action"
	"github.com/minbzk/regelrecht/datasource"
	"github.com/minbzk/regelrecht/delegation"
	"github.com/minbzk/regelrecht/evalctx"
	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/perch"
	"github.com/minbzk/regelrecht/resolver"
	"github.com/minbzk/regelrecht/trace"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

// memoTTL bounds how long an Evaluate result is reused for identical
// (law, output, date, parameters) calls before a fresh evaluation runs.
const memoTTL = 5 * time.Minute

// Result is the top-level outcome of an Evaluate call.
type Result struct {
	Outputs         map[string]value.Value
	RequirementsMet bool
	Trace           *trace.Node
	CorrelationID   string
}

// Facade is the engine's top-level service. It owns no external resources;
// its shared state is the Resolver, the data-source Registry and the
// Evaluate memo cache. The Resolver and Registry must be externally
// serialised against writes.
type Facade struct {
	resolver    *resolver.Resolver
	dataSources *datasource.Registry
	memo        *perch.Perch[*Result]
	log         *slog.Logger
}

// New creates a Facade over a fresh resolver and data-source registry.
func New(log *slog.Logger) *Facade {
	if log == nil {
		log = slog.Default()
	}
	return &Facade{
		resolver:    resolver.New(),
		dataSources: datasource.New(),
		memo:        perch.New[*Result](4096),
		log:         log,
	}
}

// LoadLaw registers a law version with the resolver.
func (f *Facade) LoadLaw(law *lawast.Law) error {
	return f.resolver.Load(law)
}

// UnloadLaw removes a specific version (testing / hot reload).
func (f *Facade) UnloadLaw(id string, validFrom *value.Date) {
	f.resolver.UnloadVersion(id, validFrom)
}

// RegisterDataSource binds name to impl in the data-source registry.
func (f *Facade) RegisterDataSource(name string, impl datasource.Source) {
	f.dataSources.Register(name, impl)
}

// ParameterTypes returns the declared value.Kind of every Parameter and
// InputField on the article that produces output for lawID at
// referenceDate, keyed by name. Callers at the CLI/HTTP boundary use this to
// convert untyped facts (value.FromAnyMap) against the law's own type
// declarations instead of guessing a value's type from its shape.
func (f *Facade) ParameterTypes(lawID, output string, referenceDate value.Date) (map[string]value.Kind, error) {
	article, err := f.resolver.GetArticleByOutput(lawID, output, referenceDate)
	if err != nil {
		return nil, err
	}
	if article.MachineReadable == nil {
		return nil, nil
	}
	exec := article.MachineReadable.Execution
	types := make(map[string]value.Kind, len(exec.Parameters)+len(exec.Inputs))
	for _, p := range exec.Parameters {
		types[p.Name] = p.ValueType
	}
	for _, in := range exec.Inputs {
		types[in.Name] = in.ValueType
	}
	return types, nil
}

// Evaluate is the single public entry point: resolve law_id's article
// producing output, evaluate it at referenceDate with parameters, and
// return the result (or a typed error).
func (f *Facade) Evaluate(ctx context.Context, lawID, output string, referenceDate value.Date, parameters map[string]value.Value) (*Result, error) {
	correlationID := uuid.NewString()
	logger := f.log.With("correlation_id", correlationID, "law_id", lawID, "output", output)
	logger.Debug("evaluate start")

	frames := &evalctx.FrameSet{}
	res, err := f.evaluate(ctx, frames, lawID, output, referenceDate, parameters)
	if err != nil {
		logger.Warn("evaluate failed", "err", err)
		return nil, err
	}
	res.CorrelationID = correlationID
	logger.Debug("evaluate done", "requirements_met", res.RequirementsMet)
	return res, nil
}

// evaluate is the recursive worker shared by the top-level Evaluate call and
// every cross-law / delegation lookup it triggers, threading the same
// FrameSet through so depth and cycles are tracked across law boundaries.
func (f *Facade) evaluate(ctx context.Context, frames *evalctx.FrameSet, lawID, output string, referenceDate value.Date, parameters map[string]value.Value) (*Result, error) {
	memoKey := f.memoKey(lawID, output, referenceDate, parameters)

	loader := func(ctx context.Context, _ string) (*Result, error) {
		return f.evaluateUncached(ctx, frames, lawID, output, referenceDate, parameters)
	}
	if memoKey == "" {
		return loader(ctx, "")
	}
	return f.memo.Get(ctx, memoKey, memoTTL, loader)
}

func (f *Facade) evaluateUncached(ctx context.Context, frames *evalctx.FrameSet, lawID, output string, referenceDate value.Date, parameters map[string]value.Value) (*Result, error) {
	frame := lawID + "/" + output
	if err := frames.Push(frame, evalctx.DepthLimit); err != nil {
		return nil, err
	}
	defer frames.Pop()

	node, done := trace.New(trace.KindLaw, lawID, nil)
	defer done()

	article, err := f.resolver.GetArticleByOutput(lawID, output, referenceDate)
	if err != nil {
		node.SetErr(err)
		return nil, err
	}

	if article.MachineReadable != nil {
		if err := evalctx.ValidateParameters(article.MachineReadable.Execution, parameters); err != nil {
			node.SetErr(err)
			return nil, err
		}
	}

	evCtx := evalctx.New(referenceDate, parameters, definitionsOf(article), inputsOf(article), f.inputResolver(ctx, frames))
	evCtx.SetFrames(frames)

	actionResult, err := action.Run(evCtx, article, []string{output})
	if err != nil {
		node.SetErr(err)
		return nil, err
	}
	node.Attach(actionResult.Trace)

	return &Result{
		Outputs:         actionResult.Outputs,
		RequirementsMet: actionResult.RequirementsMet,
		Trace:           node,
	}, nil
}

// memoKey builds the evaluate-result cache key. An empty string disables
// caching for this call (hashstructure failed, an unlikely case given
// value.Value's closed algebra).
func (f *Facade) memoKey(lawID, output string, referenceDate value.Date, parameters map[string]value.Value) string {
	h, err := hashstructure.Hash(struct {
		Law, Output, Date string
		Parameters        map[string]value.Value
	}{lawID, output, referenceDate.String(), parameters}, hashstructure.FormatV2, nil)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s/%s@%s:%d", lawID, output, referenceDate.String(), h)
}

// inputResolver builds the InputResolverFunc that dispatches an
// InputField's Source to a cross-law call, an internal reference, a
// delegation lookup, or the data-source registry.
func (f *Facade) inputResolver(ctx context.Context, frames *evalctx.FrameSet) evalctx.InputResolverFunc {
	return func(evCtx *evalctx.Context, field lawast.InputField) (value.Value, error) {
		if field.Source == nil {
			return f.resolveFromDataSource(ctx, evCtx, field)
		}
		switch field.Source.Kind {
		case lawast.SourceExternal:
			if field.Source.Regulation == "" {
				// internal same-article reference: must already have been
				// computed by an earlier action in topological order.
				return evCtx.Resolve(field.Source.Output)
			}
			params := resolveParams(evCtx, field.Source.Parameters)
			res, err := f.evaluate(ctx, frames, field.Source.Regulation, field.Source.Output, evCtx.ReferenceDate(), params)
			if err != nil {
				return nil, err
			}
			v, ok := res.Outputs[field.Source.Output]
			if !ok {
				return nil, xerr.ErrNotFound(field.Source.Regulation, field.Source.Output)
			}
			return v, nil

		case lawast.SourceDelegation:
			return f.resolveDelegation(evCtx, field)

		default:
			return f.resolveFromDataSource(ctx, evCtx, field)
		}
	}
}

func (f *Facade) resolveDelegation(evCtx *evalctx.Context, field lawast.InputField) (value.Value, error) {
	criteria := resolveCriteria(evCtx, field.Source.KeyedBy)
	params := resolveParams(evCtx, field.Source.Parameters)

	var defaults []lawast.Action
	if article, err := f.resolver.GetArticleByOutput(field.Source.DelegationLawID, field.Source.Output, evCtx.ReferenceDate()); err == nil && article.MachineReadable != nil {
		defaults = article.MachineReadable.Execution.Defaults
	}

	runner := func(child *evalctx.Context, article *lawast.Article, outputName string) (value.Value, *trace.Node, error) {
		r, err := action.Run(child, article, []string{outputName})
		if err != nil {
			return nil, nil, err
		}
		return r.Outputs[outputName], r.Trace, nil
	}

	v, _, err := delegation.Resolve(f.resolver, evCtx, field.Source.DelegationLawID, field.Source.DelegationArticle, criteria, field.Source.Output, params, defaults, runner)
	return v, err
}

// resolveFromDataSource looks up field in the datasource.Registry. The
// registry name and the resolvable holding the lookup key both come from
// field.Source when the law declares them (source_name/key_parameter in the
// YAML); "default"/"bsn" remain the fallback for laws that don't, so a
// RegisterDataSource call under any other name, or a natural key other than
// bsn (a KVK number, a gemeente_code), is reachable once a law asks for it.
func (f *Facade) resolveFromDataSource(ctx context.Context, evCtx *evalctx.Context, field lawast.InputField) (value.Value, error) {
	sourceName := "default"
	keyParameter := "bsn"
	if field.Source != nil {
		if field.Source.SourceName != "" {
			sourceName = field.Source.SourceName
		}
		if field.Source.KeyParameter != "" {
			keyParameter = field.Source.KeyParameter
		}
	}

	key := ""
	if v, err := evCtx.Resolve(trimVarPrefix(keyParameter)); err == nil {
		key = v.String()
	}
	rec, ok, err := f.dataSources.Lookup(ctx, sourceName, field.Name, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return value.Null, nil
	}
	return rec, nil
}

func resolveParams(evCtx *evalctx.Context, refs map[string]string) map[string]value.Value {
	out := make(map[string]value.Value, len(refs))
	for name, ref := range refs {
		if v, err := evCtx.Resolve(trimVarPrefix(ref)); err == nil {
			out[name] = v
		}
	}
	return out
}

func resolveCriteria(evCtx *evalctx.Context, refs map[string]string) map[string]string {
	out := make(map[string]string, len(refs))
	for name, ref := range refs {
		if v, err := evCtx.Resolve(trimVarPrefix(ref)); err == nil {
			out[name] = v.String()
		}
	}
	return out
}

func trimVarPrefix(s string) string {
	if len(s) > 0 && s[0] == '$' {
		return s[1:]
	}
	return s
}

func definitionsOf(article *lawast.Article) map[string]value.Value {
	if article.MachineReadable == nil {
		return nil
	}
	return article.MachineReadable.Definitions
}

func inputsOf(article *lawast.Article) []lawast.InputField {
	if article.MachineReadable == nil {
		return nil
	}
	return article.MachineReadable.Execution.Inputs
}
