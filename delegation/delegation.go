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

// Package delegation locates the lower-level regulation that implements a
// higher-level law's delegation interface, or falls back to the
// delegating article's defaults block when none is found.
package delegation

import (
	"github.com/minbzk/regelrecht/eval"
	"github.com/minbzk/regelrecht/evalctx"
	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/resolver"
	"github.com/minbzk/regelrecht/trace"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

// evalDefaults runs a delegating article's defaults.actions in declaration
// order against a fresh mini-context, then resolves output from the bound
// results. Defaults are assumed small and dependency-order-declared; they
// do not get the full action package's graph/requirements treatment.
func evalDefaults(node *trace.Node, ctx *evalctx.Context, defaults []lawast.Action, output string) (value.Value, error) {
	for _, a := range defaults {
		v, childNode, err := eval.Eval(ctx, a.Value)
		node.Attach(childNode)
		if err != nil {
			return nil, err
		}
		ctx.BindOutput(a.OutputName, v)
	}
	return ctx.Resolve(output)
}

// ArticleRunner evaluates a resolved article against a context and returns
// just the single requested output. The caller supplies it; service passes
// a closure over action.Run.
type ArticleRunner func(ctx *evalctx.Context, article *lawast.Article, output string) (value.Value, *trace.Node, error)

// Resolve implements the four-way branch of spec.md §4.6 for a single
// delegation source. lawID/article/criteria come from the InputField's
// Source.DelegationLawID/DelegationArticle/KeyedBy (KeyedBy values
// resolved from the caller's context into concrete criteria strings
// before this is called); defaults are the delegating article's fallback
// actions, run only when no candidate is found.
func Resolve(
	res *resolver.Resolver,
	ctx *evalctx.Context,
	lawID, article string,
	criteria map[string]string,
	output string,
	parameters map[string]value.Value,
	defaults []lawast.Action,
	runArticle ArticleRunner,
) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindDelegation, lawID+"/"+article, map[string]any{"criteria": criteria})
	defer done()

	candidates := res.FindDelegatedRegulations(lawID, article, criteria, ctx.ReferenceDate())

	switch len(candidates) {
	case 1:
		law := candidates[0]
		target, err := findArticleProducing(law, output)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		child := ctx.NewChild(parameters, definitionsOf(target), inputsOf(target), nil)
		v, runNode, err := runArticle(child, target, output)
		node.Attach(runNode)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		return v, node.SetResult(v.String()), nil

	case 0:
		if len(defaults) == 0 {
			err := xerr.ErrNoLegalBasis(lawID, article, criteria)
			return nil, node.SetErr(err), err
		}
		defaultsNode, defaultsDone := trace.New(trace.KindDefaults, lawID+"/"+article, nil)
		child := ctx.NewChild(parameters, nil, nil, nil)
		v, err := evalDefaults(defaultsNode, child, defaults, output)
		defaultsDone()
		node.Attach(defaultsNode)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		return v, node.SetResult(v.String()), nil

	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.ID
		}
		err := xerr.ErrAmbiguousDelegation(lawID, article, criteria, names)
		return nil, node.SetErr(err), err
	}
}

func findArticleProducing(law *lawast.Law, output string) (*lawast.Article, error) {
	for _, article := range law.Articles {
		if article.MachineReadable == nil {
			continue
		}
		for _, o := range article.MachineReadable.Execution.Outputs {
			if o == output {
				return article, nil
			}
		}
	}
	return nil, xerr.ErrNotFound(law.ID, output)
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
