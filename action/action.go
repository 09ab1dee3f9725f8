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

// Package action is the per-article executor: it builds the action
// dependency graph, checks the requirements gate, and lazily evaluates
// only the actions transitively needed to produce the requested outputs.
package action

import (
	"github.com/minbzk/regelrecht/dag"
	"github.com/minbzk/regelrecht/eval"
	"github.com/minbzk/regelrecht/evalctx"
	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/trace"
	"github.com/minbzk/regelrecht/typespec"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

// name is an action output name as a dag.G node; dag.G is keyed by
// fmt.Stringer.
type name string

func (n name) String() string { return string(n) }

// Result is what evaluating an article produces for a caller.
type Result struct {
	Outputs         map[string]value.Value
	RequirementsMet bool
	Trace           *trace.Node
}

// Run executes article against ctx, lazily computing exactly the actions
// needed to produce requested (or every action, in dependency order, if
// requested is empty — a full-article evaluation).
func Run(ctx *evalctx.Context, article *lawast.Article, requested []string) (*Result, error) {
	node, done := trace.New(trace.KindArticle, article.Number, nil)
	defer done()

	if article.MachineReadable == nil {
		err := xerr.ErrSchema("article %s has no machine_readable block", article.Number)
		node.SetErr(err)
		return nil, err
	}
	exec := article.MachineReadable.Execution

	graph, byName, err := buildGraph(exec.Actions)
	if err != nil {
		node.SetErr(err)
		return nil, err
	}
	if cycle := graph.DetectFirstCycle(); len(cycle) > 0 {
		cycleNames := make([]string, len(cycle))
		for i, n := range cycle {
			cycleNames[i] = n.String()
		}
		err := xerr.ErrCyclicActions(article.Number, cycleNames)
		node.SetErr(err)
		return nil, err
	}
	order, err := graph.TopoSort()
	if err != nil {
		node.SetErr(err)
		return nil, err
	}

	if exec.Requirements != nil {
		reqNode, reqDone := trace.New(trace.KindRequirements, article.Number, nil)
		met, reqResultNode, err := eval.Eval(ctx, exec.Requirements)
		reqNode.Attach(reqResultNode)
		reqDone()
		node.Attach(reqNode)
		if err != nil {
			node.SetErr(err)
			return nil, err
		}
		metBool, ok := met.(value.Bool)
		if !ok {
			err := xerr.ErrType("REQUIREMENTS", met.Kind().String())
			node.SetErr(err)
			return nil, err
		}
		if !bool(metBool) {
			return &Result{Outputs: map[string]value.Value{}, RequirementsMet: false, Trace: node}, nil
		}
	}

	needed := transitiveClosure(requested, byName, graph, order)

	for _, n := range order {
		a, ok := byName[n.String()]
		if !ok {
			continue // a dependency that is an input/definition, not an action
		}
		if len(requested) > 0 && !needed[n.String()] {
			continue
		}
		if ctx.HasOutput(a.OutputName) {
			continue
		}
		actionNode, actionDone := trace.New(trace.KindAction, a.OutputName, nil)
		v, resultNode, err := eval.Eval(ctx, a.Value)
		actionNode.Attach(resultNode)
		if err != nil {
			actionDone()
			node.Attach(actionNode.SetErr(err))
			return nil, err
		}
		if a.TypeSpec != nil {
			v, err = typespec.Enforce(toSpec(a.TypeSpec), v, boundsMode(a.TypeSpec.Bounds))
			if err != nil {
				actionDone()
				node.Attach(actionNode.SetErr(err))
				return nil, err
			}
		}
		ctx.BindOutput(a.OutputName, v)
		actionDone()
		node.Attach(actionNode.SetResult(v.String()))
	}

	outputs := map[string]value.Value{}
	names := exec.Outputs
	if len(requested) > 0 {
		names = requested
	}
	for _, outName := range names {
		v, err := ctx.Resolve(outName)
		if err != nil {
			node.SetErr(err)
			return nil, err
		}
		outputs[outName] = v
	}

	return &Result{Outputs: outputs, RequirementsMet: true, Trace: node}, nil
}

func toSpec(t *lawast.TypeSpecRef) typespec.Spec {
	return typespec.Spec{
		Unit:      typespec.Unit(t.Unit),
		Precision: t.Precision,
		Min:       t.Min,
		Max:       t.Max,
	}
}

func boundsMode(b string) typespec.BoundsMode {
	if b == "reject" {
		return typespec.Reject
	}
	return typespec.Clamp
}

func buildGraph(actions []lawast.Action) (dag.G[name], map[string]*lawast.Action, error) {
	graph := dag.New[name]()
	byName := make(map[string]*lawast.Action, len(actions))
	for i := range actions {
		a := &actions[i]
		byName[a.OutputName] = a
		graph.AddNode(name(a.OutputName))
	}
	for i := range actions {
		a := &actions[i]
		for _, ref := range collectRefs(a.Value) {
			if _, ok := byName[ref]; !ok {
				continue // reference to an input/definition/parameter, not another action
			}
			if err := graph.AddEdge(name(ref), name(a.OutputName)); err != nil {
				return nil, nil, xerr.ErrSchema("action %s: %v", a.OutputName, err)
			}
		}
	}
	return graph, byName, nil
}

// transitiveClosure returns the set of action output names that must run to
// produce requested, by walking backwards through the dependency graph. An
// empty requested list means "every action" (full-article evaluation), so
// no filtering is applied in that case.
func transitiveClosure(requested []string, byName map[string]*lawast.Action, graph dag.G[name], order []name) map[string]bool {
	needed := map[string]bool{}
	if len(requested) == 0 {
		return needed
	}
	deps := dependencyEdges(byName)
	var visit func(n string)
	visited := map[string]bool{}
	visit = func(n string) {
		if visited[n] {
			return
		}
		visited[n] = true
		if _, ok := byName[n]; ok {
			needed[n] = true
		}
		for _, dep := range deps[n] {
			visit(dep)
		}
	}
	for _, r := range requested {
		visit(r)
	}
	return needed
}

func dependencyEdges(byName map[string]*lawast.Action) map[string][]string {
	out := make(map[string][]string, len(byName))
	for n, a := range byName {
		out[n] = collectRefs(a.Value)
	}
	return out
}

// collectRefs walks an operation tree and returns every $name reference it
// contains, the dependency graph's edge list.
func collectRefs(op lawast.Operation) []string {
	if op == nil {
		return nil
	}
	var refs []string
	switch n := op.(type) {
	case lawast.Ref:
		refs = append(refs, n.Name)
	case lawast.Comparison:
		refs = append(refs, collectRefs(n.Subject)...)
		refs = append(refs, collectRefs(n.Value)...)
	case lawast.Arithmetic:
		for _, v := range n.Values {
			refs = append(refs, collectRefs(v)...)
		}
	case lawast.Logical:
		for _, c := range n.Conditions {
			refs = append(refs, collectRefs(c)...)
		}
	case lawast.If:
		refs = append(refs, collectRefs(n.When)...)
		refs = append(refs, collectRefs(n.Then)...)
		refs = append(refs, collectRefs(n.Else)...)
	case lawast.Switch:
		for _, c := range n.Cases {
			refs = append(refs, collectRefs(c.When)...)
			refs = append(refs, collectRefs(c.Then)...)
		}
		refs = append(refs, collectRefs(n.Default)...)
	case lawast.NullCheck:
		refs = append(refs, collectRefs(n.Subject)...)
	case lawast.Membership:
		refs = append(refs, collectRefs(n.Subject)...)
		for _, v := range n.Values {
			refs = append(refs, collectRefs(v)...)
		}
	case lawast.SubtractDate:
		refs = append(refs, collectRefs(n.Values[0])...)
		refs = append(refs, collectRefs(n.Values[1])...)
	case lawast.Foreach:
		refs = append(refs, collectRefs(n.Items)...)
		refs = append(refs, collectRefs(n.Action)...)
	case lawast.Get:
		refs = append(refs, collectRefs(n.Subject)...)
	case lawast.Concat:
		for _, v := range n.Values {
			refs = append(refs, collectRefs(v)...)
		}
	}
	return refs
}
