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

package eval

import (
	"fmt"

	"github.com/minbzk/regelrecht/evalctx"
	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/trace"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

// evalForeach iterates Items, pushing a local frame binding $current_N (N
// is the foreach nesting depth, starting at 0) per element, evaluating
// Action, and folding the results with Combine. An empty list resolves to
// the combine operator's identity (ADD 0, AND true, OR false); MAX and MIN
// have none, and an empty list is an error for them.
func evalForeach(ctx *evalctx.Context, n lawast.Foreach) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(lawast.TagForeach), nil)
	defer done()

	itemsVal, itemsNode, err := Eval(ctx, n.Items)
	node.Attach(itemsNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	items, ok := itemsVal.(value.List)
	if !ok {
		err := xerr.ErrType("FOREACH", itemsVal.Kind().String())
		return nil, node.SetErr(err), err
	}

	if len(items) == 0 {
		result, err := emptyIdentity(n.Combine)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		return result, node.SetResult(result.String()), nil
	}

	varName := fmt.Sprintf("current_%d", ctx.LocalDepth())

	var acc value.Value
	for i, item := range items {
		ctx.PushLocalFrame(map[string]value.Value{varName: item})
		v, childNode, err := Eval(ctx, n.Action)
		ctx.PopLocalFrame()
		node.Attach(childNode)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		if i == 0 {
			acc = v
			continue
		}
		acc, err = combine(n.Combine, acc, v)
		if err != nil {
			return nil, node.SetErr(err), err
		}
	}
	return acc, node.SetResult(acc.String()), nil
}

func emptyIdentity(op lawast.Tag) (value.Value, error) {
	switch op {
	case lawast.TagAdd:
		return value.Int(0), nil
	case lawast.TagAnd:
		return value.Bool(true), nil
	case lawast.TagOr:
		return value.Bool(false), nil
	default:
		return nil, xerr.ErrSchema("FOREACH combine %s has no identity for an empty list", op)
	}
}

func combine(op lawast.Tag, a, b value.Value) (value.Value, error) {
	switch op {
	case lawast.TagAdd:
		return value.Add(a, b)
	case lawast.TagMax:
		return value.Max([]value.Value{a, b})
	case lawast.TagMin:
		return value.Min([]value.Value{a, b})
	case lawast.TagAnd:
		return value.And(a, b)
	case lawast.TagOr:
		return value.Or(a, b)
	default:
		return nil, xerr.ErrSchema("unknown combine operator %s", op)
	}
}
