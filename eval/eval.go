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

// Package eval is the pure recursive expression evaluator: it walks a
// lawast.Operation tree over an evalctx.Context and produces a value.Value,
// opening a trace.Node at every non-trivial step.
package eval

import (
	"fmt"

	"github.com/minbzk/regelrecht/evalctx"
	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/trace"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

// Eval walks op over ctx, returning the resulting value and a trace node
// describing this step (and, recursively, its children).
func Eval(ctx *evalctx.Context, op lawast.Operation) (value.Value, *trace.Node, error) {
	switch n := op.(type) {
	case lawast.Literal:
		node, done := trace.New(trace.KindOperation, string(n.Tag()), nil)
		done()
		return n.Value, node.SetResult(n.Value.String()), nil

	case lawast.Ref:
		node, done := trace.New(trace.KindResolve, n.Name, nil)
		v, err := ctx.Resolve(n.Name)
		done()
		if err != nil {
			return nil, node.SetErr(err), err
		}
		return v, node.SetResult(v.String()), nil

	case lawast.Comparison:
		return evalComparison(ctx, n)
	case lawast.Arithmetic:
		return evalArithmetic(ctx, n)
	case lawast.Logical:
		return evalLogical(ctx, n)
	case lawast.If:
		return evalIf(ctx, n)
	case lawast.Switch:
		return evalSwitch(ctx, n)
	case lawast.NullCheck:
		return evalNullCheck(ctx, n)
	case lawast.Membership:
		return evalMembership(ctx, n)
	case lawast.SubtractDate:
		return evalSubtractDate(ctx, n)
	case lawast.Foreach:
		return evalForeach(ctx, n)
	case lawast.Get:
		return evalGet(ctx, n)
	case lawast.Concat:
		return evalConcat(ctx, n)

	default:
		err := xerr.ErrSchema("unsupported operation %T", op)
		node, done := trace.New(trace.KindOperation, fmt.Sprintf("%T", op), nil)
		done()
		return nil, node.SetErr(err), err
	}
}

func evalComparison(ctx *evalctx.Context, n lawast.Comparison) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(n.Op), nil)
	defer done()

	subj, subjNode, err := Eval(ctx, n.Subject)
	node.Attach(subjNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	val, valNode, err := Eval(ctx, n.Value)
	node.Attach(valNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}

	var result value.Value
	switch n.Op {
	case lawast.TagEquals:
		result = value.Bool(value.Equals(subj, val))
	case lawast.TagNotEquals:
		result = value.Bool(!value.Equals(subj, val))
	default:
		cmp, cerr := value.Compare(string(n.Op), subj, val)
		if cerr != nil {
			return nil, node.SetErr(cerr), cerr
		}
		switch n.Op {
		case lawast.TagGreaterThan:
			result = value.Bool(cmp > 0)
		case lawast.TagLessThan:
			result = value.Bool(cmp < 0)
		case lawast.TagGreaterThanOrEqual:
			result = value.Bool(cmp >= 0)
		case lawast.TagLessThanOrEqual:
			result = value.Bool(cmp <= 0)
		default:
			err := xerr.ErrSchema("unknown comparison operator %s", n.Op)
			return nil, node.SetErr(err), err
		}
	}
	return result, node.SetResult(result.String()), nil
}

func evalArithmetic(ctx *evalctx.Context, n lawast.Arithmetic) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(n.Op), nil)
	defer done()

	vals := make([]value.Value, 0, len(n.Values))
	for _, operand := range n.Values {
		v, childNode, err := Eval(ctx, operand)
		node.Attach(childNode)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		vals = append(vals, v)
	}

	var result value.Value
	var err error
	switch n.Op {
	case lawast.TagAdd:
		result, err = foldBinary(vals, value.Add)
	case lawast.TagSubtract:
		result, err = foldBinary(vals, value.Subtract)
	case lawast.TagMultiply:
		result, err = foldBinary(vals, value.Multiply)
	case lawast.TagDivide:
		result, err = foldBinary(vals, value.Divide)
	case lawast.TagMin:
		result, err = value.Min(vals)
	case lawast.TagMax:
		result, err = value.Max(vals)
	default:
		err = xerr.ErrSchema("unknown arithmetic operator %s", n.Op)
	}
	if err != nil {
		return nil, node.SetErr(err), err
	}
	return result, node.SetResult(result.String()), nil
}

func foldBinary(vals []value.Value, op func(a, b value.Value) (value.Value, error)) (value.Value, error) {
	if len(vals) == 0 {
		return nil, xerr.ErrSchema("arithmetic operation with no operands")
	}
	acc := vals[0]
	var err error
	for _, v := range vals[1:] {
		acc, err = op(acc, v)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func evalLogical(ctx *evalctx.Context, n lawast.Logical) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(n.Op), nil)
	defer done()

	if n.Op == lawast.TagNot {
		if len(n.Conditions) != 1 {
			err := xerr.ErrSchema("NOT requires exactly one operand")
			return nil, node.SetErr(err), err
		}
		v, childNode, err := Eval(ctx, n.Conditions[0])
		node.Attach(childNode)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		result, err := value.Not(v)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		return result, node.SetResult(result.String()), nil
	}

	// AND/OR short-circuit left-to-right.
	identity := n.Op == lawast.TagAnd
	result := value.Bool(identity)
	for _, cond := range n.Conditions {
		v, childNode, err := Eval(ctx, cond)
		node.Attach(childNode)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		var combined value.Value
		if n.Op == lawast.TagAnd {
			combined, err = value.And(result, v)
		} else {
			combined, err = value.Or(result, v)
		}
		if err != nil {
			return nil, node.SetErr(err), err
		}
		result = combined.(value.Bool)
		if n.Op == lawast.TagAnd && !bool(result) {
			break
		}
		if n.Op == lawast.TagOr && bool(result) {
			break
		}
	}
	return result, node.SetResult(result.String()), nil
}

func evalIf(ctx *evalctx.Context, n lawast.If) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(lawast.TagIf), nil)
	defer done()

	whenVal, whenNode, err := Eval(ctx, n.When)
	node.Attach(whenNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	cond, ok := whenVal.(value.Bool)
	if !ok {
		err := xerr.ErrType("IF", whenVal.Kind().String())
		return nil, node.SetErr(err), err
	}

	branch := n.Else
	if bool(cond) {
		branch = n.Then
	}
	if branch == nil {
		err := xerr.ErrSchema("IF branch taken has no expression")
		return nil, node.SetErr(err), err
	}
	result, childNode, err := Eval(ctx, branch)
	node.Attach(childNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	return result, node.SetResult(result.String()), nil
}

func evalSwitch(ctx *evalctx.Context, n lawast.Switch) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(lawast.TagSwitch), nil)
	defer done()

	for _, c := range n.Cases {
		whenVal, whenNode, err := Eval(ctx, c.When)
		node.Attach(whenNode)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		cond, ok := whenVal.(value.Bool)
		if !ok {
			err := xerr.ErrType("SWITCH", whenVal.Kind().String())
			return nil, node.SetErr(err), err
		}
		if bool(cond) {
			result, thenNode, err := Eval(ctx, c.Then)
			node.Attach(thenNode)
			if err != nil {
				return nil, node.SetErr(err), err
			}
			return result, node.SetResult(result.String()), nil
		}
	}
	if n.Default == nil {
		err := xerr.ErrResolution("SWITCH default", []string{"cases"})
		return nil, node.SetErr(err), err
	}
	result, defNode, err := Eval(ctx, n.Default)
	node.Attach(defNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	return result, node.SetResult(result.String()), nil
}

func evalNullCheck(ctx *evalctx.Context, n lawast.NullCheck) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(n.Op), nil)
	defer done()

	v, childNode, err := Eval(ctx, n.Subject)
	node.Attach(childNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	isNull := value.IsNull(v)
	var result value.Value
	switch n.Op {
	case lawast.TagIsNull:
		result = value.Bool(isNull)
	case lawast.TagNotNull, lawast.TagExists: // EXISTS(subject) == NOT_NULL(subject)
		result = value.Bool(!isNull)
	default:
		err := xerr.ErrSchema("unknown null-check operator %s", n.Op)
		return nil, node.SetErr(err), err
	}
	return result, node.SetResult(result.String()), nil
}

func evalMembership(ctx *evalctx.Context, n lawast.Membership) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(n.Op), nil)
	defer done()

	subj, subjNode, err := Eval(ctx, n.Subject)
	node.Attach(subjNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	set := make([]value.Value, 0, len(n.Values))
	for _, operand := range n.Values {
		v, childNode, err := Eval(ctx, operand)
		node.Attach(childNode)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		set = append(set, v)
	}
	found := value.In(subj, set)
	result := value.Bool(found)
	if n.Op == lawast.TagNotIn {
		result = value.Bool(!found)
	}
	return result, node.SetResult(result.String()), nil
}

func evalSubtractDate(ctx *evalctx.Context, n lawast.SubtractDate) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(lawast.TagSubtractDate), nil)
	defer done()

	a, aNode, err := Eval(ctx, n.Values[0])
	node.Attach(aNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	b, bNode, err := Eval(ctx, n.Values[1])
	node.Attach(bNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	result, err := value.SubtractDate(a, b, n.Unit)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	return result, node.SetResult(result.String()), nil
}

func evalGet(ctx *evalctx.Context, n lawast.Get) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(lawast.TagGet), nil)
	defer done()

	subj, subjNode, err := Eval(ctx, n.Subject)
	node.Attach(subjNode)
	if err != nil {
		return nil, node.SetErr(err), err
	}
	result := value.Get(subj, n.Path)
	return result, node.SetResult(result.String()), nil
}

func evalConcat(ctx *evalctx.Context, n lawast.Concat) (value.Value, *trace.Node, error) {
	node, done := trace.New(trace.KindOperation, string(lawast.TagConcat), nil)
	defer done()

	vals := make([]value.Value, 0, len(n.Values))
	for _, operand := range n.Values {
		v, childNode, err := Eval(ctx, operand)
		node.Attach(childNode)
		if err != nil {
			return nil, node.SetErr(err), err
		}
		vals = append(vals, v)
	}
	result := value.Concat(vals)
	return result, node.SetResult(result.String()), nil
}
