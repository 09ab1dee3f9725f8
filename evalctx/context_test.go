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

package evalctx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

func TestFrameSet_PushDetectsReentrantFrame(t *testing.T) {
	f := &FrameSet{}
	require.NoError(t, f.Push("wet/output", 64))

	err := f.Push("wet/output", 64)
	require.Error(t, err)
	var target xerr.DepthLimitError
	require.ErrorAs(t, err, &target)
	assert.Zero(t, target.Limit, "a re-entrancy error carries no limit")
}

func TestFrameSet_PushEnforcesDepthLimit(t *testing.T) {
	f := &FrameSet{}
	for i := 0; i < 3; i++ {
		require.NoError(t, f.Push(fmt.Sprintf("wet/output_%d", i), 3))
	}
	err := f.Push("wet/output_3", 3)
	require.Error(t, err)
	var target xerr.DepthLimitError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 3, target.Limit)
}

func TestFrameSet_PopAllowsReentry(t *testing.T) {
	f := &FrameSet{}
	require.NoError(t, f.Push("wet/output", 64))
	f.Pop()
	require.NoError(t, f.Push("wet/output", 64))
}

func TestContext_ResolveOrder_LocalBeatsComputed(t *testing.T) {
	ctx := New(value.Date{Year: 2024, Month: 1, Day: 1}, nil, nil, nil, nil)
	ctx.BindOutput("x", value.Int(1))
	ctx.PushLocalFrame(map[string]value.Value{"x": value.Int(2)})

	v, err := ctx.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)
}

func TestContext_ResolveOrder_ComputedBeatsParameter(t *testing.T) {
	ctx := New(value.Date{Year: 2024, Month: 1, Day: 1}, map[string]value.Value{"x": value.Int(1)}, nil, nil, nil)
	ctx.BindOutput("x", value.Int(2))

	v, err := ctx.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, value.Int(2), v)
}

func TestContext_ResolveTriggersInputOnce(t *testing.T) {
	calls := 0
	resolveInput := func(ctx *Context, field lawast.InputField) (value.Value, error) {
		calls++
		return value.Int(42), nil
	}
	ctx := New(value.Date{Year: 2024, Month: 1, Day: 1}, nil, nil, []lawast.InputField{{Name: "x"}}, resolveInput)

	v1, err := ctx.Resolve("x")
	require.NoError(t, err)
	v2, err := ctx.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), v1)
	assert.Equal(t, value.Int(42), v2)
	assert.Equal(t, 1, calls, "the resolver should only run once, on first touch")
}

func TestContext_ResolveIntrinsics(t *testing.T) {
	ctx := New(value.Date{Year: 2024, Month: 3, Day: 15}, nil, nil, nil, nil)

	v, err := ctx.Resolve("REFERENCEDATE")
	require.NoError(t, err)
	assert.Equal(t, value.Date{Year: 2024, Month: 3, Day: 15}, v)

	v, err = ctx.Resolve("january_first")
	require.NoError(t, err)
	assert.Equal(t, value.Date{Year: 2024, Month: 1, Day: 1}, v)

	v, err = ctx.Resolve("prev_january_first")
	require.NoError(t, err)
	assert.Equal(t, value.Date{Year: 2023, Month: 1, Day: 1}, v)
}

func TestContext_ResolveUnknownNameFails(t *testing.T) {
	ctx := New(value.Date{Year: 2024, Month: 1, Day: 1}, nil, nil, nil, nil)
	_, err := ctx.Resolve("nonexistent")
	require.Error(t, err)
	var target xerr.ResolutionError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "nonexistent", target.Name)
}

func TestValidateParameters_MissingRequired(t *testing.T) {
	exec := lawast.Execution{
		Parameters: []lawast.Parameter{{Name: "income", ValueType: value.KindInt, Required: true}},
	}
	err := ValidateParameters(exec, map[string]value.Value{})
	require.Error(t, err)
	var target xerr.MissingParameterError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "income", target.Name)
}

func TestValidateParameters_OptionalMayBeAbsent(t *testing.T) {
	exec := lawast.Execution{
		Parameters: []lawast.Parameter{{Name: "income", ValueType: value.KindInt, Required: false}},
	}
	require.NoError(t, ValidateParameters(exec, map[string]value.Value{}))
}

func TestValidateParameters_TypeMismatch(t *testing.T) {
	exec := lawast.Execution{
		Parameters: []lawast.Parameter{{Name: "income", ValueType: value.KindInt, Required: true}},
	}
	err := ValidateParameters(exec, map[string]value.Value{"income": value.Str("not a number")})
	require.Error(t, err)
	var target xerr.ParameterTypeError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "income", target.Name)
}

func TestValidateParameters_InputFieldTypeMismatchWhenPreSupplied(t *testing.T) {
	exec := lawast.Execution{
		Inputs: []lawast.InputField{{Name: "bsn", ValueType: value.KindString}},
	}
	err := ValidateParameters(exec, map[string]value.Value{"bsn": value.Int(123)})
	require.Error(t, err)
	var target xerr.ParameterTypeError
	require.ErrorAs(t, err, &target)
}

func TestValidateParameters_InputFieldAbsentIsFine(t *testing.T) {
	exec := lawast.Execution{
		Inputs: []lawast.InputField{{Name: "bsn", ValueType: value.KindString, Required: true}},
	}
	require.NoError(t, ValidateParameters(exec, map[string]value.Value{}), "absent inputs resolve lazily through their Source")
}
