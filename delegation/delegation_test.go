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

package delegation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbzk/regelrecht/eval"
	"github.com/minbzk/regelrecht/evalctx"
	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/resolver"
	"github.com/minbzk/regelrecht/trace"
	"github.com/minbzk/regelrecht/value"
	"github.com/minbzk/regelrecht/xerr"
)

func delegateLaw(id, gemeenteCode string) *lawast.Law {
	return &lawast.Law{
		ID:            id,
		LegalBasis:    []lawast.LegalBasis{{LawID: "wet", Article: "18"}},
		KeyAttributes: map[string]string{"gemeente_code": gemeenteCode},
		Articles: []*lawast.Article{
			{
				Number: "1",
				MachineReadable: &lawast.MachineReadable{
					Execution: lawast.Execution{
						Outputs: []string{"percentage"},
						Actions: []lawast.Action{
							{OutputName: "percentage", Value: lawast.Literal{Value: value.Int(25)}},
						},
					},
				},
			},
		},
	}
}

func runner(ctx *evalctx.Context, article *lawast.Article, output string) (value.Value, *trace.Node, error) {
	v, node, err := eval.Eval(ctx, article.MachineReadable.Execution.Actions[0].Value)
	return v, node, err
}

func TestResolve_SingleCandidate(t *testing.T) {
	res := resolver.New()
	require.NoError(t, res.Load(delegateLaw("verordening_a", "GM0599")))

	ctx := evalctx.New(value.Date{Year: 2024, Month: 1, Day: 1}, nil, nil, nil, nil)
	v, _, err := Resolve(res, ctx, "wet", "18", map[string]string{"gemeente_code": "GM0599"}, "percentage", nil, nil, runner)
	require.NoError(t, err)
	assert.Equal(t, value.Int(25), v)
}

func TestResolve_NoCandidateWithoutDefaults(t *testing.T) {
	res := resolver.New()
	ctx := evalctx.New(value.Date{Year: 2024, Month: 1, Day: 1}, nil, nil, nil, nil)

	_, _, err := Resolve(res, ctx, "wet", "18", map[string]string{"gemeente_code": "GM9999"}, "percentage", nil, nil, runner)
	require.Error(t, err)
	var target xerr.NoLegalBasisError
	assert.ErrorAs(t, err, &target)
}

func TestResolve_NoCandidateFallsBackToDefaults(t *testing.T) {
	res := resolver.New()
	ctx := evalctx.New(value.Date{Year: 2024, Month: 1, Day: 1}, nil, nil, nil, nil)

	defaults := []lawast.Action{
		{OutputName: "percentage", Value: lawast.Literal{Value: value.Int(0)}},
	}
	v, _, err := Resolve(res, ctx, "wet", "18", map[string]string{"gemeente_code": "GM9999"}, "percentage", nil, defaults, runner)
	require.NoError(t, err)
	assert.Equal(t, value.Int(0), v)
}

func TestResolve_AmbiguousCandidates(t *testing.T) {
	res := resolver.New()
	require.NoError(t, res.Load(delegateLaw("verordening_a", "GM0599")))
	require.NoError(t, res.Load(delegateLaw("verordening_b", "GM0599")))

	ctx := evalctx.New(value.Date{Year: 2024, Month: 1, Day: 1}, nil, nil, nil, nil)
	_, _, err := Resolve(res, ctx, "wet", "18", map[string]string{"gemeente_code": "GM0599"}, "percentage", nil, nil, runner)
	require.Error(t, err)
	var target xerr.AmbiguousDelegationError
	assert.ErrorAs(t, err, &target)
	assert.Len(t, target.Candidates, 2)
}
