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

package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbzk/regelrecht/lawast"
	"github.com/minbzk/regelrecht/value"
)

func TestParseLaw_Basic(t *testing.T) {
	law, err := ParseLaw([]byte(testLawYAML))
	require.NoError(t, err)

	assert.Equal(t, "test_wet", law.ID)
	assert.Equal(t, lawast.LayerWet, law.RegulatoryLayer)
	require.NotNil(t, law.ValidFrom)
	assert.Equal(t, value.Date{Year: 2024, Month: 1, Day: 1}, *law.ValidFrom)

	require.Len(t, law.Articles, 1)
	article := law.Articles[0]
	assert.Equal(t, "1", article.Number)
	require.NotNil(t, article.MachineReadable)

	def, ok := article.MachineReadable.Definitions["threshold"]
	require.True(t, ok)
	assert.Equal(t, value.Int(100), def)

	exec := article.MachineReadable.Execution
	assert.Equal(t, []string{"eligible"}, exec.Outputs)
	require.Len(t, exec.Actions, 1)

	cmp, ok := exec.Actions[0].Value.(lawast.Comparison)
	require.True(t, ok)
	assert.Equal(t, lawast.TagGreaterThanOrEqual, cmp.Op)
	assert.Equal(t, lawast.Ref{Name: "income"}, cmp.Subject)
	assert.Equal(t, lawast.Ref{Name: "threshold"}, cmp.Value)
}

func TestParseLaw_MissingID(t *testing.T) {
	_, err := ParseLaw([]byte("articles: []\n"))
	require.Error(t, err)
}

func TestParseLaw_ForeachAndSwitch(t *testing.T) {
	src := `
id: test_wet2
articles:
  - number: "1"
    machine_readable:
      execution:
        outputs: [total, category]
        actions:
          - output: total
            value:
              op: FOREACH
              items: {op: REF, name: amounts}
              action: {op: REF, name: current_0}
              combine: ADD
          - output: category
            value:
              op: SWITCH
              cases:
                - when: {op: GREATER_THAN, subject: {op: REF, name: total}, against: {op: LITERAL, value_type: int, value: 1000}}
                  then: {op: LITERAL, value_type: string, value: high}
              default: {op: LITERAL, value_type: string, value: low}
`
	law, err := ParseLaw([]byte(src))
	require.NoError(t, err)
	exec := law.Articles[0].MachineReadable.Execution

	foreach, ok := exec.Actions[0].Value.(lawast.Foreach)
	require.True(t, ok)
	assert.Equal(t, lawast.TagAdd, foreach.Combine)

	sw, ok := exec.Actions[1].Value.(lawast.Switch)
	require.True(t, ok)
	require.Len(t, sw.Cases, 1)
	assert.NotNil(t, sw.Default)
}
