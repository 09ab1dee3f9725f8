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

package xerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrConstructors_WrapToTheNamedType(t *testing.T) {
	cases := []struct {
		name string
		err  error
		as   any
	}{
		{"schema", ErrSchema("bad %s", "thing"), &SchemaError{}},
		{"no_version", ErrNoVersion("wet", "2024-01-01"), &NoVersionError{}},
		{"not_found", ErrNotFound("wet", "output"), &NotFoundError{}},
		{"resolution", ErrResolution("x", []string{"local"}), &ResolutionError{}},
		{"cyclic", ErrCyclicActions("1", []string{"a", "b"}), &CyclicActionsError{}},
		{"no_legal_basis", ErrNoLegalBasis("wet", "18", nil), &NoLegalBasisError{}},
		{"ambiguous", ErrAmbiguousDelegation("wet", "18", nil, []string{"a", "b"}), &AmbiguousDelegationError{}},
		{"type", ErrType("ADD", "int", "string"), &TypeError{}},
		{"division", ErrDivisionByZero("DIVIDE"), &DivisionByZeroError{}},
		{"overflow", ErrNumericOverflow("MULTIPLY"), &NumericOverflowError{}},
		{"nan", ErrNaNOrInfinity("DIVIDE"), &NaNOrInfinityError{}},
		{"depth", ErrDepthLimit([]string{"a", "b"}, 64), &DepthLimitError{}},
		{"reentrant", ErrReentrantFrame([]string{"a", "b"}), &DepthLimitError{}},
		{"datasource", ErrDataSourceMissing("default"), &DataSourceMissingError{}},
		{"invalid", ErrInvalidInvocation("nil registry"), &InvalidInvocationError{}},
		{"missing_param", ErrMissingParameter("income"), &MissingParameterError{}},
		{"param_type", ErrParameterType("income", "int", "string"), &ParameterTypeError{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Error(t, c.err)
			assert.ErrorAs(t, c.err, c.as)
			assert.NotEmpty(t, c.err.Error())
		})
	}
}

func TestDepthLimitError_MessageDistinguishesReentrantFromDepth(t *testing.T) {
	depth := DepthLimitError{Stack: []string{"a", "b"}, Limit: 64}
	assert.Contains(t, depth.Error(), "exceeds 64")

	reentrant := DepthLimitError{Stack: []string{"a", "b"}}
	assert.Contains(t, reentrant.Error(), "re-entered")
}

func TestMissingParameterError_NamesTheParameter(t *testing.T) {
	err := MissingParameterError{Name: "income"}
	assert.Contains(t, err.Error(), "income")
}

func TestParameterTypeError_NamesDeclaredAndActualKind(t *testing.T) {
	err := ParameterTypeError{Name: "income", Want: "int", Got: "string"}
	assert.Contains(t, err.Error(), "int")
	assert.Contains(t, err.Error(), "string")
}
