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

package typespec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbzk/regelrecht/value"
)

func ptr[T any](v T) *T { return &v }

func TestEnforce_EurocentRounding(t *testing.T) {
	v, err := Enforce(Spec{Unit: UnitEurocent}, value.Float(10.0/3.0), Clamp)
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)
}

func TestEnforce_ClampsToBounds(t *testing.T) {
	v, err := Enforce(Spec{Min: ptr(0.0), Max: ptr(100.0)}, value.Float(150), Clamp)
	require.NoError(t, err)
	assert.Equal(t, value.Float(100), v)

	v, err = Enforce(Spec{Min: ptr(0.0), Max: ptr(100.0)}, value.Float(-10), Clamp)
	require.NoError(t, err)
	assert.Equal(t, value.Float(0), v)
}

func TestEnforce_RejectReturnsViolation(t *testing.T) {
	_, err := Enforce(Spec{Min: ptr(0.0), Max: ptr(100.0)}, value.Float(150), Reject)
	require.Error(t, err)
	var violation *Violation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, 150.0, violation.Value)
}

func TestEnforce_RejectWithinBoundsSucceeds(t *testing.T) {
	v, err := Enforce(Spec{Min: ptr(0.0), Max: ptr(100.0)}, value.Float(50), Reject)
	require.NoError(t, err)
	assert.Equal(t, value.Float(50), v)
}

func TestEnforce_NaNRejectedRegardlessOfMode(t *testing.T) {
	_, err := Enforce(Spec{}, value.Float(math.NaN()), Clamp)
	require.Error(t, err)

	_, err = Enforce(Spec{}, value.Float(math.Inf(1)), Reject)
	require.Error(t, err)
}

func TestEnforce_NonNumericPassesThrough(t *testing.T) {
	v, err := Enforce(Spec{Unit: UnitEurocent}, value.Str("x"), Clamp)
	require.NoError(t, err)
	assert.Equal(t, value.Str("x"), v)
}

func TestEnforce_PrecisionRounding(t *testing.T) {
	v, err := Enforce(Spec{Precision: ptr(2)}, value.Float(1.23456), Clamp)
	require.NoError(t, err)
	assert.Equal(t, value.Float(1.23), v)
}

func TestEnforce_PreservesIntWhenWholeValued(t *testing.T) {
	v, err := Enforce(Spec{}, value.Int(5), Clamp)
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), v)
}
