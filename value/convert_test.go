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

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny_NeverGuessesDates(t *testing.T) {
	v := FromAny("2024-01-01")
	assert.Equal(t, Str("2024-01-01"), v, "a date-shaped string stays Str without a declared type")
}

func TestFromAnyTyped_DateParsesExplicitlyDeclaredDates(t *testing.T) {
	v, err := FromAnyTyped("2024-01-01", KindDate)
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: 1, Day: 1}, v)
}

func TestFromAnyTyped_DateRejectsNonDateString(t *testing.T) {
	_, err := FromAnyTyped("not-a-date", KindDate)
	require.Error(t, err)
}

func TestFromAnyTyped_DateRejectsNonStringInput(t *testing.T) {
	_, err := FromAnyTyped(float64(5), KindDate)
	require.Error(t, err)
}

func TestFromAnyTyped_IntAcceptsWholeValuedFloat(t *testing.T) {
	v, err := FromAnyTyped(float64(5), KindInt)
	require.NoError(t, err)
	assert.Equal(t, Int(5), v)
}

func TestFromAnyTyped_StringUnaffectedByDateShape(t *testing.T) {
	v, err := FromAnyTyped("2024-01-01", KindString)
	require.NoError(t, err)
	assert.Equal(t, Str("2024-01-01"), v)
}

func TestFromAnyMap_UsesDeclaredTypesPerName(t *testing.T) {
	out, err := FromAnyMap(map[string]any{
		"reference_number": "2024-01-01", // looks like a date, isn't declared one
		"birthdate":        "2005-06-15",
	}, map[string]Kind{"birthdate": KindDate})
	require.NoError(t, err)
	assert.Equal(t, Str("2024-01-01"), out["reference_number"])
	assert.Equal(t, Date{Year: 2005, Month: 6, Day: 15}, out["birthdate"])
}

func TestFromAnyMap_PropagatesTypeErrors(t *testing.T) {
	_, err := FromAnyMap(map[string]any{"birthdate": "not-a-date"}, map[string]Kind{"birthdate": KindDate})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "birthdate")
}

func TestFromAnyMap_NilTypesFallsBackToUntyped(t *testing.T) {
	out, err := FromAnyMap(map[string]any{"x": "2024-01-01"}, nil)
	require.NoError(t, err)
	assert.Equal(t, Str("2024-01-01"), out["x"])
}

func TestToAnyMap_ConvertsToPlainGoValues(t *testing.T) {
	m := map[string]Value{"a": Int(1), "b": Str("x"), "c": Date{Year: 2024, Month: 1, Day: 1}}
	out := ToAnyMap(m)
	assert.Equal(t, int64(1), out["a"])
	assert.Equal(t, "x", out["b"])
	assert.Equal(t, "2024-01-01", out["c"])
}
