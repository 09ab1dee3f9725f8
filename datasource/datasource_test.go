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

package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbzk/regelrecht/value"
)

type fakeSource struct {
	records map[string]value.Map
}

func (f *fakeSource) Lookup(_ context.Context, table, key string) (value.Map, bool, error) {
	rec, ok := f.records[table+"/"+key]
	return rec, ok, nil
}

func TestRegistry_LookupKnownSource(t *testing.T) {
	reg := New()
	reg.Register("bag", &fakeSource{records: map[string]value.Map{
		"woningen/0599": {"oppervlakte": value.Int(80)},
	}})

	rec, ok, err := reg.Lookup(context.Background(), "bag", "woningen", "0599")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.Int(80), rec["oppervlakte"])
}

func TestRegistry_LookupMissingRecord(t *testing.T) {
	reg := New()
	reg.Register("bag", &fakeSource{records: map[string]value.Map{}})

	_, ok, err := reg.Lookup(context.Background(), "bag", "woningen", "0599")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistry_LookupUnregisteredSource(t *testing.T) {
	reg := New()

	_, _, err := reg.Lookup(context.Background(), "nonexistent", "woningen", "0599")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestRegistry_RegisterMultipleNamedSources(t *testing.T) {
	reg := New()
	reg.Register("rni", &fakeSource{records: map[string]value.Map{"personen/111": {"leeftijd": value.Int(40)}}})
	reg.Register("kvk", &fakeSource{records: map[string]value.Map{"bedrijven/222": {"rechtsvorm": value.Str("BV")}}})

	rec, ok, err := reg.Lookup(context.Background(), "kvk", "bedrijven", "222")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.Str("BV"), rec["rechtsvorm"])

	// a distinct registration under "rni" stays reachable independently of
	// whichever source was registered last.
	rec, ok, err = reg.Lookup(context.Background(), "rni", "personen", "111")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.Int(40), rec["leeftijd"])
}

func TestFromStructFunc(t *testing.T) {
	type Persoon struct {
		Leeftijd int
		Naam     string
	}
	src := FromStructFunc(func(_ context.Context, table, key string) (any, bool, error) {
		if table != "personen" || key != "123" {
			return nil, false, nil
		}
		return Persoon{Leeftijd: 42, Naam: "Jan"}, true, nil
	})

	rec, ok, err := src.Lookup(context.Background(), "personen", "123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.Int(42), rec["Leeftijd"])
	assert.Equal(t, value.Str("Jan"), rec["Naam"])

	_, ok, err = src.Lookup(context.Background(), "personen", "999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToValueMap_PlainMap(t *testing.T) {
	m := ToValueMap(map[string]any{"a": 1, "b": "x"})
	assert.Equal(t, value.Int(1), m["a"])
	assert.Equal(t, value.Str("x"), m["b"])
}

func TestToValueMap_NonStruct(t *testing.T) {
	assert.Equal(t, value.Map{}, ToValueMap(42))
}
