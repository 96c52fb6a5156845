//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fastyaml_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastyaml/fastyaml"
)

func TestMappingPreservesInsertionOrder(t *testing.T) {
	m := fastyaml.NewMapping()
	m.Set("z", 1)
	m.Set("a", 2)
	m.Set("m", 3)
	require.Equal(t, []any{"z", "a", "m"}, m.Keys())

	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok = m.Get("missing")
	require.False(t, ok)
}

func TestOrderedMappingIsDistinctType(t *testing.T) {
	var m any = fastyaml.NewMapping()
	var om any = fastyaml.NewOrderedMapping()

	_, isOmap := m.(fastyaml.OrderedMapping)
	require.False(t, isOmap)
	_, isMapping := om.(fastyaml.Mapping)
	require.False(t, isMapping)
}

func TestOrderedMappingSatisfiesOrderedMap(t *testing.T) {
	var om fastyaml.OrderedMap = fastyaml.NewOrderedMapping()
	require.True(t, om.Set("k", "v"))
}

func TestDefaultTag(t *testing.T) {
	v, err := fastyaml.DefaultTag("tag:yaml.org,2002:str", "x")
	require.NoError(t, err)
	require.Equal(t, "x", v)

	v, err = fastyaml.DefaultTag("!custom", int64(7))
	require.NoError(t, err)
	tagged, ok := v.(*fastyaml.Tagged)
	require.True(t, ok)
	require.Equal(t, "!custom", tagged.Tag)
	require.Equal(t, int64(7), tagged.Value)
}

func TestSequenceLen(t *testing.T) {
	seq := &fastyaml.Sequence{Items: []any{1, 2, 3}}
	require.Equal(t, 3, seq.Len())
	require.Equal(t, 0, (&fastyaml.Sequence{}).Len())
}
