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
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastyaml/fastyaml"
)

// Flattened shapes for comparing materialized trees while keeping container
// kinds and key order visible.
type (
	seqT  []any
	mapT  [][2]any
	omapT [][2]any
	tagT  struct {
		Tag   string
		Value any
	}
)

func flatten(v any) any {
	switch v := v.(type) {
	case *fastyaml.Sequence:
		out := seqT{}
		for _, item := range v.Items {
			out = append(out, flatten(item))
		}
		return out
	case fastyaml.Mapping:
		out := mapT{}
		for el := v.Front(); el != nil; el = el.Next() {
			out = append(out, [2]any{flatten(el.Key), flatten(el.Value)})
		}
		return out
	case fastyaml.OrderedMapping:
		out := omapT{}
		for el := v.Front(); el != nil; el = el.Next() {
			out = append(out, [2]any{flatten(el.Key), flatten(el.Value)})
		}
		return out
	case *fastyaml.Tagged:
		return tagT{Tag: v.Tag, Value: flatten(v.Value)}
	default:
		return v
	}
}

var parseTests = []struct {
	data string
	want any
}{
	// Scalars at the root.
	{"123", int64(123)},
	{"0x1A", int64(26)},
	{"010", int64(8)},
	{"019", int64(19)},
	{"0x1G", "0x1G"},
	{"1.5", 1.5},
	{".inf", math.Inf(1)},
	{"-.inf", math.Inf(-1)},
	{"true", true},
	{"null", nil},
	{"hello world", "hello world"},
	{`"123"`, "123"},
	{"'true'", "true"},
	{"''", ""},

	// Sequences and mappings, block and flow.
	{"[]", seqT{}},
	{"{}", mapT{}},
	{"[1, 2, 3]", seqT{int64(1), int64(2), int64(3)}},
	{"- a\n- b\n", seqT{"a", "b"}},
	{
		"{a: 1, b: [true, null, .inf]}",
		mapT{
			{"a", int64(1)},
			{"b", seqT{true, nil, math.Inf(1)}},
		},
	},
	{
		"b: 2\na: 1\n",
		mapT{{"b", int64(2)}, {"a", int64(1)}},
	},
	{
		"outer:\n  inner: [x]\n",
		mapT{{"outer", mapT{{"inner", seqT{"x"}}}}},
	},
	{
		"1: one\n2.5: two and a half\n",
		mapT{{int64(1), "one"}, {2.5, "two and a half"}},
	},

	// Keys without values materialize as empty strings, like the scanner's
	// empty scalar events.
	{"a:\n", mapT{{"a", ""}}},

	// Comments are consumed, not materialized, including tail comments at
	// a dedent.
	{"# head\na: 1 # line\n", mapT{{"a", int64(1)}}},
	{
		"a:\n  b: 1\n  # trailing\nc: 2\n",
		mapT{{"a", mapT{{"b", int64(1)}}}, {"c", int64(2)}},
	},

	// Tags route through the hook; non-core tags wrap.
	{"!point {x: 1}", tagT{Tag: "!point", Value: mapT{{"x", int64(1)}}}},
	{"!!seq [1]", seqT{int64(1)}},

	// omap builds the distinct ordered container in document order.
	{
		"!!omap\n- k1: v1\n- k2: v2\n- k3: v3\n",
		omapT{{"k1", "v1"}, {"k2", "v2"}, {"k3", "v3"}},
	},

	// Aliases resolve to previously anchored values.
	{
		"a: &x 5\nb: *x\n",
		mapT{{"a", int64(5)}, {"b", int64(5)}},
	},

	// Only the first document of a multi-document stream is materialized.
	{"1\n---\n2\n", int64(1)},
	{"---\nfirst\n---\nsecond\n", "first"},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		t.Run(test.data, func(t *testing.T) {
			v, err := fastyaml.ParseBytes([]byte(test.data))
			require.NoError(t, err)
			require.Equal(t, test.want, flatten(v))
		})
	}
}

func TestParseReader(t *testing.T) {
	v, err := fastyaml.Parse(strings.NewReader("a: 1"))
	require.NoError(t, err)
	require.Equal(t, mapT{{"a", int64(1)}}, flatten(v))
}

func TestParseAliasSharesIdentity(t *testing.T) {
	v, err := fastyaml.ParseBytes([]byte("a: &x [1, 2]\nb: *x\n"))
	require.NoError(t, err)
	m := v.(fastyaml.Mapping)
	a, ok := m.Get("a")
	require.True(t, ok)
	b, ok := m.Get("b")
	require.True(t, ok)
	require.Same(t, a.(*fastyaml.Sequence), b.(*fastyaml.Sequence))
}

func TestParseUndefinedAnchor(t *testing.T) {
	_, err := fastyaml.ParseBytes([]byte("a: *nope\n"))
	var anchorErr *fastyaml.UndefinedAnchorError
	require.ErrorAs(t, err, &anchorErr)
	require.Equal(t, "nope", anchorErr.Anchor)
}

func TestParseOmapIsDistinctFromMapping(t *testing.T) {
	om, err := fastyaml.ParseBytes([]byte("!!omap\n- k1: v1\n- k2: v2\n"))
	require.NoError(t, err)
	m, err := fastyaml.ParseBytes([]byte("k1: v1\nk2: v2\n"))
	require.NoError(t, err)

	require.IsType(t, fastyaml.OrderedMapping{}, om)
	require.IsType(t, fastyaml.Mapping{}, m)

	keys := om.(fastyaml.OrderedMapping).Keys()
	require.Equal(t, []any{"k1", "k2"}, keys)
}

func TestParseOmapBadShape(t *testing.T) {
	_, err := fastyaml.ParseBytes([]byte("!!omap\n- [1, 2]\n"))
	var structuralErr *fastyaml.StructuralError
	require.ErrorAs(t, err, &structuralErr)
	require.Equal(t, "mapping start", structuralErr.Expected)
}

func TestParseMappingPreservesOrder(t *testing.T) {
	v, err := fastyaml.ParseBytes([]byte("z: 1\na: 2\nm: 3\n"))
	require.NoError(t, err)
	require.Equal(t, []any{"z", "a", "m"}, v.(fastyaml.Mapping).Keys())
}

func TestParseTagFunc(t *testing.T) {
	var seen []string
	v, err := fastyaml.ParseBytes(
		[]byte("!outer\n- !inner 1\n"),
		fastyaml.WithTagFunc(func(tag string, value any) (any, error) {
			seen = append(seen, tag)
			return value, nil
		}),
	)
	require.NoError(t, err)
	// Containers are tagged at open, before their children are built.
	require.Equal(t, []string{"!outer", "!inner"}, seen)
	require.Equal(t, seqT{int64(1)}, flatten(v))
}

func TestParseTagFuncError(t *testing.T) {
	boom := errors.New("boom")
	_, err := fastyaml.ParseBytes(
		[]byte("!bad 1\n"),
		fastyaml.WithTagFunc(func(tag string, value any) (any, error) {
			return nil, boom
		}),
	)
	var tagErr *fastyaml.TagError
	require.ErrorAs(t, err, &tagErr)
	require.Equal(t, "!bad", tagErr.Tag)
	require.ErrorIs(t, err, boom)
}

func TestParseTagFuncUncomparableKey(t *testing.T) {
	// A hook may rewrite a key node into a value that cannot be hashed;
	// that must surface as an error, not a panic.
	toSlice := fastyaml.WithTagFunc(func(tag string, value any) (any, error) {
		return []any{value}, nil
	})

	for _, data := range []string{
		"!k a: 1\n",
		"!!omap\n- !k a: 1\n",
	} {
		t.Run(data, func(t *testing.T) {
			_, err := fastyaml.ParseBytes([]byte(data), toSlice)
			var keyErr *fastyaml.KeyError
			require.ErrorAs(t, err, &keyErr)
			require.Equal(t, []any{"a"}, keyErr.Key)
		})
	}
}

func TestParseTagFuncUncomparableValueIsFine(t *testing.T) {
	// Only key position is constrained.
	v, err := fastyaml.ParseBytes(
		[]byte("a: !k 1\n"),
		fastyaml.WithTagFunc(func(tag string, value any) (any, error) {
			return []any{value}, nil
		}),
	)
	require.NoError(t, err)
	require.Equal(t, mapT{{"a", []any{int64(1)}}}, flatten(v))
}

// recordingOmap checks that an injected ordered-map constructor is honored.
type recordingOmap struct {
	keys   []any
	values []any
}

func (m *recordingOmap) Set(key, value any) bool {
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return true
}

func TestParseOrderedMapFunc(t *testing.T) {
	custom := &recordingOmap{}
	v, err := fastyaml.ParseBytes(
		[]byte("!!omap\n- a: 1\n- b: 2\n"),
		fastyaml.WithOrderedMapFunc(func() fastyaml.OrderedMap { return custom }),
	)
	require.NoError(t, err)
	require.Same(t, custom, v.(*recordingOmap))
	require.Equal(t, []any{"a", "b"}, custom.keys)
	require.Equal(t, []any{int64(1), int64(2)}, custom.values)
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestParseReaderErrorPropagates(t *testing.T) {
	sentinel := errors.New("disk on fire")
	_, err := fastyaml.Parse(&failingReader{err: sentinel})
	require.ErrorIs(t, err, sentinel)
}

func TestParseEmptyInput(t *testing.T) {
	// An empty stream has no document at all, which the driver reports as
	// a structural error rather than returning a zero value.
	_, err := fastyaml.Parse(strings.NewReader(""))
	var structuralErr *fastyaml.StructuralError
	require.ErrorAs(t, err, &structuralErr)
	require.Equal(t, "document start", structuralErr.Expected)
}

func TestParseScannerErrorPropagates(t *testing.T) {
	_, err := fastyaml.ParseBytes([]byte("{a: 1"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "yaml:")
}

func TestParseTruncatedReader(t *testing.T) {
	// io.ErrUnexpectedEOF from the reader aborts the parse.
	r := io.MultiReader(strings.NewReader("a: "), &failingReader{err: io.ErrUnexpectedEOF})
	_, err := fastyaml.Parse(r)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
