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

package fastyaml

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastyaml/fastyaml/internal/yamlh"
)

func TestResolveScalar(t *testing.T) {
	for _, test := range []struct {
		text string
		want any
	}{
		// Null, booleans. Exact literals only.
		{"null", nil},
		{"true", true},
		{"false", false},
		{"Null", "Null"},
		{"TRUE", "TRUE"},
		{"False", "False"},
		{"~", "~"},
		{"nullable", "nullable"},
		{"truex", "truex"},

		// Decimal integers.
		{"0", int64(0)},
		{"123", int64(123)},
		{"+123", int64(123)},
		{"-123", int64(-123)},
		{"123abc", "123abc"},
		{"9223372036854775807", int64(math.MaxInt64)},
		{"-9223372036854775808", int64(math.MinInt64)},
		{"9223372036854775808", uint64(9223372036854775808)},
		{"18446744073709551615", uint64(math.MaxUint64)},
		{"18446744073709551616", float64(18446744073709551616)},

		// Hexadecimal: whole match or fall through.
		{"0x1A", int64(26)},
		{"0xff", int64(255)},
		{"0x1G", "0x1G"},
		{"0x", "0x"},
		{"0xFFFFFFFFFFFFFFFF", uint64(math.MaxUint64)},
		{"-0x1A", "-0x1A"},

		// Octal: second digit 0-8 selects the octal path; 9 falls through
		// to decimal.
		{"010", int64(8)},
		{"0777", int64(511)},
		{"08", int64(8)},
		{"019", int64(19)},
		{"0o14", "0o14"},
		{"0b10", "0b10"},

		// Floats.
		{"0.1", 0.1},
		{".5", 0.5},
		{"-.5", -0.5},
		{"6.8523e+5", 6.8523e+5},
		{"1e3", 1000.0},
		{"1e1000", math.Inf(1)},
		{"-1e1000", math.Inf(-1)},
		{".", "."},
		{"-", "-"},
		{"+", "+"},

		// Infinities. Case variants are literal, not case-insensitive.
		{".inf", math.Inf(1)},
		{".Inf", math.Inf(1)},
		{"+.inf", math.Inf(1)},
		{"+.Inf", math.Inf(1)},
		{"-.inf", math.Inf(-1)},
		{"-.Inf", math.Inf(-1)},
		{".INF", ".INF"},
		{"-.INF", "-.INF"},
		{".infinity", ".infinity"},

		// Go numeric extensions that the scalar grammar must not accept.
		{"0x1p-2", "0x1p-2"},
		{"685.230_15e+03", "685.230_15e+03"},
		{"1_000", "1_000"},

		// Everything else is a string.
		{"", ""},
		{"hi", "hi"},
		{"0.1.2", "0.1.2"},
		{"- item", "- item"},
	} {
		t.Run(test.text, func(t *testing.T) {
			got, err := resolveScalar([]byte(test.text), yamlh.PLAIN_SCALAR_STYLE)
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestResolveScalarNaN(t *testing.T) {
	for _, text := range []string{".NaN", ".nan"} {
		got, err := resolveScalar([]byte(text), yamlh.PLAIN_SCALAR_STYLE)
		require.NoError(t, err)
		f, ok := got.(float64)
		require.True(t, ok)
		require.True(t, math.IsNaN(f))
	}
	for _, text := range []string{".NAN", ".Nan", "-.NaN"} {
		got, err := resolveScalar([]byte(text), yamlh.PLAIN_SCALAR_STYLE)
		require.NoError(t, err)
		require.Equal(t, text, got)
	}
}

func TestResolveScalarQuotingSuppressesTyping(t *testing.T) {
	for _, text := range []string{"123", "true", "null", ".inf", "0x1A", "010"} {
		for _, style := range []yamlh.YamlScalarStyle{
			yamlh.SINGLE_QUOTED_SCALAR_STYLE,
			yamlh.DOUBLE_QUOTED_SCALAR_STYLE,
		} {
			got, err := resolveScalar([]byte(text), style)
			require.NoError(t, err)
			require.Equal(t, text, got)
		}
	}
}

func TestResolveScalarLiteralStyleStillTypes(t *testing.T) {
	// Only single and double quoting suppress implicit typing.
	got, err := resolveScalar([]byte("123"), yamlh.LITERAL_SCALAR_STYLE)
	require.NoError(t, err)
	require.Equal(t, int64(123), got)
}

func TestResolveScalarInvalidUTF8(t *testing.T) {
	_, err := resolveScalar([]byte{0xff, 0xfe, 0xfd}, yamlh.PLAIN_SCALAR_STYLE)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

// Resolution is idempotent on canonical forms: re-rendering a resolved
// number and resolving again yields an equal value.
func TestResolveScalarCanonicalRoundTrip(t *testing.T) {
	for _, text := range []string{"0", "123", "-123", "0x1A", "010", "0.1", "6.8523e+5", "-9223372036854775808"} {
		first, err := resolveScalar([]byte(text), yamlh.PLAIN_SCALAR_STYLE)
		require.NoError(t, err)
		var canonical string
		switch v := first.(type) {
		case int64:
			canonical = strconv.FormatInt(v, 10)
		case float64:
			canonical = strconv.FormatFloat(v, 'e', -1, 64)
		default:
			t.Fatalf("expected numeric resolution for %q, got %T", text, first)
		}
		second, err := resolveScalar([]byte(canonical), yamlh.PLAIN_SCALAR_STYLE)
		require.NoError(t, err)
		require.Equal(t, first, second, fmt.Sprintf("%q -> %q", text, canonical))
	}
}
