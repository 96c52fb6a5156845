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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/fastyaml/fastyaml"
)

// normalize converts a materialized tree into the generic shapes produced by
// gopkg.in/yaml.v3, for inputs whose semantics the two schemas share: string
// keys only, values within int range.
func normalize(t *testing.T, v any) any {
	t.Helper()
	switch v := v.(type) {
	case *fastyaml.Sequence:
		out := make([]any, 0, len(v.Items))
		for _, item := range v.Items {
			out = append(out, normalize(t, item))
		}
		return out
	case fastyaml.Mapping:
		out := make(map[string]any, v.Len())
		for el := v.Front(); el != nil; el = el.Next() {
			key, ok := el.Key.(string)
			require.True(t, ok, "cross-validation corpus must use string keys")
			out[key] = normalize(t, el.Value)
		}
		return out
	case int64:
		require.True(t, v >= math.MinInt && v <= math.MaxInt)
		return int(v)
	default:
		return v
	}
}

// Cross-validate against an independent YAML implementation on inputs where
// the two resolvers agree.
func TestParseMatchesYAMLv3(t *testing.T) {
	for _, data := range []string{
		"v: hi\n",
		"v: true\n",
		"v: 10\n",
		"v: -5\n",
		"v: 0.5\n",
		"v: .inf\n",
		"a: 1\nb: [x, y]\n",
		"[1, 2.5, null]",
		`"123"`,
		"'true'",
		"a: &x 1\nb: *x\n",
		"{a: {b: c}}",
		"- - 1\n- 2\n",
		"0x1A",
		"010",
	} {
		t.Run(data, func(t *testing.T) {
			mine, err := fastyaml.ParseBytes([]byte(data))
			require.NoError(t, err)

			var theirs any
			require.NoError(t, yamlv3.Unmarshal([]byte(data), &theirs))

			require.Equal(t, theirs, normalize(t, mine))
		})
	}
}

func FuzzParse(f *testing.F) {
	for _, data := range []string{
		"{}",
		"v: hi",
		"v: true",
		"v: 10",
		"v: 0x1A",
		"v: 010",
		"v: 0x1G",
		"v: 4294967296",
		"v: .inf",
		"v: -.inf",
		"v: .NaN",
		"123",
		"canonical: 6.8523e+5",
		"expo: 685.230_15e+03",
		"a: &x [1, 2]\nb: *x\n",
		"&a [1, *a]",
		"a: *nope",
		"!!omap\n- k1: v1\n- k2: v2\n",
		"!!omap\n- [1, 2]\n",
		"!point {x: 1}",
		"1\n---\n2\n",
		"{a: 1",
		"a:\n- b\n- c",
		"a:\n  b: 1\n  # trailing\nc: 2\n",
		"? [k]\n: v\n",
		"\xff\xfe",
		"",
	} {
		f.Add([]byte(data))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		// Parsing must be deterministic and must never panic; values may be
		// cyclic via self-aliases, so determinism is asserted on the error
		// surface.
		_, err1 := fastyaml.ParseBytes(data)
		_, err2 := fastyaml.ParseBytes(data)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("non-deterministic outcome: %v vs %v", err1, err2)
		}
		if err1 != nil && err1.Error() != err2.Error() {
			t.Fatalf("non-deterministic error: %q vs %q", err1, err2)
		}
	})
}
