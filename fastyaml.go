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

// Package fastyaml materializes a YAML document into native Go values.
//
// Parse consumes a YAML stream and returns the root of its first document as
// a value tree: nil, bool, int64/uint64, float64, and string for scalars,
// *Sequence for sequences, Mapping for mappings, and OrderedMapping for
// sequences tagged !!omap. Untagged plain scalars are typed by the core
// schema's implicit rules; quoting suppresses implicit typing. Anchored
// nodes are shared, not copied: every alias resolves to the same value, and
// a container may be aliased from within itself.
//
// Nodes carrying an explicit tag are routed through a tag hook. The default
// hook wraps non-core tags in a Tagged value; callers needing richer tag
// dispatch inject their own with WithTagFunc.
package fastyaml

import (
	"bytes"
	"io"

	"github.com/fastyaml/fastyaml/internal/parserc"
)

// TagFunc resolves an explicitly tagged node. It receives the tag and the
// already constructed value and returns the value to use in its place. An
// error aborts the parse, reported as a TagError.
type TagFunc func(tag string, value any) (any, error)

// OrderedMapFunc produces the empty container used for a sequence tagged
// !!omap. The builder fills it with Set calls in document order.
type OrderedMapFunc func() OrderedMap

// Option configures a single Parse call. The tag hook and the ordered-map
// constructor are injected here rather than held in package state.
type Option func(*loader)

// WithTagFunc installs fn as the tag hook in place of DefaultTag.
func WithTagFunc(fn TagFunc) Option {
	return func(l *loader) { l.tagFn = fn }
}

// WithOrderedMapFunc installs fn as the constructor for !!omap containers.
func WithOrderedMapFunc(fn OrderedMapFunc) Option {
	return func(l *loader) { l.omapFn = fn }
}

// Parse reads one YAML stream from r and returns the root value of its
// first document. The whole materialization is a single synchronous pass;
// any structural, anchor, tag, decoding, or input error aborts it with no
// partial result.
func Parse(r io.Reader, opts ...Option) (any, error) {
	l := newLoader(&streamSource{parser: parserc.New(r)}, opts...)
	return l.load()
}

// ParseBytes is Parse for in-memory input.
func ParseBytes(b []byte, opts ...Option) (any, error) {
	return Parse(bytes.NewReader(b), opts...)
}
