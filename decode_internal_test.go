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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastyaml/fastyaml/internal/yamlh"
)

// sliceSource feeds a canned event stream to the loader so the builder's
// grammar can be exercised without a scanner. Running past the end yields
// the empty event, like the real parser after stream end.
type sliceSource struct {
	events []*yamlh.Event
	pos    int
}

func (s *sliceSource) next() (*yamlh.Event, error) {
	if s.pos >= len(s.events) {
		return &yamlh.Event{}, nil
	}
	event := s.events[s.pos]
	s.pos++
	return event, nil
}

func streamStart() *yamlh.Event {
	return &yamlh.Event{Type: yamlh.STREAM_START_EVENT, Encoding: yamlh.UTF8_ENCODING}
}

func streamEnd() *yamlh.Event { return &yamlh.Event{Type: yamlh.STREAM_END_EVENT} }

func docStart() *yamlh.Event {
	return &yamlh.Event{Type: yamlh.DOCUMENT_START_EVENT, Implicit: true}
}

func docEnd() *yamlh.Event {
	return &yamlh.Event{Type: yamlh.DOCUMENT_END_EVENT, Implicit: true}
}

func seqStart(anchor, tag string) *yamlh.Event {
	return &yamlh.Event{
		Type:   yamlh.SEQUENCE_START_EVENT,
		Anchor: []byte(anchor),
		Tag:    []byte(tag),
	}
}

func seqEnd() *yamlh.Event { return &yamlh.Event{Type: yamlh.SEQUENCE_END_EVENT} }

func mapStart(anchor, tag string) *yamlh.Event {
	return &yamlh.Event{
		Type:   yamlh.MAPPING_START_EVENT,
		Anchor: []byte(anchor),
		Tag:    []byte(tag),
	}
}

func mapEnd() *yamlh.Event { return &yamlh.Event{Type: yamlh.MAPPING_END_EVENT} }

func scalar(value string) *yamlh.Event {
	return scalarNode(value, "", "")
}

func scalarNode(value, anchor, tag string) *yamlh.Event {
	return &yamlh.Event{
		Type:   yamlh.SCALAR_EVENT,
		Anchor: []byte(anchor),
		Tag:    []byte(tag),
		Value:  []byte(value),
		Style:  yamlh.YamlStyle(yamlh.PLAIN_SCALAR_STYLE),
	}
}

func alias(anchor string) *yamlh.Event {
	return &yamlh.Event{Type: yamlh.ALIAS_EVENT, Anchor: []byte(anchor)}
}

func document(body ...*yamlh.Event) []*yamlh.Event {
	events := []*yamlh.Event{streamStart(), docStart()}
	events = append(events, body...)
	return append(events, docEnd(), streamEnd())
}

func loadEvents(t *testing.T, events []*yamlh.Event, opts ...Option) (any, error) {
	t.Helper()
	return newLoader(&sliceSource{events: events}, opts...).load()
}

func TestLoaderEmptyContainers(t *testing.T) {
	v, err := loadEvents(t, document(seqStart("", ""), seqEnd()))
	require.NoError(t, err)
	seq, ok := v.(*Sequence)
	require.True(t, ok)
	require.Equal(t, 0, seq.Len())

	v, err = loadEvents(t, document(mapStart("", ""), mapEnd()))
	require.NoError(t, err)
	m, ok := v.(Mapping)
	require.True(t, ok)
	require.Equal(t, 0, m.Len())

	v, err = loadEvents(t, document(seqStart("", omapTag), seqEnd()))
	require.NoError(t, err)
	_, ok = v.(OrderedMapping)
	require.True(t, ok)
}

func TestLoaderStructuralErrors(t *testing.T) {
	for _, test := range []struct {
		name     string
		events   []*yamlh.Event
		expected string
		found    string
	}{
		{
			name:     "no stream start",
			events:   []*yamlh.Event{docStart()},
			expected: "stream start",
			found:    "document start",
		},
		{
			name:     "no document start",
			events:   []*yamlh.Event{streamStart(), streamEnd()},
			expected: "document start",
			found:    "stream end",
		},
		{
			name:     "document with no content",
			events:   []*yamlh.Event{streamStart(), docStart(), docEnd(), streamEnd()},
			expected: "node",
			found:    "document end",
		},
		{
			name:     "mapping missing value",
			events:   document(mapStart("", ""), scalar("k"), mapEnd()),
			expected: "node",
			found:    "mapping end",
		},
		{
			name:     "sequence closed by mapping end",
			events:   document(seqStart("", ""), scalar("a"), mapEnd()),
			expected: "node",
			found:    "mapping end",
		},
		{
			name:     "two root nodes",
			events:   document(scalar("a"), scalar("b")),
			expected: "document end",
			found:    "scalar",
		},
		{
			name:     "mapping never closed",
			events:   []*yamlh.Event{streamStart(), docStart(), mapStart("", ""), scalar("k"), scalar("v")},
			expected: "node",
			found:    "none",
		},
		{
			name:     "trailing junk after document end",
			events:   []*yamlh.Event{streamStart(), docStart(), scalar("a"), docEnd(), mapStart("", ""), mapEnd(), streamEnd()},
			expected: "stream end",
			found:    "mapping start",
		},
		{
			name:     "omap entry is not a mapping",
			events:   document(seqStart("", omapTag), scalar("a"), seqEnd()),
			expected: "mapping start",
			found:    "scalar",
		},
		{
			name: "omap entry with two pairs",
			events: document(
				seqStart("", omapTag),
				mapStart("", ""), scalar("k1"), scalar("v1"), scalar("k2"), scalar("v2"), mapEnd(),
				seqEnd(),
			),
			expected: "mapping end",
			found:    "scalar",
		},
		{
			name: "omap entry truncated before its pair",
			events: document(
				seqStart("", omapTag),
				mapStart("", ""), mapEnd(),
				seqEnd(),
			),
			expected: "node",
			found:    "mapping end",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := loadEvents(t, test.events)
			var structuralErr *StructuralError
			require.ErrorAs(t, err, &structuralErr)
			require.Equal(t, test.expected, structuralErr.Expected)
			require.Equal(t, test.found, structuralErr.Found)
		})
	}
}

func TestLoaderSecondDocumentIsScopeBoundary(t *testing.T) {
	events := []*yamlh.Event{
		streamStart(),
		docStart(), scalar("1"), docEnd(),
		docStart(), scalar("2"), docEnd(),
		streamEnd(),
	}
	v, err := loadEvents(t, events)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestLoaderAnchorsDoNotCrossDocuments(t *testing.T) {
	// The second document is never read, so an alias in it referencing the
	// first document's anchor is simply out of scope here; within one
	// document, the table is created fresh at document start.
	l := newLoader(&sliceSource{events: document(scalarNode("1", "a", ""))})
	_, err := l.load()
	require.NoError(t, err)
	require.Nil(t, l.anchors)
}

func TestLoaderSelfAlias(t *testing.T) {
	// &a [1, *a] — the container is registered before its children, so it
	// may contain itself.
	v, err := loadEvents(t, document(
		seqStart("a", ""), scalar("1"), alias("a"), seqEnd(),
	))
	require.NoError(t, err)
	seq, ok := v.(*Sequence)
	require.True(t, ok)
	require.Equal(t, 2, seq.Len())
	require.Equal(t, int64(1), seq.Items[0])
	require.Same(t, seq, seq.Items[1])
}

func TestLoaderAnchorOverwrite(t *testing.T) {
	// The most recently registered value wins.
	v, err := loadEvents(t, document(
		seqStart("", ""),
		scalarNode("1", "a", ""),
		scalarNode("2", "a", ""),
		alias("a"),
		seqEnd(),
	))
	require.NoError(t, err)
	seq := v.(*Sequence)
	require.Equal(t, []any{int64(1), int64(2), int64(2)}, seq.Items)
}

func TestLoaderNullAnchorIsNotUndefined(t *testing.T) {
	v, err := loadEvents(t, document(
		seqStart("", ""),
		scalarNode("null", "n", ""),
		alias("n"),
		seqEnd(),
	))
	require.NoError(t, err)
	seq := v.(*Sequence)
	require.Equal(t, []any{nil, nil}, seq.Items)
}

func TestLoaderUndefinedAnchor(t *testing.T) {
	_, err := loadEvents(t, document(alias("nope")))
	var anchorErr *UndefinedAnchorError
	require.ErrorAs(t, err, &anchorErr)
	require.Equal(t, "nope", anchorErr.Anchor)
}

func TestLoaderAliasResolvesToTaggedForm(t *testing.T) {
	// The tag hook runs before anchor registration, so the alias must see
	// the wrapped value, not the raw container.
	v, err := loadEvents(t, document(
		seqStart("", ""),
		seqStart("a", "!custom"), seqEnd(),
		alias("a"),
		seqEnd(),
	))
	require.NoError(t, err)
	seq := v.(*Sequence)
	require.Equal(t, 2, seq.Len())
	tagged, ok := seq.Items[0].(*Tagged)
	require.True(t, ok)
	require.Equal(t, "!custom", tagged.Tag)
	require.Same(t, tagged, seq.Items[1])
}

func TestLoaderTaggedContainerChildrenLandInside(t *testing.T) {
	v, err := loadEvents(t, document(
		seqStart("", "!pair"), scalar("1"), scalar("2"), seqEnd(),
	))
	require.NoError(t, err)
	tagged, ok := v.(*Tagged)
	require.True(t, ok)
	seq, ok := tagged.Value.(*Sequence)
	require.True(t, ok)
	require.Equal(t, []any{int64(1), int64(2)}, seq.Items)
}

func TestLoaderScalarDecodeError(t *testing.T) {
	bad := &yamlh.Event{
		Type:       yamlh.SCALAR_EVENT,
		Value:      []byte{'a', 0xff, 'b'},
		Style:      yamlh.YamlStyle(yamlh.PLAIN_SCALAR_STYLE),
		Start_mark: yamlh.Position{Line: 2, Column: 4},
	}
	_, err := loadEvents(t, document(bad))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, 3, decodeErr.Line)
	require.Equal(t, 5, decodeErr.Column)
}
